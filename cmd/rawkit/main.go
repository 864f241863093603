package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tacusci/logging"
)

const verNum = "v0.1.0"

func outputUsage() {
	fmt.Printf("rawkit - %s\n", verNum)
	println("Usage: " + os.Args[0] + " </TOOLFLAG>")
	fmt.Printf("\t/info (Info) - Dump decoded metadata for a raw file.\n")
	fmt.Printf("\t/thumb (Thumbnail) - Extract an embedded preview image.\n")
	fmt.Printf("\t/render (Render) - Decode, demosaic and write a raw file as PNG.\n")
}

func outputUsageAndClose() {
	outputUsage()
	os.Exit(1)
}

func setLoggingLevel() {
	debugLevel := flag.Bool("debug", false, "Set logging to debug")
	flag.Parse()

	loggingLevel := logging.InfoLevel
	if *debugLevel {
		logging.SetLevel(logging.DebugLevel)
		return
	}
	logging.SetLevel(loggingLevel)
}

func main() {
	if len(os.Args) == 1 {
		outputUsageAndClose()
	}
	runTool(os.Args[1])
}

func runTool(toolFlag string) {
	// Force the flag parser to see this subcommand's own flags.
	os.Args = os.Args[1:]
	switch toolFlag {
	case "/info":
		path := flag.String("f", "", "Raw file to inspect.")
		setLoggingLevel()
		flag.Parse()
		runInfo(*path)
	case "/thumb":
		path := flag.String("f", "", "Raw file to extract a preview from.")
		index := flag.Int("i", 0, "Thumbnail index (largest first is not guaranteed; see /info).")
		output := flag.String("o", "", "Output file to write the preview to.")
		setLoggingLevel()
		flag.Parse()
		runThumb(*path, *index, *output)
	case "/render":
		path := flag.String("f", "", "Raw file to render.")
		output := flag.String("o", "", "Output PNG file.")
		stage := flag.String("stage", "final", "Render stage: linear, demosaiced, or final.")
		gamma := flag.Float64("gamma", 2.2, "Gamma for the final stage.")
		setLoggingLevel()
		flag.Parse()
		runRender(*path, *output, *stage, *gamma)
	default:
		outputUsageAndClose()
	}
}
