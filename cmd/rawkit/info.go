package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tacusci/logging"
	"github.com/tacusci/rawkit/pkg/rawfile"
)

func runInfo(path string) {
	if len(path) == 0 {
		logging.ErrorAndExit("no raw file given (-f)")
	}

	rf, err := rawfile.Open(path)
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}
	defer rf.Close()

	typ, err := rf.Type()
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}
	vendor, err := rf.Vendor()
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}

	headColor := color.New(color.FgCyan).Add(color.Bold)
	headColor.Printf("%s (%s, %s)\n", path, typ, vendor)

	img, err := rf.RawData()
	if err != nil {
		logging.Error(fmt.Sprintf("raw data: %s", err.Error()))
	} else {
		fmt.Printf("sensor: %dx%d, %d bits, pattern %s\n", img.Width, img.Height, img.BitsPerSample, img.Pattern)
	}

	sizes, err := rf.ThumbnailSizes()
	if err == nil {
		fmt.Printf("thumbnails: %d\n", len(sizes))
		for i, sz := range sizes {
			fmt.Printf("  [%d] %d bytes\n", i, sz)
		}
	}

	meta, err := rf.Metadata()
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}
	for _, e := range meta.Sorted() {
		fmt.Fprintf(os.Stdout, "%s = %s\n", e.Key(), e.Value)
	}
}
