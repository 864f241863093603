package main

import (
	"image/png"
	"os"
	"strings"

	"github.com/tacusci/logging"
	"github.com/tacusci/rawkit/internal/render"
	"github.com/tacusci/rawkit/pkg/rawfile"
)

func parseStage(s string) render.Stage {
	switch strings.ToLower(s) {
	case "linear":
		return render.StageLinear
	case "demosaiced":
		return render.StageDemosaiced
	default:
		return render.StageFinal
	}
}

func runRender(path, output, stage string, gamma float64) {
	if len(path) == 0 || len(output) == 0 {
		logging.ErrorAndExit("both -f and -o are required")
	}

	rf, err := rawfile.Open(path)
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}
	defer rf.Close()

	opts := render.DefaultOptions().WithStage(parseStage(stage))
	opts.Gamma = gamma

	img, err := rf.Render(opts)
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}

	out, err := os.Create(output)
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		logging.ErrorAndExit(err.Error())
	}
	logging.Info("wrote " + output)
}
