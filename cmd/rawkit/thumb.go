package main

import (
	"os"

	"github.com/tacusci/logging"
	"github.com/tacusci/rawkit/pkg/rawfile"
)

func runThumb(path string, index int, output string) {
	if len(path) == 0 || len(output) == 0 {
		logging.ErrorAndExit("both -f and -o are required")
	}

	rf, err := rawfile.Open(path)
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}
	defer rf.Close()

	thumb, err := rf.Thumbnail(index)
	if err != nil {
		logging.ErrorAndExit(err.Error())
	}

	if err := os.WriteFile(output, thumb.Data, 0o644); err != nil {
		logging.ErrorAndExit(err.Error())
	}
	logging.Info("wrote " + output)
}
