// Command protogen builds the packages declared in a protogen config
// file, one at a time or all of them in dependency order.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	gs := &globalState{
		fs:     afero.NewOsFs(),
		logger: logger,
		stdout: os.Stdout,
	}
	if err := newRootCommand(gs).Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
