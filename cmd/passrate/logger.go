package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mindsgn-studio/passrate/config"
)

// newLogger creates a logger at the configured level. If verbose is true the
// logger is set to DebugLevel regardless of configuration.
func newLogger(cfg config.Config, verbose bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(cfg.Level())
	}
	return log
}
