package hullmesh

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger is the package observability channel. Topology soft warnings and
// healing/merging progress are reported here; fatal conditions are returned
// as errors instead.
var logger = newDefaultLogger()

func newDefaultLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "hullmesh",
	})
	l.SetLevel(log.WarnLevel)
	return l
}

// SetLogger replaces the package logger. Passing nil restores the default
// stderr logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	logger = l
}

// SetVerbose toggles progress reporting for healing and merging operations.
// Warnings are always reported.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.InfoLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
}
