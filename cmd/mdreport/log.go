package main

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Quiet limits output to errors,
// verbose enables debug messages, otherwise info-level messages are
// shown. Timestamps are formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, quiet, verbose bool) *log.Logger {
	level := log.InfoLevel
	switch {
	case quiet:
		level = log.ErrorLevel
	case verbose:
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
