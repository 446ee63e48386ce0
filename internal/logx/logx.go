// Package logx wraps github.com/charmbracelet/log for the driver's
// session and flash-progress messages. It plays the role the teacher
// repo's textcolor.go stub played (naming an event's color/severity
// class) but backs it with the real structured logger instead of a
// reimplemented print statement.
package logx

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the driver's event logger.
type Logger = log.Logger

// New returns a Logger writing to stderr at the given level, with the
// driver's prefix set. verbose raises the level to Debug.
func New(verbose bool) *Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ccdebugger",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
	return l
}

// Discard returns a Logger that drops everything, for tests that don't
// want driver log lines in their output.
func Discard() *Logger {
	l := log.New(nil)
	l.SetLevel(log.FatalLevel + 1)
	return l
}
