// Package logging configures the diagnostic logger. Diagnostics go to
// stderr so stdout stays reserved for the summary table.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger writing to w. Only warnings and errors
// are emitted unless verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
