package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrjola/petrload/internal/logging"
)

// NewLogger creates a debug level text logger with the given log sink such as testhelpers.Writer.
func NewLogger(logSink io.Writer) *slog.Logger {
	logger, err := logging.New(logSink, logging.FormatText, slog.LevelDebug)
	if err != nil {
		panic(err)
	}
	return logger
}
