package logger

import (
	"io"
	"log/slog"
)

// NewNopLogger returns a logger that discards everything. Intended for tests.
func NewNopLogger() Interface {
	return NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
