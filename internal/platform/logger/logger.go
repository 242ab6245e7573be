// Package logger hides the logging backend behind a small context-aware interface.
package logger

import (
	"context"
	"io"
)

// Logger defines the interface for logging.
// Arguments after msg are alternating key/value pairs.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

// NewNop returns a Logger that drops everything.
func NewNop() Logger {
	return NewSlogAdapterWithWriter(io.Discard, "production", "error")
}
