package logger

import (
	"strings"

	"github.com/google/wire"
)

// ProviderSet is the wire provider set for the logger.
var ProviderSet = wire.NewSet(
	NewConfiguredLogger,
	wire.Bind(new(Logger), new(*SlogAdapter)),
)

// Config holds the values needed to configure the logger
type Config struct {
	Environment string
	LogLevel    string
}

// NewConfiguredLogger creates the main application logger. Environment and
// level names are matched case-insensitively.
func NewConfiguredLogger(config Config) *SlogAdapter {
	return NewSlogAdapter(
		strings.ToLower(strings.TrimSpace(config.Environment)),
		strings.ToLower(strings.TrimSpace(config.LogLevel)),
	)
}
