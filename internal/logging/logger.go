// Package logging builds the zerolog loggers shared by the CLI, the web
// surface and the transport layer.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Output     io.Writer
}

// DefaultConfig returns the console configuration used by the CLI
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
	}
}

// ForVerbosity maps the CLI verbosity scale to a logging configuration.
// 0=none, 1=debug logs, 2=raw switch output, 3=debug+raw output. Raw output
// is gated separately by entities.SwitchConfig, so levels 0 and 2 only
// differ there.
func ForVerbosity(level int) Config {
	cfg := DefaultConfig()
	if level == 1 || level == 3 {
		cfg.Level = zerolog.DebugLevel
	}
	return cfg
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var output io.Writer = out
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromEnv creates a logger based on environment variables
// UNIFI2ICX_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// UNIFI2ICX_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	cfg := DefaultConfig()

	if level := os.Getenv("UNIFI2ICX_LOG_LEVEL"); level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			cfg.Level = parsed
		}
	}

	switch format := os.Getenv("UNIFI2ICX_LOG_FORMAT"); format {
	case "json", "console":
		cfg.Format = format
	}

	return New(cfg)
}
