package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/akave-ai/confprompt/internal/config"
)

// New builds the process logger. Local and development environments get a
// human-readable console writer; everything else logs JSON to stdout.
func New(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *config.ObservabilityConfig, w io.Writer) zerolog.Logger {
	if cfg == nil {
		cfg = config.DefaultObservabilityConfig()
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !cfg.IsProduction() && cfg.Environment != "staging" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(cfg.GetLogLevel()).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}
