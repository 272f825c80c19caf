// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup returns a logger writing JSON records, or human-readable text in development.
func Setup(w io.Writer, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if environment == "development" {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// SetupDefault installs the logger as slog's default. A nil writer means stdout.
func SetupDefault(w io.Writer, environment string) {
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(Setup(w, environment))
}
