// Package logging builds the slog loggers used across taskflow.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the level and handler of a logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// New creates a logger writing to stderr. Stdout is reserved for program output.
func New(opts Options) *slog.Logger {
	return NewWithWriter(opts, os.Stderr)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(opts Options, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
