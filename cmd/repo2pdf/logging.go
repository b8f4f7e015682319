package main

import (
	"io"
	"log/slog"
)

// newLogger builds the run logger: text on w by default, JSON lines when
// asked. -v lowers the level to DEBUG, -q raises it to WARN.
func newLogger(w io.Writer, f commonFlags, format string) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if f.logJSON || format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
