// Package logging builds the structured logger used by the library shell.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New creates a logger writing to w. format "json" selects the JSON handler;
// anything else gets tint's coloured console output.
func New(level, format string, w io.Writer) *slog.Logger {
	var handler slog.Handler

	logLevel := ParseLevel(level)

	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.TimeOnly,
			NoColor:    !isColorWriter(w),
		})
	}

	return slog.New(handler)
}

// WithSession tags every record with the shell session id.
func WithSession(l *slog.Logger, sessionID string) *slog.Logger {
	return l.With("session_id", sessionID)
}

// ParseLevel maps debug|info|warn|error to a slog level; anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type fdWriter interface {
	Fd() uintptr
}

func isColorWriter(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && isTerminal(f.Fd())
}
