// Package log configures the process-wide slog logger.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default logger. Level is one of debug, info, warn,
// error (case-insensitive, unknown values fall back to info). Setting
// LOG_FORMAT=json switches to the JSON handler for log shippers.
func Setup(logLevel string) {
	opts := &slog.HandlerOptions{Level: parseLevel(logLevel)}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// WithModule returns a child of the default logger tagged with the
// component name.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}

func parseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
