// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-starfield/engine/config"
)

// Init installs the default slog logger writing to stdout.
//
// Parameters:
//   - cfg: level ("debug", "info", "warn", "error") and output format
func Init(cfg config.LoggingConfig) {
	InitWriter(os.Stdout, cfg)
}

// InitWriter installs the default slog logger writing to w.
//
// Parameters:
//   - w: the log destination
//   - cfg: level and output format
func InitWriter(w io.Writer, cfg config.LoggingConfig) {
	slog.SetDefault(slog.New(NewHandler(w, cfg)))

	logger := slog.With("component", "logger")
	logger.Debug("Logger initialized",
		"level", cfg.Level,
		"json_format", cfg.JSON,
	)
}

// NewHandler builds a text or JSON handler for cfg.
func NewHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.JSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Discard returns a logger that drops every record. Used by tests and headless tools.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps a level name to a slog level. Unknown names map to debug.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
