package dictload

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with dictload-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithBasePath adds the dictionary prefix to the logger.
func (l *Logger) WithBasePath(base string) *Logger {
	return &Logger{
		Logger: l.Logger.With("base", base),
	}
}

// LogLoad logs a dictionary load.
func (l *Logger) LogLoad(ctx context.Context, bytes int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dictionary load failed",
			"duration", duration,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dictionary loaded",
			"bytes", bytes,
			"duration", duration,
		)
	}
}

// LogClear logs a cache clear.
func (l *Logger) LogClear(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache clear failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "cache cleared")
	}
}
