package arraytree

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with arraytree-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithCapacity adds a capacity field to the logger.
func (l *Logger) WithCapacity(capacity int) *Logger {
	return &Logger{
		Logger: l.Logger.With("capacity", capacity),
	}
}

// LogBuild logs a build pass.
func (l *Logger) LogBuild(ctx context.Context, size int, dur time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"size", size,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "build completed",
		"size", size,
		"duration", dur,
	)
}

// LogSearch logs a search pass.
func (l *Logger) LogSearch(ctx context.Context, target int32, index int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"target", target,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"target", target,
		"index", index,
	)
}

// LogSave logs a persist or snapshot write.
func (l *Logger) LogSave(ctx context.Context, dest string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"dest", dest,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "tree saved",
		"dest", dest,
	)
}

// LogLoad logs a persist or snapshot load.
func (l *Logger) LogLoad(ctx context.Context, src string, capacity int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"src", src,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "tree loaded",
		"src", src,
		"capacity", capacity,
	)
}
