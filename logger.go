package unboxed

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with unboxed-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Families use it unless WithLogger is given.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithKind adds a column kind field to the logger.
func (l *Logger) WithKind(k Kind) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", k.String()),
	}
}

// LogAlloc logs a column allocation.
func (l *Logger) LogAlloc(ctx context.Context, elems int, bytes int64, err error) {
	if err != nil {
		l.WarnContext(ctx, "allocation failed",
			"elements", elems,
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "allocation completed",
			"elements", elems,
			"bytes", bytes,
		)
	}
}

// LogGrow logs a Grow that had to move the vector to a new buffer.
func (l *Logger) LogGrow(ctx context.Context, from, to, capacity int) {
	l.DebugContext(ctx, "vector reallocated",
		"from", from,
		"to", to,
		"capacity", capacity,
	)
}
