package kmeansgo

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with kmeansgo-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithEngine adds an engine field to the logger.
func (l *Logger) WithEngine(engine string) *Logger {
	return &Logger{
		Logger: l.Logger.With("engine", engine),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithPoints adds a points (dataset size) field to the logger.
func (l *Logger) WithPoints(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("points", n),
	}
}

// WithWorkers adds a workers field to the logger.
func (l *Logger) WithWorkers(workers int) *Logger {
	return &Logger{
		Logger: l.Logger.With("workers", workers),
	}
}

// LogRun logs one clustering run.
func (l *Logger) LogRun(ctx context.Context, engine string, n, k, iterations int, duration time.Duration, err error) {
	switch {
	case errors.Is(err, ErrDidNotConverge):
		l.WarnContext(ctx, "clustering stopped at iteration cap",
			"engine", engine,
			"points", n,
			"k", k,
			"iterations", iterations,
			"duration", duration,
		)
	case err != nil:
		l.ErrorContext(ctx, "clustering failed",
			"engine", engine,
			"points", n,
			"k", k,
			"error", err,
		)
	default:
		l.DebugContext(ctx, "clustering completed",
			"engine", engine,
			"points", n,
			"k", k,
			"iterations", iterations,
			"duration", duration,
		)
	}
}
