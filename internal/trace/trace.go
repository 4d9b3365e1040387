// Package trace wraps log/slog with nil-safe, level-gated helpers so
// analyzer code can log unconditionally without guarding every call site
// against a missing logger — callers that pass no logger pay nothing.
package trace

import (
	"context"
	"log/slog"
)

// Enabled reports whether logging at level is enabled. False for a nil
// logger.
func Enabled(ctx context.Context, logger *slog.Logger, level slog.Level) bool {
	if logger == nil {
		return false
	}
	return logger.Enabled(ctx, level)
}

// Debug logs at Debug level if logger is non-nil and enabled. The attrs
// are evaluated at the call site; use DebugLazy for computed attributes.
func Debug(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	log(ctx, logger, slog.LevelDebug, msg, attrs)
}

// DebugLazy logs at Debug level with attributes computed only when the
// level is enabled.
func DebugLazy(ctx context.Context, logger *slog.Logger, msg string, fn func() []slog.Attr) {
	if !Enabled(ctx, logger, slog.LevelDebug) {
		return
	}
	logger.LogAttrs(ctx, slog.LevelDebug, msg, fn()...)
}

// Info logs at Info level if logger is non-nil and enabled.
func Info(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	log(ctx, logger, slog.LevelInfo, msg, attrs)
}

// Warn logs at Warn level if logger is non-nil and enabled.
func Warn(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	log(ctx, logger, slog.LevelWarn, msg, attrs)
}

// Error logs at Error level if logger is non-nil and enabled. Analyzer
// failures are reported as diagnostics, not logs; this level is for
// host-environment faults (unreadable files, bad configuration).
func Error(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	log(ctx, logger, slog.LevelError, msg, attrs)
}

func log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, attrs []slog.Attr) {
	if logger == nil || !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}
