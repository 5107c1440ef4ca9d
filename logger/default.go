package logger

import (
	"context"
)

type contextKey struct{}

// disabled is returned by FromContext for contexts without a session. It
// never records, so sharing it is safe.
var disabled = NewBuilder().WithEnabled(false).Build()

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, or a disabled session
func FromContext(ctx context.Context) *Session {
	if ctx != nil {
		if s, ok := ctx.Value(contextKey{}).(*Session); ok && s != nil {
			return s
		}
	}
	return disabled
}

// Disabled returns a session that records nothing
func Disabled() *Session {
	return disabled
}

// Package-level convenience functions using the default logger of the
// session in ctx

// Log logs args on the default logger, see Logger.Log
func Log(ctx context.Context, args ...any) {
	FromContext(ctx).Default().Log(args...)
}

// Warn logs a warning on the default logger
func Warn(ctx context.Context, template string, args ...any) {
	FromContext(ctx).Default().Warning(template, args...)
}

// Error logs an error on the default logger
func Error(ctx context.Context, template string, args ...any) {
	FromContext(ctx).Default().Error(template, args...)
}

// Info logs an info message on the default logger
func Info(ctx context.Context, template string, args ...any) {
	FromContext(ctx).Default().Info(template, args...)
}

// Critical logs a critical message on the default logger
func Critical(ctx context.Context, template string, args ...any) {
	FromContext(ctx).Default().Critical(template, args...)
}
