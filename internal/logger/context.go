package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

// IntoContext returns a child context carrying the logger. The HTTP layer
// stores a per-request logger here so usecases can log with request fields.
func IntoContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx. Callers always get a usable
// logger; a no-op instance stands in when none was stored.
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(contextKey{}).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return l
}
