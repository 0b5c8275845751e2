package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext returns the logger stored in ctx, or the process default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, nil)
}

// FromContextOr returns the logger stored in ctx, or fallback when there is
// none. Components built with their own logger use it outside a request.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	if fallback != nil {
		return fallback
	}

	return defaultLogger
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// With returns ctx carrying its logger extended by args, given as for
// slog.Logger.With.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// SetDefault replaces both the fallback used by FromContext and slog's default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
