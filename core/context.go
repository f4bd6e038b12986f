package core

import (
	"context"

	"go.uber.org/zap"
)

// Context keys for formulation options
type contextKey string

const loggerKey contextKey = "logger"

// WithLogger attaches the structured logger used by formulation runs.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// loggerFromContext returns the attached logger or a no-op logger.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
