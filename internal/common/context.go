package common

import "context"

// loggerContextKey is the context key for the per-call logger.
type loggerContextKey struct{}

// WithLogger returns a new context carrying logger. The dispatcher uses it to
// hand a correlation-tagged logger down to the tool being executed.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// LoggerFromContext returns the logger attached by WithLogger, or fallback.
func LoggerFromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*Logger); ok && l != nil {
		return l
	}
	return fallback
}
