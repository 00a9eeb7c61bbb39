package logger

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID stores the request id for downstream log entries
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromContext returns log with the request id of ctx attached, if any
func FromContext(ctx context.Context, log core.Logger) core.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return log.With(map[string]any{"request_id": id})
	}
	return log
}
