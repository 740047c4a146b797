package utils

import "context"

type requestIDKey struct{}

// WithRequestID attaches the request id assigned by the tracing
// middleware so audit events below the HTTP layer can reference it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the attached request id, or an empty
// string if none was set.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
