package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey        contextKey = "logger"
	requestIDKey     contextKey = "request_id"
	principalIDKey   contextKey = "principal_id"
	principalKindKey contextKey = "principal_kind"
)

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request id in ctx and returns a logger tagged with it.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	l := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, l), l
}

// WithPrincipal stores the authenticated principal in ctx and returns a
// logger tagged with it.
func WithPrincipal(ctx context.Context, logger *zap.Logger, kind, id string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, principalKindKey, kind)
	ctx = context.WithValue(ctx, principalIDKey, id)
	l := logger.With(zap.String("principal_kind", kind), zap.String("principal_id", id))
	return WithContext(ctx, l), l
}

// GetRequestID returns the request id stored in ctx, if any.
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// GetPrincipal returns the principal kind and id stored in ctx, if any.
func GetPrincipal(ctx context.Context) (kind, id string) {
	kind, _ = ctx.Value(principalKindKey).(string)
	id, _ = ctx.Value(principalIDKey).(string)
	return kind, id
}

// L returns the context logger with trace correlation fields.
//
//	logger.L(ctx).Info("order placed", zap.String("order_id", id))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds trace_id and span_id from the active span in ctx to l.
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}
