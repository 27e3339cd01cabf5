package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func TestProviders_DisabledAreNoop(t *testing.T) {
	ctx := context.Background()
	cfg := config.TelemetryConfig{Enabled: false, MetricsEnabled: true, LogsEnabled: true}

	tp, err := NewTracerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.ZapCore(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestMeterProvider_NeedsBothSwitches(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), config.TelemetryConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", newSampler(1).Description())
	assert.Equal(t, "AlwaysOnSampler", newSampler(2).Description())
	assert.Equal(t, "AlwaysOffSampler", newSampler(0).Description())
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(&levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel})

	l.Info("dropped")
	l.With(zap.String("order_id", "123456")).Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "123456", entry.ContextMap()["order_id"])
}

func TestStartServiceSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartServiceSpan(context.Background(), "order", "place",
		SpanAttrShopperID, "a1b2c3d4e5f60718",
		SpanAttrLineCount, 2,
		42, "ignored",
	)
	AddEvent(span, "cart_cleared", SpanAttrOrderID, "123456")
	RecordError(span, nil)
	RecordError(span, bytes.ErrTooLarge)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "order.place", ended[0].Name())

	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "a1b2c3d4e5f60718", attrs[SpanAttrShopperID].AsString())
	assert.Equal(t, int64(2), attrs[SpanAttrLineCount].AsInt64())
	assert.Len(t, attrs, 2)

	require.Len(t, ended[0].Events(), 2) // cart_cleared and the recorded error
	assert.Equal(t, "cart_cleared", ended[0].Events()[0].Name)
	assert.Equal(t, bytes.ErrTooLarge.Error(), ended[0].Status().Description)
}

func TestExports(t *testing.T) {
	on := config.TelemetryConfig{Enabled: true, MetricsEnabled: true}
	assert.True(t, exports(on, signalTraces))
	assert.True(t, exports(on, signalMetrics))
	assert.False(t, exports(on, signalLogs))

	on.Enabled = false
	assert.False(t, exports(on, signalTraces))
	assert.False(t, exports(on, signalMetrics))
}

func TestNewResource(t *testing.T) {
	res, err := newResource(config.TelemetryConfig{ServiceName: "storefront"})
	require.NoError(t, err)

	attrs := attrMap(res.Attributes())
	assert.Equal(t, "storefront", attrs["service.name"].AsString())
	assert.Equal(t, "dev", attrs["service.version"].AsString())

	res, err = newResource(config.TelemetryConfig{ServiceName: "storefront", ServiceVersion: "1.4.2"})
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", attrMap(res.Attributes())["service.version"].AsString())
}
