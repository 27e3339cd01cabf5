// Package telemetry wires OpenTelemetry traces, metrics and logs into the storefront.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
)

const shutdownTimeout = 10 * time.Second

// signal names one OTLP export pipeline in logs and errors
type signal string

const (
	signalTraces  signal = "traces"
	signalMetrics signal = "metrics"
	signalLogs    signal = "logs"
)

// exports reports whether sig is switched on. Traces follow the master
// switch alone; metrics and logs each have their own switch as well.
func exports(cfg config.TelemetryConfig, sig signal) bool {
	if !cfg.Enabled {
		return false
	}
	switch sig {
	case signalMetrics:
		return cfg.MetricsEnabled
	case signalLogs:
		return cfg.LogsEnabled
	default:
		return true
	}
}

// newResource describes this process to the collector. OTEL_RESOURCE_ATTRIBUTES
// is honoured, then the service name and version from cfg take precedence.
func newResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.New(context.Background(),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build telemetry resource: %w", err)
	}
	return res, nil
}

// shutdown flushes one pipeline within shutdownTimeout
func shutdown(ctx context.Context, sig signal, log *zap.Logger, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		log.Error("Telemetry pipeline did not flush", zap.String("signal", string(sig)), zap.Error(err))
		return fmt.Errorf("shutdown %s pipeline: %w", sig, err)
	}
	log.Debug("Telemetry pipeline flushed", zap.String("signal", string(sig)))
	return nil
}
