package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	Enabled       bool
}

var (
	requestSizeBuckets  = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000, 5000000}
	responseSizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}
)

type httpMetrics struct {
	requests     *telemetry.Counter
	rejections   *telemetry.Counter
	duration     *telemetry.Histogram
	requestSize  *telemetry.Histogram
	responseSize *telemetry.Histogram
	active       metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	var (
		m    httpMetrics
		errs []error
		err  error
	)
	counter := func(name, desc string) *telemetry.Counter {
		c, cerr := telemetry.NewCounter(meter, name, desc, "{request}")
		errs = append(errs, cerr)
		return c
	}
	histogram := func(opts telemetry.HistogramOpts) *telemetry.Histogram {
		h, herr := telemetry.NewHistogram(meter, opts)
		errs = append(errs, herr)
		return h
	}

	m.requests = counter("http_server_request_total", "HTTP requests served")
	m.rejections = counter("http_server_auth_rejections_total", "Requests refused with 401 or 403")
	m.duration = histogram(telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	m.requestSize = histogram(telemetry.HistogramOpts{
		Name:        "http_server_request_size_bytes",
		Description: "Request body size",
		Unit:        "By",
		Boundaries:  requestSizeBuckets,
	})
	m.responseSize = histogram(telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "Response body size",
		Unit:        "By",
		Boundaries:  responseSizeBuckets,
	})
	m.active, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Requests in flight"),
		metric.WithUnit("{request}"),
	)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// HTTPMetrics records per-request counters and histograms. Requests are
// labelled with the matched route template, never the raw path, so item
// and order ids do not explode the series count. Shopper and merchant
// traffic is split by the principal kind set by SessionAuth.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passthrough
	}
	return HTTPMetricsWithMeter(cfg.MeterProvider.Meter("http.server"), true)
}

// HTTPMetricsWithMeter returns HTTP metrics middleware using an existing meter.
func HTTPMetricsWithMeter(meter metric.Meter, enabled bool) gin.HandlerFunc {
	if !enabled {
		return passthrough
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return passthrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		m.active.Add(ctx, 1)
		defer m.active.Add(ctx, -1)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		base := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}

		labelled := append([]attribute.KeyValue{telemetry.AttrHTTPStatusCode.Int(status)}, base...)
		if kind := c.GetString(PrincipalKindKey); kind != "" {
			labelled = append(labelled, telemetry.AttrPrincipalKind.String(kind))
		}
		m.requests.Inc(ctx, labelled...)
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			m.rejections.Inc(ctx, labelled...)
		}
		m.duration.RecordDuration(ctx, time.Since(start), base...)

		if n := c.Request.ContentLength; n > 0 {
			m.requestSize.Record(ctx, float64(n), base...)
		}
		if n := c.Writer.Size(); n > 0 {
			m.responseSize.Record(ctx, float64(n), base...)
		}
	}
}

func passthrough(c *gin.Context) {
	c.Next()
}
