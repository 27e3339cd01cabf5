package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessMetrics counts storefront activity: placed orders, logins and
// notification deliveries. It satisfies the metrics ports of the order,
// identity and notification services.
type BusinessMetrics struct {
	ordersPlaced        *Counter
	orderLines          *Counter
	orderValue          *Histogram
	loginsSucceeded     *Counter
	loginsFailed        *Counter
	notificationsSent   *Counter
	notificationsFailed *Counter
}

// NewBusinessMetrics registers the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error

	if bm.ordersPlaced, err = NewCounter(meter, "storefront_orders_placed_total", "Orders placed", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderLines, err = NewCounter(meter, "storefront_order_lines_total", "Lines across placed orders", "{lines}"); err != nil {
		return nil, err
	}
	if bm.orderValue, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_order_value",
		Description: "Total price of placed orders",
		Unit:        "{currency}",
		Boundaries:  OrderValueBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.loginsSucceeded, err = NewCounter(meter, "storefront_logins_total", "Successful logins", "{logins}"); err != nil {
		return nil, err
	}
	if bm.loginsFailed, err = NewCounter(meter, "storefront_login_failures_total", "Rejected logins", "{logins}"); err != nil {
		return nil, err
	}
	if bm.notificationsSent, err = NewCounter(meter, "storefront_notifications_sent_total", "Emails handed to the mail server", "{emails}"); err != nil {
		return nil, err
	}
	if bm.notificationsFailed, err = NewCounter(meter, "storefront_notifications_failed_total", "Emails that could not be sent", "{emails}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// OrderPlaced records a placed order with its line count and total price.
func (bm *BusinessMetrics) OrderPlaced(ctx context.Context, lines int, total decimal.Decimal) {
	bm.ordersPlaced.Inc(ctx)
	bm.orderLines.Add(ctx, int64(lines))
	bm.orderValue.Record(ctx, total.InexactFloat64())
}

// LoginSucceeded counts a successful login for the principal kind.
func (bm *BusinessMetrics) LoginSucceeded(ctx context.Context, kind string) {
	bm.loginsSucceeded.Inc(ctx, AttrPrincipalKind.String(kind))
}

// LoginFailed counts a rejected login for the principal kind.
func (bm *BusinessMetrics) LoginFailed(ctx context.Context, kind string) {
	bm.loginsFailed.Inc(ctx, AttrPrincipalKind.String(kind))
}

// NotificationSent counts a delivered email of the given kind.
func (bm *BusinessMetrics) NotificationSent(ctx context.Context, kind string) {
	bm.notificationsSent.Inc(ctx, AttrNotificationKind.String(kind))
}

// NotificationFailed counts an email that could not be delivered.
func (bm *BusinessMetrics) NotificationFailed(ctx context.Context, kind string) {
	bm.notificationsFailed.Inc(ctx, AttrNotificationKind.String(kind))
}
