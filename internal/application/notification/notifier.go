package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/complaint"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// Notifier sends the transactional confirmations. Delivery is best effort:
// a failure is logged and reported in the Result, never returned as an error.
type Notifier struct {
	mailer   Mailer
	renderer *Renderer
	metrics  Metrics
	logger   *zap.Logger
}

// NewNotifier creates a notifier
func NewNotifier(mailer Mailer, renderer *Renderer, l *zap.Logger) *Notifier {
	return &Notifier{
		mailer:   mailer,
		renderer: renderer,
		metrics:  nopMetrics{},
		logger:   l,
	}
}

// WithMetrics sets the outcome recorder
func (n *Notifier) WithMetrics(m Metrics) *Notifier {
	if m != nil {
		n.metrics = m
	}
	return n
}

// OrderPlaced emails the order confirmation to the shopper
func (n *Notifier) OrderPlaced(ctx context.Context, o *order.Order) Result {
	msg, err := n.renderer.OrderConfirmation(o)
	return n.deliver(ctx, KindOrderConfirmation, msg, err, zap.String("order_id", o.ID))
}

// ComplaintReceived emails the complaint receipt to the submitter
func (n *Notifier) ComplaintReceived(ctx context.Context, c *complaint.Complaint) Result {
	msg, err := n.renderer.ComplaintConfirmation(c)
	return n.deliver(ctx, KindComplaintConfirmation, msg, err, zap.String("complaint_number", c.Number()))
}

func (n *Notifier) deliver(ctx context.Context, kind string, msg Message, renderErr error, ref zap.Field) Result {
	log := logger.Enrich(ctx, n.logger).With(zap.String("notification", kind), ref)

	err := renderErr
	if err == nil {
		err = n.mailer.Send(ctx, msg)
	}
	if err != nil {
		log.Error("notification failed", zap.Error(err))
		n.metrics.NotificationFailed(ctx, kind)
		return Result{Status: StatusFailed}
	}

	log.Debug("notification sent")
	n.metrics.NotificationSent(ctx, kind)
	return Result{Status: StatusSent}
}
