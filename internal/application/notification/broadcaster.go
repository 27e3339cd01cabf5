package notification

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// ContactLister lists broadcast recipients
type ContactLister interface {
	FindAllContacts(ctx context.Context) ([]identity.Contact, error)
}

// CouponBroadcaster emails every shopper when a coupon is issued or revoked.
// It runs as an event handler on the bus, after the triggering request has returned.
type CouponBroadcaster struct {
	contacts ContactLister
	mailer   Mailer
	renderer *Renderer
	metrics  Metrics
	logger   *zap.Logger
}

// BroadcastReport summarises one broadcast
type BroadcastReport struct {
	Recipients int
	Failed     int
}

// NewCouponBroadcaster creates the broadcaster
func NewCouponBroadcaster(contacts ContactLister, mailer Mailer, renderer *Renderer, l *zap.Logger) *CouponBroadcaster {
	return &CouponBroadcaster{
		contacts: contacts,
		mailer:   mailer,
		renderer: renderer,
		metrics:  nopMetrics{},
		logger:   l,
	}
}

// WithMetrics sets the outcome recorder
func (b *CouponBroadcaster) WithMetrics(m Metrics) *CouponBroadcaster {
	if m != nil {
		b.metrics = m
	}
	return b
}

// EventTypes returns the coupon events this handler consumes
func (b *CouponBroadcaster) EventTypes() []string {
	return []string{coupon.EventTypeCouponIssued, coupon.EventTypeCouponRevoked}
}

// Handle broadcasts the coupon event. Only a failure to list recipients is
// returned; per-recipient failures are logged and counted.
func (b *CouponBroadcaster) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *coupon.CouponIssuedEvent:
		_, err := b.Broadcast(ctx, KindCouponIssued, e.Code, e.DiscountPercentage)
		return err
	case *coupon.CouponRevokedEvent:
		_, err := b.Broadcast(ctx, KindCouponRevoked, e.Code, e.DiscountPercentage)
		return err
	default:
		return nil
	}
}

// Broadcast sends one coupon message to every shopper
func (b *CouponBroadcaster) Broadcast(ctx context.Context, kind, code string, pct decimal.Decimal) (BroadcastReport, error) {
	log := logger.Enrich(ctx, b.logger).With(zap.String("notification", kind), zap.String("coupon_code", code))

	recipients, err := b.contacts.FindAllContacts(ctx)
	if err != nil {
		return BroadcastReport{}, fmt.Errorf("list broadcast recipients: %w", err)
	}

	report := BroadcastReport{Recipients: len(recipients)}
	for _, to := range recipients {
		var msg Message
		if kind == KindCouponRevoked {
			msg, err = b.renderer.CouponRevoked(to, code, pct)
		} else {
			msg, err = b.renderer.CouponIssued(to, code, pct)
		}
		if err == nil {
			err = b.mailer.Send(ctx, msg)
		}
		if err != nil {
			report.Failed++
			b.metrics.NotificationFailed(ctx, kind)
			log.Warn("coupon broadcast to recipient failed", zap.String("recipient", to.Email), zap.Error(err))
			continue
		}
		b.metrics.NotificationSent(ctx, kind)
	}

	log.Info("coupon broadcast finished",
		zap.Int("recipients", report.Recipients),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

var _ shared.EventHandler = (*CouponBroadcaster)(nil)
