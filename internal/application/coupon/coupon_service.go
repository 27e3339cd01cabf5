package coupon

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// CouponService manages discount codes. Issuing and revoking publish events
// that the broadcaster turns into shopper emails off the request path.
type CouponService struct {
	coupons coupon.CouponRepository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(coupons coupon.CouponRepository, events shared.EventPublisher, l *zap.Logger) *CouponService {
	return &CouponService{coupons: coupons, events: events, logger: l}
}

// List returns every coupon
func (s *CouponService) List(ctx context.Context) ([]*CouponResponse, error) {
	coupons, err := s.coupons.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*CouponResponse, len(coupons))
	for i, c := range coupons {
		out[i] = ToCouponResponse(c)
	}
	return out, nil
}

// Create issues a coupon
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	if req.DiscountPercentage == nil {
		return nil, coupon.ValidatePercentage(decimal.Zero)
	}
	c, err := coupon.NewCoupon(req.Code, *req.DiscountPercentage)
	if err != nil {
		return nil, err
	}
	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("coupon issued",
		zap.String("code", c.Code()),
		zap.String("discount", c.DiscountPercentage.String()),
	)
	s.publish(ctx, c)
	return ToCouponResponse(c), nil
}

// Verify returns the coupon's discount or coupon.ErrInvalidCode
func (s *CouponService) Verify(ctx context.Context, req VerifyCouponRequest) (*CouponResponse, error) {
	c, err := s.coupons.FindByCode(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		return nil, err
	}
	return ToCouponResponse(c), nil
}

// Delete removes the coupon only when both code and percentage match
func (s *CouponService) Delete(ctx context.Context, code string, pct decimal.Decimal) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "coupon", "delete", telemetry.SpanAttrCoupon, code)
	defer span.End()

	if err := s.coupons.DeleteExact(ctx, code, pct); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	c := &coupon.Coupon{
		Aggregate:          shared.NewAggregate(code),
		DiscountPercentage: pct,
	}
	c.Revoke()
	logger.Enrich(ctx, s.logger).Info("coupon revoked",
		zap.String("code", code),
		zap.String("discount", pct.String()),
	)
	s.publish(ctx, c)
	return nil
}

func (s *CouponService) publish(ctx context.Context, c *coupon.Coupon) {
	events := c.PullEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Error("failed to publish coupon events",
			zap.String("code", c.Code()),
			zap.Error(err),
		)
	}
}
