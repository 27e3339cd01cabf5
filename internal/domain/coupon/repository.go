package coupon

import (
	"context"

	"github.com/shopspring/decimal"
)

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	// Create returns ErrDuplicateCode when the code exists
	Create(ctx context.Context, c *Coupon) error

	// FindByCode returns ErrInvalidCode when no coupon matches
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	FindAll(ctx context.Context) ([]*Coupon, error)

	// DeleteExact deletes the coupon only when both code and percentage
	// match, returning ErrCouponNotFound otherwise
	DeleteExact(ctx context.Context, code string, pct decimal.Decimal) error
}
