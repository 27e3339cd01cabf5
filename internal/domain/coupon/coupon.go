package coupon

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Coupon error codes
var (
	ErrDuplicateCode  = shared.NewDomainError("DUPLICATE_CODE", "Coupon code already exists")
	ErrInvalidCode    = shared.NewDomainError("INVALID_CODE", "Invalid coupon code")
	ErrCouponNotFound = shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
)

// Event types raised by coupons
const (
	EventTypeCouponIssued  = "coupon.issued"
	EventTypeCouponRevoked = "coupon.revoked"
)

var hundred = decimal.NewFromInt(100)

// Coupon maps a code to a discount percentage. The code is the identity.
type Coupon struct {
	shared.Aggregate
	DiscountPercentage decimal.Decimal
}

// Code returns the coupon code
func (c *Coupon) Code() string {
	return c.ID
}

// NewCoupon creates a coupon and raises CouponIssuedEvent
func NewCoupon(code string, pct decimal.Decimal) (*Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE_FORMAT", "Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE_FORMAT", "Coupon code cannot exceed 50 characters")
	}
	if err := ValidatePercentage(pct); err != nil {
		return nil, err
	}
	c := &Coupon{
		Aggregate:          shared.NewAggregate(code),
		DiscountPercentage: pct,
	}
	c.Record(NewCouponIssuedEvent(c))
	return c, nil
}

// ValidatePercentage checks 0 < pct <= 100 with at most two decimal places.
// The column is decimal(5,2), so a finer value would be rounded on insert
// and could no longer be matched by DeleteExact.
func ValidatePercentage(pct decimal.Decimal) error {
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be greater than 0 and at most 100")
	}
	if !pct.Equal(pct.Round(2)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage cannot have more than 2 decimal places")
	}
	return nil
}

// Revoke raises CouponRevokedEvent
func (c *Coupon) Revoke() {
	c.Record(NewCouponRevokedEvent(c))
}

// CouponIssuedEvent is raised when a coupon is created
type CouponIssuedEvent struct {
	shared.BaseDomainEvent
	Code               string          `json:"code"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// NewCouponIssuedEvent creates a CouponIssuedEvent
func NewCouponIssuedEvent(c *Coupon) *CouponIssuedEvent {
	return &CouponIssuedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeCouponIssued, "Coupon", c.ID),
		Code:               c.ID,
		DiscountPercentage: c.DiscountPercentage,
	}
}

// CouponRevokedEvent is raised when a coupon is deleted
type CouponRevokedEvent struct {
	shared.BaseDomainEvent
	Code               string          `json:"code"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// NewCouponRevokedEvent creates a CouponRevokedEvent
func NewCouponRevokedEvent(c *Coupon) *CouponRevokedEvent {
	return &CouponRevokedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeCouponRevoked, "Coupon", c.ID),
		Code:               c.ID,
		DiscountPercentage: c.DiscountPercentage,
	}
}
