package coupon

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/coupon"
)

// CreateCouponRequest issues a coupon
type CreateCouponRequest struct {
	Code               string           `json:"code" binding:"required,min=1,max=50"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage" binding:"required"`
}

// VerifyCouponRequest looks up a coupon by code
type VerifyCouponRequest struct {
	Code string `json:"code" binding:"required,max=50"`
}

// CouponResponse is a coupon and its discount
type CouponResponse struct {
	Code               string          `json:"code"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// ToCouponResponse converts a domain coupon
func ToCouponResponse(c *coupon.Coupon) *CouponResponse {
	return &CouponResponse{Code: c.Code(), DiscountPercentage: c.DiscountPercentage}
}
