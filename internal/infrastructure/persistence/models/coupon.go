package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/shared"
)

// CouponModel is the persistence model for the Coupon aggregate.
type CouponModel struct {
	Code               string          `gorm:"type:varchar(50);primaryKey"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the model to a domain Coupon
func (m *CouponModel) ToDomain() *coupon.Coupon {
	return &coupon.Coupon{
		Aggregate: shared.Aggregate{BaseEntity: shared.BaseEntity{
			ID:        m.Code,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}},
		DiscountPercentage: m.DiscountPercentage,
	}
}

// CouponModelFromDomain creates a model from a domain Coupon
func CouponModelFromDomain(c *coupon.Coupon) *CouponModel {
	return &CouponModel{
		Code:               c.Code(),
		DiscountPercentage: c.DiscountPercentage,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
