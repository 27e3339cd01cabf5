package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormCouponRepository implements coupon.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Create inserts a coupon
func (r *GormCouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	if err := r.db.WithContext(ctx).Create(models.CouponModelFromDomain(c)).Error; err != nil {
		if isDuplicateKey(err) {
			return coupon.ErrDuplicateCode
		}
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

// FindByCode finds a coupon by its exact code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var m models.CouponModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, coupon.ErrInvalidCode
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return m.ToDomain(), nil
}

// FindAll lists every coupon ordered by code
func (r *GormCouponRepository) FindAll(ctx context.Context) ([]*coupon.Coupon, error) {
	var ms []models.CouponModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	coupons := make([]*coupon.Coupon, len(ms))
	for i := range ms {
		coupons[i] = ms[i].ToDomain()
	}
	return coupons, nil
}

// DeleteExact removes the coupon only when code and percentage both match
func (r *GormCouponRepository) DeleteExact(ctx context.Context, code string, pct decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Where("code = ? AND discount_percentage = ?", code, pct).
		Delete(&models.CouponModel{})
	if result.Error != nil {
		return fmt.Errorf("delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return coupon.ErrCouponNotFound
	}
	return nil
}

var _ coupon.CouponRepository = (*GormCouponRepository)(nil)
