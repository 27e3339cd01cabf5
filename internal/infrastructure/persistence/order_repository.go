package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order header and lines and deletes the consumed cart
// lines in one transaction. The cart row is locked first so the delete
// serialises with GormCartRepository.Mutate.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order, consumedLines []string) error {
	m := models.OrderModelFromDomain(o)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Create(m).Error; err != nil {
			if isDuplicateKey(err) {
				return shared.ErrConcurrencyConflict
			}
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.Create(&m.Lines).Error; err != nil {
			return fmt.Errorf("create order lines: %w", err)
		}

		if len(consumedLines) == 0 {
			return nil
		}
		c, err := lockCart(tx, o.ShopperID)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if err := tx.Where("cart_id = ? AND id IN ?", c.ID, consumedLines).
			Delete(&models.CartLineModel{}).Error; err != nil {
			return fmt.Errorf("clear ordered cart lines: %w", err)
		}
		return nil
	})
}

// FindByID loads an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var m models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Lines", orderLinesByPosition).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return m.ToDomain(), nil
}

// FindByShopperID lists a shopper's orders, newest first
func (r *GormOrderRepository) FindByShopperID(ctx context.Context, shopperID string) ([]*order.Order, error) {
	var ms []models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Lines", orderLinesByPosition).
		Where("shopper_id = ?", shopperID).
		Order("placed_at DESC").
		Order("id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]*order.Order, len(ms))
	for i := range ms {
		orders[i] = ms[i].ToDomain()
	}
	return orders, nil
}

// ExistsByID checks if an order id is taken
func (r *GormOrderRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, &models.OrderModel{}, "id = ?", id)
}

// ExistsByTrackingID checks if a tracking id is taken
func (r *GormOrderRepository) ExistsByTrackingID(ctx context.Context, trackingID string) (bool, error) {
	return exists(ctx, r.db, &models.OrderModel{}, "tracking_id = ?", trackingID)
}

func orderLinesByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
