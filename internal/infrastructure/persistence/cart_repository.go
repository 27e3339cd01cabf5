package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormCartRepository implements cart.CartRepository using GORM.
// Mutations hold a row lock on the cart for the whole read-modify-write.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByShopperID loads the shopper's cart with its lines in insertion order
func (r *GormCartRepository) FindByShopperID(ctx context.Context, shopperID string) (*cart.Cart, error) {
	var m models.CartModel
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("shopper_id = ?", shopperID).
		First(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, cart.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return m.ToDomain(), nil
}

// Mutate applies fn to the locked cart and rewrites its lines in one transaction
func (r *GormCartRepository) Mutate(ctx context.Context, shopperID string, create bool, fn cart.MutateFunc) (*cart.Cart, error) {
	var result *cart.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := lockCart(tx, shopperID)
		if isNotFound(err) && create {
			if err = insertCart(tx, shopperID); err != nil {
				return err
			}
			m, err = lockCart(tx, shopperID)
		}
		if err != nil {
			if isNotFound(err) {
				return cart.ErrCartNotFound
			}
			return fmt.Errorf("lock cart: %w", err)
		}

		if err := tx.Where("cart_id = ?", m.ID).Order("position ASC").Find(&m.Lines).Error; err != nil {
			return fmt.Errorf("load cart lines: %w", err)
		}

		c := m.ToDomain()
		if err := fn(c); err != nil {
			return err
		}

		saved := models.CartModelFromDomain(c)
		if err := tx.Model(&models.CartModel{}).
			Where("id = ?", c.ID).
			Update("updated_at", time.Now().UTC()).Error; err != nil {
			return fmt.Errorf("touch cart: %w", err)
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&models.CartLineModel{}).Error; err != nil {
			return fmt.Errorf("clear cart lines: %w", err)
		}
		if len(saved.Lines) > 0 {
			if err := tx.Create(&saved.Lines).Error; err != nil {
				return fmt.Errorf("write cart lines: %w", err)
			}
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockCart selects the cart row FOR UPDATE. SQLite ignores the locking
// clause and serialises writers at the database level instead.
func lockCart(tx *gorm.DB, shopperID string) (*models.CartModel, error) {
	var m models.CartModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("shopper_id = ?", shopperID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// insertCart creates an empty cart. A concurrent insert for the same shopper
// wins silently and the caller locks whichever row exists.
func insertCart(tx *gorm.DB, shopperID string) error {
	c, err := cart.NewCart(shopperID)
	if err != nil {
		return err
	}
	m := models.CartModelFromDomain(c)
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shopper_id"}},
		DoNothing: true,
	}).Omit("Lines").Create(m).Error
	if err != nil {
		return fmt.Errorf("create cart: %w", err)
	}
	return nil
}

var _ cart.CartRepository = (*GormCartRepository)(nil)
