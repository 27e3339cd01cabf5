package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// BaseModel holds the key and timestamps shared by every table.
// Keys are business identifiers stored as strings.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to a domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from a domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// All returns every model, in dependency order, for AutoMigrate in tests.
func All() []any {
	return []any{
		&ShopperModel{},
		&MerchantModel{},
		&CatalogItemModel{},
		&CartModel{},
		&CartLineModel{},
		&OrderModel{},
		&OrderLineModel{},
		&CouponModel{},
		&ComplaintModel{},
	}
}
