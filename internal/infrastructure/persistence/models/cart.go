package models

import (
	"github.com/storefront/backend/internal/domain/cart"
)

// CartModel is the persistence model for the Cart aggregate.
// At most one cart exists per shopper.
type CartModel struct {
	BaseModel
	ShopperID string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_carts_shopper"`
	Lines     []CartLineModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartLineModel is one row of a cart. Position keeps insertion order.
type CartLineModel struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	CartID   string `gorm:"type:varchar(64);not null;index"`
	ItemID   string `gorm:"type:varchar(64);not null"`
	Quantity int    `gorm:"not null"`
	Position int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartLineModel) TableName() string {
	return "cart_lines"
}

// ToDomain converts the model and its loaded lines to a domain Cart
func (m *CartModel) ToDomain() *cart.Cart {
	lines := make([]cart.Line, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = cart.Line{ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return &cart.Cart{
		BaseEntity: m.BaseModel.ToDomain(),
		ShopperID:  m.ShopperID,
		Lines:      lines,
	}
}

// FromDomain populates the model and its lines from a domain Cart
func (m *CartModel) FromDomain(c *cart.Cart) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.ShopperID = c.ShopperID
	m.Lines = make([]CartLineModel, len(c.Lines))
	for i, l := range c.Lines {
		m.Lines[i] = CartLineModel{
			ID:       l.ID,
			CartID:   c.ID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Position: i,
		}
	}
}

// CartModelFromDomain creates a model from a domain Cart
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}
