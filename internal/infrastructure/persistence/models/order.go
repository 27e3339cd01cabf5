package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	BaseModel
	TrackingID   string           `gorm:"type:varchar(32);not null;uniqueIndex:idx_orders_tracking"`
	ShopperID    string           `gorm:"type:varchar(64);not null;index"`
	ShopperName  string           `gorm:"type:varchar(200);not null"`
	ShopperEmail string           `gorm:"type:varchar(200);not null"`
	Address      string           `gorm:"type:text;not null"`
	TotalPrice   decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Status       order.Status     `gorm:"type:varchar(30);not null;default:'Processing'"`
	PlacedAt     time.Time        `gorm:"not null;index"`
	Lines        []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the snapshot of one ordered item.
type OrderLineModel struct {
	ID        string          `gorm:"type:varchar(64);primaryKey"`
	OrderID   string          `gorm:"type:varchar(64);not null;index"`
	ItemID    string          `gorm:"type:varchar(64);not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
	Position  int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the model and its loaded lines to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	lines := make([]order.Line, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = order.Line{
			ID:        l.ID,
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}
	return &order.Order{
		Aggregate:    shared.Aggregate{BaseEntity: m.BaseModel.ToDomain()},
		TrackingID:   m.TrackingID,
		ShopperID:    m.ShopperID,
		ShopperName:  m.ShopperName,
		ShopperEmail: m.ShopperEmail,
		Address:      m.Address,
		Lines:        lines,
		TotalPrice:   m.TotalPrice,
		Status:       m.Status,
		PlacedAt:     m.PlacedAt,
	}
}

// FromDomain populates the model and its lines from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.TrackingID = o.TrackingID
	m.ShopperID = o.ShopperID
	m.ShopperName = o.ShopperName
	m.ShopperEmail = o.ShopperEmail
	m.Address = o.Address
	m.TotalPrice = o.TotalPrice
	m.Status = o.Status
	m.PlacedAt = o.PlacedAt
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, l := range o.Lines {
		m.Lines[i] = OrderLineModel{
			ID:        l.ID,
			OrderID:   o.ID,
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Position:  i,
		}
	}
}

// OrderModelFromDomain creates a model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
