package models

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CatalogItemModel is the persistence model for the catalog Item entity.
type CatalogItemModel struct {
	BaseModel
	Name       string             `gorm:"type:varchar(200);not null;index"`
	Price      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Image      string             `gorm:"type:varchar(500)"`
	Category   string             `gorm:"type:varchar(100);index"`
	Rating     float64            `gorm:"not null;default:0"`
	InStock    int                `gorm:"not null;default:0"`
	Sold       int                `gorm:"not null;default:0"`
	Visibility catalog.Visibility `gorm:"type:varchar(10);not null;default:'on'"`
	Featured   bool               `gorm:"not null;default:false;index"`
	MerchantID *string            `gorm:"type:varchar(64);index"`
}

// TableName returns the table name for GORM
func (CatalogItemModel) TableName() string {
	return "catalog_items"
}

// ToDomain converts the model to a domain Item
func (m *CatalogItemModel) ToDomain() *catalog.Item {
	item := &catalog.Item{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Price:      m.Price,
		Image:      m.Image,
		Category:   m.Category,
		Rating:     m.Rating,
		InStock:    m.InStock,
		Sold:       m.Sold,
		Visibility: m.Visibility,
		Featured:   m.Featured,
	}
	if m.MerchantID != nil {
		item.MerchantID = *m.MerchantID
	}
	return item
}

// FromDomain populates the model from a domain Item
func (m *CatalogItemModel) FromDomain(i *catalog.Item) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.Name = i.Name
	m.Price = i.Price
	m.Image = i.Image
	m.Category = i.Category
	m.Rating = i.Rating
	m.InStock = i.InStock
	m.Sold = i.Sold
	m.Visibility = i.Visibility
	m.Featured = i.Featured
	m.MerchantID = nil
	if i.MerchantID != "" {
		id := i.MerchantID
		m.MerchantID = &id
	}
}

// CatalogItemModelFromDomain creates a model from a domain Item
func CatalogItemModelFromDomain(i *catalog.Item) *CatalogItemModel {
	m := &CatalogItemModel{}
	m.FromDomain(i)
	return m
}
