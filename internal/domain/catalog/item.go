package catalog

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Visibility controls whether an item is listed to shoppers
type Visibility string

const (
	VisibilityOn  Visibility = "on"
	VisibilityOff Visibility = "off"
)

// IsValid reports whether v is a known visibility
func (v Visibility) IsValid() bool {
	return v == VisibilityOn || v == VisibilityOff
}

// Catalog error codes
var (
	ErrItemNotFound  = shared.NewDomainError("ITEM_NOT_FOUND", "Product not found")
	ErrDuplicateItem = shared.NewDomainError("DUPLICATE_ITEM", "Product ID already exists")
	ErrNotItemOwner  = shared.NewDomainError("FORBIDDEN", "Product belongs to another seller")
)

// Item is a sellable catalog entry
type Item struct {
	shared.BaseEntity
	Name       string
	Price      decimal.Decimal
	Image      string
	Category   string
	Rating     float64
	InStock    int
	Sold       int
	Visibility Visibility
	Featured   bool
	MerchantID string
}

// NewItem creates a visible, non-featured item
func NewItem(id, name string, price decimal.Decimal, category string) (*Item, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_ID", "Product ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	return &Item{
		BaseEntity: shared.NewBaseEntity(id),
		Name:       name,
		Price:      price.Round(2),
		Category:   strings.TrimSpace(category),
		Visibility: VisibilityOn,
	}, nil
}

// IsVisible reports whether shoppers can see the item
func (i *Item) IsVisible() bool {
	return i.Visibility != VisibilityOff
}

// OwnedBy reports whether merchantID may modify the item
func (i *Item) OwnedBy(merchantID string) bool {
	return i.MerchantID != "" && i.MerchantID == merchantID
}

// ItemPatch holds optional changes to an item
type ItemPatch struct {
	Price      *decimal.Decimal
	InStock    *int
	Visibility *Visibility
	Featured   *bool
	Category   *string
}

// Apply validates and applies the patch
func (i *Item) Apply(p ItemPatch) error {
	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return err
		}
		i.Price = p.Price.Round(2)
	}
	if p.InStock != nil {
		if *p.InStock < 0 {
			return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
		}
		i.InStock = *p.InStock
	}
	if p.Visibility != nil {
		if !p.Visibility.IsValid() {
			return shared.NewDomainError("INVALID_VISIBILITY", "Visibility must be on or off")
		}
		i.Visibility = *p.Visibility
	}
	if p.Featured != nil {
		i.Featured = *p.Featured
	}
	if p.Category != nil {
		i.Category = strings.TrimSpace(*p.Category)
	}
	i.Touch()
	return nil
}

// SetImage records the image location (object key or absolute URL)
func (i *Item) SetImage(image string) {
	i.Image = image
	i.Touch()
}

// HasStoredImage reports whether Image is an object key rather than a URL
func (i *Item) HasStoredImage() bool {
	if i.Image == "" {
		return false
	}
	u, err := url.Parse(i.Image)
	return err != nil || u.Scheme == ""
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}
