package catalog

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// ListItemsQuery filters the public catalog listing
type ListItemsQuery struct {
	Category string `form:"category" binding:"max=100"`
	Featured *bool  `form:"featured"`
}

// CreateItemRequest represents a request to list a new item
type CreateItemRequest struct {
	ID       string           `json:"id" binding:"omitempty,max=64"`
	Name     string           `json:"name" binding:"required,min=1,max=200"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
	Image    string           `json:"image" binding:"omitempty,url,max=500"`
	Category string           `json:"category" binding:"max=100"`
	InStock  *int             `json:"inStock" binding:"omitempty,min=0"`
	Featured bool             `json:"featured"`
}

// UpdateItemRequest holds the fields a merchant may change. Absent fields are kept.
type UpdateItemRequest struct {
	Price      *decimal.Decimal `json:"price"`
	InStock    *int             `json:"inStock" binding:"omitempty,min=0"`
	Visibility *string          `json:"visibility" binding:"omitempty,oneof=on off"`
	Featured   *bool            `json:"featured"`
	Category   *string          `json:"category" binding:"omitempty,max=100"`
}

func (r UpdateItemRequest) patch() catalog.ItemPatch {
	p := catalog.ItemPatch{
		Price:    r.Price,
		InStock:  r.InStock,
		Featured: r.Featured,
		Category: r.Category,
	}
	if r.Visibility != nil {
		v := catalog.Visibility(*r.Visibility)
		p.Visibility = &v
	}
	return p
}

// ImageUpload is an image file received from a merchant
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ItemResponse represents a catalog item in API responses
type ItemResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
	Category   string          `json:"category"`
	Rating     float64         `json:"rating"`
	InStock    int             `json:"inStock"`
	Sold       int             `json:"sold"`
	Visibility string          `json:"visibility"`
	Featured   bool            `json:"featured"`
	MerchantID string          `json:"merchantId,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ToItemResponse converts an item; image is the already resolved image URL
func ToItemResponse(i *catalog.Item, image string) ItemResponse {
	return ItemResponse{
		ID:         i.ID,
		Name:       i.Name,
		Price:      i.Price,
		Image:      image,
		Category:   i.Category,
		Rating:     i.Rating,
		InStock:    i.InStock,
		Sold:       i.Sold,
		Visibility: string(i.Visibility),
		Featured:   i.Featured,
		MerchantID: i.MerchantID,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}
