package cart

import (
	"time"

	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest adds a line to the caller's cart
type AddItemRequest struct {
	ItemID   string `json:"itemId" binding:"required,max=100"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=1000"`
}

// UpdateQuantityRequest sets the quantity of the first line holding the item
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=1000"`
}

// LineResponse is one cart line
type LineResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// CartResponse is the caller's cart with lines in insertion order
type CartResponse struct {
	ShopperID string         `json:"shopperId"`
	Lines     []LineResponse `json:"lines"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ToCartResponse converts a domain cart
func ToCartResponse(c *cart.Cart) *CartResponse {
	lines := make([]LineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = LineResponse{ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return &CartResponse{
		ShopperID: c.ShopperID,
		Lines:     lines,
		UpdatedAt: c.UpdatedAt,
	}
}
