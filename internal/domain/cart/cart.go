package cart

import (
	"strings"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Cart error codes
var (
	ErrCartNotFound    = shared.NewDomainError("CART_NOT_FOUND", "Cart not found")
	ErrItemNotInCart   = shared.NewDomainError("ITEM_NOT_IN_CART", "Product not found in the cart")
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
)

// Line is one (item, quantity) entry of a cart
type Line struct {
	ID       string
	ItemID   string
	Quantity int
}

// Cart is a shopper's mutable collection of lines. Lines keep insertion order.
type Cart struct {
	shared.BaseEntity
	ShopperID string
	Lines     []Line
}

// NewCart creates an empty cart for a shopper
func NewCart(shopperID string) (*Cart, error) {
	if strings.TrimSpace(shopperID) == "" {
		return nil, shared.NewDomainError("INVALID_SHOPPER", "Shopper ID cannot be empty")
	}
	return &Cart{
		BaseEntity: shared.NewBaseEntity(uuid.New().String()),
		ShopperID:  shopperID,
		Lines:      make([]Line, 0),
	}, nil
}

// AddLine appends a new line. Re-adding an item already in the cart
// produces a second line; quantities are never merged.
func (c *Cart) AddLine(itemID string, quantity int) (Line, error) {
	if strings.TrimSpace(itemID) == "" {
		return Line{}, shared.NewDomainError("INVALID_ITEM", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}
	line := Line{ID: uuid.New().String(), ItemID: itemID, Quantity: quantity}
	c.Lines = append(c.Lines, line)
	c.Touch()
	return line, nil
}

// UpdateQuantity overwrites the quantity of the first line holding itemID.
// Later lines for the same item keep their quantity.
func (c *Cart) UpdateQuantity(itemID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity = quantity
			c.Touch()
			return nil
		}
	}
	return ErrItemNotInCart
}

// RemoveItem drops every line holding itemID
func (c *Cart) RemoveItem(itemID string) error {
	kept := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.ItemID != itemID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(c.Lines) {
		return ErrItemNotInCart
	}
	c.Lines = kept
	c.Touch()
	return nil
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
