package cart

import "context"

// MutateFunc changes a cart loaded under lock. Returning an error discards the change.
type MutateFunc func(c *Cart) error

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByShopperID returns ErrCartNotFound when the shopper has no cart
	FindByShopperID(ctx context.Context, shopperID string) (*Cart, error)

	// Mutate loads the shopper's cart with a row lock, applies fn and saves
	// the result in one transaction. When create is true a missing cart is
	// created; otherwise ErrCartNotFound is returned.
	Mutate(ctx context.Context, shopperID string, create bool, fn MutateFunc) (*Cart, error)
}
