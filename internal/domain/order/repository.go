package order

import "context"

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create persists the order and its lines in one transaction. The cart
	// lines named by consumedLines are deleted in the same transaction;
	// lines added to the cart after it was read are left in place.
	Create(ctx context.Context, o *Order, consumedLines []string) error

	// FindByID returns ErrOrderNotFound when no order matches
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByShopperID returns the shopper's orders, newest first
	FindByShopperID(ctx context.Context, shopperID string) ([]*Order, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByTrackingID(ctx context.Context, trackingID string) (bool, error)
}
