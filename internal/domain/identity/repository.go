package identity

import "context"

// ShopperRepository defines the interface for shopper persistence
type ShopperRepository interface {
	// Create inserts a new shopper
	Create(ctx context.Context, shopper *Shopper) error

	// Update saves profile, status and, when changed, the password hash
	Update(ctx context.Context, shopper *Shopper) error

	// FindByID returns ErrUserNotFound when no shopper matches
	FindByID(ctx context.Context, id string) (*Shopper, error)

	// FindByEmail returns ErrUserNotFound when no shopper matches
	FindByEmail(ctx context.Context, email string) (*Shopper, error)

	// ExistsByID checks if a shopper id is taken
	ExistsByID(ctx context.Context, id string) (bool, error)

	// ExistsByEmail checks if an email is registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAllContacts returns the name and email of every shopper
	FindAllContacts(ctx context.Context) ([]Contact, error)
}

// MerchantRepository defines the interface for merchant persistence
type MerchantRepository interface {
	Create(ctx context.Context, merchant *Merchant) error
	Update(ctx context.Context, merchant *Merchant) error
	FindByID(ctx context.Context, id string) (*Merchant, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// Contact is a notification recipient
type Contact struct {
	Name  string
	Email string
}
