package catalog

import "context"

// ItemFilter narrows catalog listings
type ItemFilter struct {
	Category    string
	Featured    *bool
	VisibleOnly bool
}

// ItemRepository defines the interface for catalog persistence
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error

	// FindByID returns ErrItemNotFound when no item matches
	FindByID(ctx context.Context, id string) (*Item, error)

	// FindByIDs returns the items found, in no particular order
	FindByIDs(ctx context.Context, ids []string) ([]*Item, error)

	// FindAll returns items matching the filter ordered by name
	FindAll(ctx context.Context, filter ItemFilter) ([]*Item, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
}
