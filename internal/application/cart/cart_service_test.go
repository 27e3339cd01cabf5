package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id string) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []string) ([]*catalog.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]*catalog.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// memoryCarts keeps carts in a map and applies Mutate to a copy, so a
// failing mutation leaves the stored cart untouched like the gorm transaction does.
type memoryCarts struct {
	carts map[string]*cart.Cart
}

func newMemoryCarts() *memoryCarts {
	return &memoryCarts{carts: map[string]*cart.Cart{}}
}

func (r *memoryCarts) FindByShopperID(_ context.Context, shopperID string) (*cart.Cart, error) {
	c, ok := r.carts[shopperID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return clone(c), nil
}

func (r *memoryCarts) Mutate(_ context.Context, shopperID string, create bool, fn cart.MutateFunc) (*cart.Cart, error) {
	stored, ok := r.carts[shopperID]
	if !ok {
		if !create {
			return nil, cart.ErrCartNotFound
		}
		var err error
		if stored, err = cart.NewCart(shopperID); err != nil {
			return nil, err
		}
	}
	working := clone(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	r.carts[shopperID] = working
	return clone(working), nil
}

func clone(c *cart.Cart) *cart.Cart {
	cp := *c
	cp.Lines = append([]cart.Line(nil), c.Lines...)
	return &cp
}

func newService(t *testing.T) (*CartService, *memoryCarts, *MockItemRepository) {
	t.Helper()
	carts := newMemoryCarts()
	items := new(MockItemRepository)
	return NewCartService(carts, items, zap.NewNop()), carts, items
}

func TestCartService_AddItemCreatesCartAndAppends(t *testing.T) {
	svc, _, items := newService(t)
	ctx := context.Background()
	items.On("ExistsByID", ctx, "I1").Return(true, nil)

	res, err := svc.AddItem(ctx, "s1", AddItemRequest{ItemID: "I1", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "I1", res.Lines[0].ItemID)
	assert.Equal(t, 2, res.Lines[0].Quantity)

	// re-adding the same item appends rather than merging
	res, err = svc.AddItem(ctx, "s1", AddItemRequest{ItemID: "I1", Quantity: 3})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, 2, res.Lines[0].Quantity)
	assert.Equal(t, 3, res.Lines[1].Quantity)
}

func TestCartService_AddUnknownItem(t *testing.T) {
	svc, carts, items := newService(t)
	ctx := context.Background()
	items.On("ExistsByID", ctx, "NOPE").Return(false, nil)

	_, err := svc.AddItem(ctx, "s1", AddItemRequest{ItemID: "NOPE", Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
	assert.Empty(t, carts.carts)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	svc, _, items := newService(t)
	ctx := context.Background()
	items.On("ExistsByID", ctx, mock.Anything).Return(true, nil)

	_, err := svc.UpdateQuantity(ctx, "s1", "I1", UpdateQuantityRequest{Quantity: 4})
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	_, err = svc.AddItem(ctx, "s1", AddItemRequest{ItemID: "I1", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", AddItemRequest{ItemID: "I2", Quantity: 1})
	require.NoError(t, err)

	res, err := svc.UpdateQuantity(ctx, "s1", "I1", UpdateQuantityRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Lines[0].Quantity)
	assert.Equal(t, 1, res.Lines[1].Quantity)

	before, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "s1", "I9", UpdateQuantityRequest{Quantity: 7})
	assert.ErrorIs(t, err, cart.ErrItemNotInCart)
	after, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, before.Lines, after.Lines)
}

func TestCartService_RemoveItem(t *testing.T) {
	svc, _, items := newService(t)
	ctx := context.Background()
	items.On("ExistsByID", ctx, mock.Anything).Return(true, nil)

	_, err := svc.RemoveItem(ctx, "s1", "I1")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	for _, id := range []string{"I1", "I2", "I1"} {
		_, err := svc.AddItem(ctx, "s1", AddItemRequest{ItemID: id, Quantity: 1})
		require.NoError(t, err)
	}

	res, err := svc.RemoveItem(ctx, "s1", "I1")
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "I2", res.Lines[0].ItemID)

	_, err = svc.RemoveItem(ctx, "s1", "I1")
	assert.ErrorIs(t, err, cart.ErrItemNotInCart)
}

func TestCartService_GetCart(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.GetCart(context.Background(), "s1")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}
