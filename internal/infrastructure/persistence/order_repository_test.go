package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

func newOrder(t *testing.T, id, trackingID, shopperID string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, trackingID,
		order.Snapshot{ShopperID: shopperID, Name: "Asha", Email: "a@x.com"},
		"1 Main St",
		[]order.Line{
			{ItemID: "I1", Name: "Teddy Bear", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
			{ItemID: "I2", Name: "Mug", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 1},
		})
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	ctx := context.Background()

	o := newOrder(t, "123456", "ABCDEF123456", "s1")
	require.NoError(t, repo.Create(ctx, o, nil))

	loaded, err := repo.FindByID(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF123456", loaded.TrackingID)
	assert.Equal(t, order.StatusProcessing, loaded.Status)
	assert.True(t, decimal.RequireFromString("44.98").Equal(loaded.TotalPrice))
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, "I1", loaded.Lines[0].ItemID)
	assert.Equal(t, 2, loaded.Lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("19.99").Equal(loaded.Lines[0].UnitPrice))

	_, err = repo.FindByID(ctx, "000000")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestGormOrderRepository_DuplicateID(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder(t, "123456", "AAAAAAAAAAAA", "s1"), nil))

	err := repo.Create(ctx, newOrder(t, "123456", "BBBBBBBBBBBB", "s1"), nil)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func cartLineIDs(t *testing.T, carts *GormCartRepository, shopperID string) []string {
	t.Helper()
	c, err := carts.FindByShopperID(context.Background(), shopperID)
	require.NoError(t, err)
	ids := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.ID
	}
	return ids
}

func TestGormOrderRepository_CreateClearsCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewGormCartRepository(db)
	orders := NewGormOrderRepository(db)
	ctx := context.Background()

	_, err := carts.Mutate(ctx, "s1", true, addLine("I1", 2))
	require.NoError(t, err)
	_, err = carts.Mutate(ctx, "s2", true, addLine("I1", 1))
	require.NoError(t, err)

	consumed := cartLineIDs(t, carts, "s1")
	require.NoError(t, orders.Create(ctx, newOrder(t, "123456", "AAAAAAAAAAAA", "s1"), consumed))

	c1, err := carts.FindByShopperID(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c1.Lines)

	c2, err := carts.FindByShopperID(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, c2.Lines, 1)
}

func TestGormOrderRepository_CreateKeepsLinesAddedAfterCartRead(t *testing.T) {
	db := newTestDB(t)
	carts := NewGormCartRepository(db)
	orders := NewGormOrderRepository(db)
	ctx := context.Background()

	_, err := carts.Mutate(ctx, "s1", true, addLine("I1", 2))
	require.NoError(t, err)
	consumed := cartLineIDs(t, carts, "s1")

	// the shopper adds another item while checkout is pricing the first one
	_, err = carts.Mutate(ctx, "s1", false, addLine("I2", 1))
	require.NoError(t, err)

	require.NoError(t, orders.Create(ctx, newOrder(t, "123456", "AAAAAAAAAAAA", "s1"), consumed))

	c, err := carts.FindByShopperID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "I2", c.Lines[0].ItemID)
}

func TestGormOrderRepository_CreateWithoutCart(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	err := repo.Create(context.Background(), newOrder(t, "123456", "AAAAAAAAAAAA", "nocart"), []string{"L1"})
	assert.NoError(t, err)
}

func TestGormOrderRepository_FindByShopperNewestFirst(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	ctx := context.Background()

	older := newOrder(t, "111111", "AAAAAAAAAAAA", "s1")
	older.PlacedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older, nil))
	require.NoError(t, repo.Create(ctx, newOrder(t, "222222", "BBBBBBBBBBBB", "s1"), nil))
	require.NoError(t, repo.Create(ctx, newOrder(t, "333333", "CCCCCCCCCCCC", "s2"), nil))

	orders, err := repo.FindByShopperID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "222222", orders[0].ID)
	assert.Equal(t, "111111", orders[1].ID)
	assert.Len(t, orders[1].Lines, 2)
}

func TestGormOrderRepository_Exists(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder(t, "123456", "ABCDEF123456", "s1"), nil))

	ok, err := repo.ExistsByID(ctx, "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByTrackingID(ctx, "ABCDEF123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByTrackingID(ctx, "ZZZZZZZZZZZZ")
	require.NoError(t, err)
	assert.False(t, ok)
}
