package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order, consumedLines []string) error {
	return m.Called(ctx, o, consumedLines).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByShopperID(ctx context.Context, shopperID string) ([]*order.Order, error) {
	args := m.Called(ctx, shopperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ExistsByTrackingID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockShopperRepository struct {
	mock.Mock
	identity.ShopperRepository
}

func (m *MockShopperRepository) FindByID(ctx context.Context, id string) (*identity.Shopper, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Shopper), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
	catalog.ItemRepository
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []string) ([]*catalog.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Item), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
	cart.CartRepository
}

func (m *MockCartRepository) FindByShopperID(ctx context.Context, shopperID string) (*cart.Cart, error) {
	args := m.Called(ctx, shopperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) OrderPlaced(ctx context.Context, o *order.Order) notification.Result {
	return m.Called(ctx, o).Get(0).(notification.Result)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type fixture struct {
	svc       *OrderService
	orders    *MockOrderRepository
	shoppers  *MockShopperRepository
	items     *MockItemRepository
	carts     *MockCartRepository
	confirmer *MockConfirmer
	events    *MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:    new(MockOrderRepository),
		shoppers:  new(MockShopperRepository),
		items:     new(MockItemRepository),
		carts:     new(MockCartRepository),
		confirmer: new(MockConfirmer),
		events:    new(MockPublisher),
	}
	f.svc = NewOrderService(f.orders, f.shoppers, f.items, f.carts, f.confirmer, f.events, zap.NewNop())
	return f
}

func testShopper(t *testing.T) *identity.Shopper {
	t.Helper()
	s, err := identity.NewShopper("a1b2c3d4e5f60718", "Ada", "a@x.com", "pw", "")
	require.NoError(t, err)
	return s
}

func testItem(t *testing.T, id, price string) *catalog.Item {
	t.Helper()
	it, err := catalog.NewItem(id, "Item "+id, decimal.RequireFromString(price), "toys")
	require.NoError(t, err)
	return it
}

func (f *fixture) expectIDs(ctx context.Context) {
	f.orders.On("ExistsByID", ctx, mock.AnythingOfType("string")).Return(false, nil)
	f.orders.On("ExistsByTrackingID", ctx, mock.AnythingOfType("string")).Return(false, nil)
}

func TestPlaceOrder_FromRequestItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shopper := testShopper(t)

	f.shoppers.On("FindByID", ctx, shopper.ID).Return(shopper, nil)
	f.items.On("FindByIDs", ctx, []string{"I1", "I2"}).
		Return([]*catalog.Item{testItem(t, "I2", "5.50"), testItem(t, "I1", "19.99")}, nil)
	f.expectIDs(ctx)
	f.orders.On("Create", ctx, mock.AnythingOfType("*order.Order"), []string(nil)).Return(nil)
	f.events.On("Publish", ctx, mock.Anything).Return(nil)
	f.confirmer.On("OrderPlaced", ctx, mock.AnythingOfType("*order.Order")).
		Return(notification.Result{Status: notification.StatusSent})

	res, err := f.svc.PlaceOrder(ctx, shopper.ID, PlaceOrderRequest{
		Address: "1 Main St",
		Items: []OrderItemRequest{
			{ItemID: "I1", Quantity: 2},
			{ItemID: "I2", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^\d{6}$`, res.OrderID)
	assert.Regexp(t, `^[0-9A-Z]{12}$`, res.TrackingID)
	assert.Equal(t, "Ada", res.Name)
	assert.Equal(t, "1 Main St", res.Address)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, "I1", res.Lines[0].ItemID)
	assert.Equal(t, 2, res.Lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("19.99").Equal(res.Lines[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("45.48").Equal(res.TotalPrice))
	assert.Equal(t, notification.StatusSent, res.Notification.Status)

	published := f.events.Calls[0].Arguments.Get(1).([]shared.DomainEvent)
	require.Len(t, published, 1)
	assert.Equal(t, order.EventTypeOrderPlaced, published[0].EventType())
	f.carts.AssertNotCalled(t, "FindByShopperID", mock.Anything, mock.Anything)
}

func TestPlaceOrder_FromCartClearsIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shopper := testShopper(t)
	c, err := cart.NewCart(shopper.ID)
	require.NoError(t, err)
	first, _ := c.AddLine("I1", 2)
	second, _ := c.AddLine("I1", 1)

	f.shoppers.On("FindByID", ctx, shopper.ID).Return(shopper, nil)
	f.carts.On("FindByShopperID", ctx, shopper.ID).Return(c, nil)
	f.items.On("FindByIDs", ctx, []string{"I1"}).Return([]*catalog.Item{testItem(t, "I1", "10")}, nil)
	f.expectIDs(ctx)
	f.orders.On("Create", ctx, mock.AnythingOfType("*order.Order"), []string{first.ID, second.ID}).Return(nil)
	f.events.On("Publish", ctx, mock.Anything).Return(nil)
	f.confirmer.On("OrderPlaced", ctx, mock.Anything).Return(notification.Result{Status: notification.StatusSent})

	res, err := f.svc.PlaceOrder(ctx, shopper.ID, PlaceOrderRequest{Address: "1 Main St"})
	require.NoError(t, err)
	assert.Len(t, res.Lines, 2)
	assert.True(t, decimal.NewFromInt(30).Equal(res.TotalPrice))
	f.orders.AssertExpectations(t)
}

func TestPlaceOrder_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown shopper writes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.shoppers.On("FindByID", ctx, "ghost").Return(nil, identity.ErrUserNotFound)

		_, err := f.svc.PlaceOrder(ctx, "ghost", PlaceOrderRequest{Address: "x", Items: []OrderItemRequest{{ItemID: "I1", Quantity: 1}}})
		assert.ErrorIs(t, err, identity.ErrUserNotFound)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no items and no cart", func(t *testing.T) {
		f := newFixture(t)
		shopper := testShopper(t)
		f.shoppers.On("FindByID", ctx, shopper.ID).Return(shopper, nil)
		f.carts.On("FindByShopperID", ctx, shopper.ID).Return(nil, cart.ErrCartNotFound)

		_, err := f.svc.PlaceOrder(ctx, shopper.ID, PlaceOrderRequest{Address: "x"})
		assert.ErrorIs(t, err, order.ErrEmptyOrder)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		shopper := testShopper(t)
		c, err := cart.NewCart(shopper.ID)
		require.NoError(t, err)
		f.shoppers.On("FindByID", ctx, shopper.ID).Return(shopper, nil)
		f.carts.On("FindByShopperID", ctx, shopper.ID).Return(c, nil)

		_, err = f.svc.PlaceOrder(ctx, shopper.ID, PlaceOrderRequest{Address: "x"})
		assert.ErrorIs(t, err, order.ErrEmptyOrder)
	})

	t.Run("unknown items are listed", func(t *testing.T) {
		f := newFixture(t)
		shopper := testShopper(t)
		f.shoppers.On("FindByID", ctx, shopper.ID).Return(shopper, nil)
		f.items.On("FindByIDs", ctx, []string{"I1", "I7", "I8"}).Return([]*catalog.Item{testItem(t, "I1", "1")}, nil)

		_, err := f.svc.PlaceOrder(ctx, shopper.ID, PlaceOrderRequest{Address: "x", Items: []OrderItemRequest{
			{ItemID: "I1", Quantity: 1}, {ItemID: "I7", Quantity: 1}, {ItemID: "I8", Quantity: 1},
		}})
		assert.ErrorIs(t, err, catalog.ErrItemNotFound)
		assert.Contains(t, err.Error(), "I7, I8")
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("order id space exhausted", func(t *testing.T) {
		f := newFixture(t)
		shopper := testShopper(t)
		f.shoppers.On("FindByID", ctx, shopper.ID).Return(shopper, nil)
		f.items.On("FindByIDs", ctx, []string{"I1"}).Return([]*catalog.Item{testItem(t, "I1", "1")}, nil)
		f.orders.On("ExistsByID", ctx, mock.Anything).Return(true, nil)

		_, err := f.svc.PlaceOrder(ctx, shopper.ID, PlaceOrderRequest{Address: "x", Items: []OrderItemRequest{{ItemID: "I1", Quantity: 1}}})
		assert.ErrorIs(t, err, shared.ErrIDGenerationFailed)
		f.orders.AssertNumberOfCalls(t, "ExistsByID", shared.DefaultIDAttempts)
	})
}

func TestPlaceOrder_NotificationFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shopper := testShopper(t)

	f.shoppers.On("FindByID", ctx, shopper.ID).Return(shopper, nil)
	f.items.On("FindByIDs", ctx, []string{"I1"}).Return([]*catalog.Item{testItem(t, "I1", "3")}, nil)
	f.expectIDs(ctx)
	f.orders.On("Create", ctx, mock.Anything, []string(nil)).Return(nil)
	f.events.On("Publish", ctx, mock.Anything).Return(nil)
	f.confirmer.On("OrderPlaced", ctx, mock.Anything).Return(notification.Result{Status: notification.StatusFailed})

	res, err := f.svc.PlaceOrder(ctx, shopper.ID, PlaceOrderRequest{Address: "1 Main St", Items: []OrderItemRequest{{ItemID: "I1", Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, notification.StatusFailed, res.Notification.Status)
	f.orders.AssertCalled(t, "Create", ctx, mock.Anything, false)
}

func TestGetOrder_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := order.NewOrder("123456", "ABCDEFGHIJKL", order.Snapshot{ShopperID: "s1", Name: "Ada", Email: "a@x.com"},
		"1 Main St", []order.Line{{ItemID: "I1", Name: "Bear", UnitPrice: decimal.NewFromInt(2), Quantity: 1}})
	require.NoError(t, err)
	f.orders.On("FindByID", ctx, "123456").Return(o, nil)

	res, err := f.svc.GetOrder(ctx, "s1", "123456")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJKL", res.TrackingID)

	_, err = f.svc.GetOrder(ctx, "s2", "123456")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.orders.On("FindByShopperID", ctx, "s1").Return([]*order.Order{}, nil)

	res, err := f.svc.ListOrders(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, res)
}

type recordedOrder struct {
	lines int
	total decimal.Decimal
}

type recordingOrderMetrics struct{ got []recordedOrder }

func (r *recordingOrderMetrics) OrderPlaced(_ context.Context, lines int, total decimal.Decimal) {
	r.got = append(r.got, recordedOrder{lines, total})
}

func TestMetricsHandler(t *testing.T) {
	m := &recordingOrderMetrics{}
	h := NewMetricsHandler(m)
	assert.Equal(t, []string{order.EventTypeOrderPlaced}, h.EventTypes())

	o, err := order.NewOrder("123456", "ABCDEFGHIJKL", order.Snapshot{ShopperID: "s1"},
		"1 Main St", []order.Line{{ItemID: "I1", UnitPrice: decimal.NewFromInt(4), Quantity: 3}})
	require.NoError(t, err)

	for _, ev := range o.PullEvents() {
		require.NoError(t, h.Handle(context.Background(), ev))
	}
	require.Len(t, m.got, 1)
	assert.Equal(t, 1, m.got[0].lines)
	assert.True(t, decimal.NewFromInt(12).Equal(m.got[0].total))
}
