package order

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// Confirmer sends the order confirmation. Implemented by notification.Notifier.
type Confirmer interface {
	OrderPlaced(ctx context.Context, o *order.Order) notification.Result
}

// OrderService turns a checkout submission into a persisted order
type OrderService struct {
	orders    order.OrderRepository
	shoppers  identity.ShopperRepository
	items     catalog.ItemRepository
	carts     cart.CartRepository
	confirmer Confirmer
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(
	orders order.OrderRepository,
	shoppers identity.ShopperRepository,
	items catalog.ItemRepository,
	carts cart.CartRepository,
	confirmer Confirmer,
	events shared.EventPublisher,
	l *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		shoppers:  shoppers,
		items:     items,
		carts:     carts,
		confirmer: confirmer,
		events:    events,
		logger:    l,
	}
}

type requestedLine struct {
	itemID   string
	quantity int
}

// PlaceOrder prices the requested items (or the cart) at the current catalog
// price, persists the order and then emails the confirmation. A failed email
// does not fail the order; it is reported in the response.
func (s *OrderService) PlaceOrder(ctx context.Context, shopperID string, req PlaceOrderRequest) (resp *PlaceOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place", telemetry.SpanAttrShopperID, shopperID)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	log := logger.Enrich(ctx, s.logger)

	shopper, err := s.shoppers.FindByID(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	requested, cartLines, err := s.requestedLines(ctx, shopperID, req.Items)
	if err != nil {
		return nil, err
	}
	lines, err := s.priceLines(ctx, requested)
	if err != nil {
		return nil, err
	}

	id, err := shared.GenerateUnique(ctx, order.NewOrderID, s.orders.ExistsByID, shared.DefaultIDAttempts)
	if err != nil {
		return nil, err
	}
	tracking, err := shared.GenerateUnique(ctx, order.NewTrackingID, s.orders.ExistsByTrackingID, shared.DefaultIDAttempts)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(id, tracking, order.Snapshot{
		ShopperID: shopper.ID,
		Name:      shopper.Name,
		Email:     shopper.Email,
	}, req.Address, lines)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, o, cartLines); err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, o.ID,
		telemetry.SpanAttrTrackingID, o.TrackingID,
		telemetry.SpanAttrLineCount, len(o.Lines),
	)
	log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("tracking_id", o.TrackingID),
		zap.String("shopper_id", shopper.ID),
		zap.Int("lines", len(o.Lines)),
		zap.String("total", o.TotalPrice.StringFixed(2)),
		zap.Bool("from_cart", len(cartLines) > 0),
	)

	s.publish(ctx, o)
	result := s.confirmer.OrderPlaced(ctx, o)
	telemetry.AddEvent(span, "notification", "status", result.Status)

	return &PlaceOrderResponse{OrderResponse: ToOrderResponse(o), Notification: result}, nil
}

// ListOrders returns the caller's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, shopperID string) ([]*OrderResponse, error) {
	orders, err := s.orders.FindByShopperID(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = ToOrderResponse(o)
	}
	return out, nil
}

// GetOrder returns one of the caller's orders. Another shopper's order is
// reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, shopperID, orderID string) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ShopperID != shopperID {
		return nil, order.ErrOrderNotFound
	}
	return ToOrderResponse(o), nil
}

// requestedLines returns the lines to price and, for a cart checkout, the
// ids of the cart lines they came from
func (s *OrderService) requestedLines(ctx context.Context, shopperID string, items []OrderItemRequest) ([]requestedLine, []string, error) {
	if len(items) > 0 {
		out := make([]requestedLine, len(items))
		for i, it := range items {
			out[i] = requestedLine{itemID: it.ItemID, quantity: it.Quantity}
		}
		return out, nil, nil
	}

	c, err := s.carts.FindByShopperID(ctx, shopperID)
	if errors.Is(err, cart.ErrCartNotFound) {
		return nil, nil, order.ErrEmptyOrder
	}
	if err != nil {
		return nil, nil, err
	}
	if c.IsEmpty() {
		return nil, nil, order.ErrEmptyOrder
	}
	out := make([]requestedLine, len(c.Lines))
	ids := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = requestedLine{itemID: l.ItemID, quantity: l.Quantity}
		ids[i] = l.ID
	}
	return out, ids, nil
}

// priceLines resolves every item in one lookup and snapshots name and price
func (s *OrderService) priceLines(ctx context.Context, requested []requestedLine) ([]order.Line, error) {
	ids := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, r := range requested {
		if _, ok := seen[r.itemID]; ok {
			continue
		}
		seen[r.itemID] = struct{}{}
		ids = append(ids, r.itemID)
	}

	found, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*catalog.Item, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewDomainError(catalog.ErrItemNotFound.Code,
			"Products not found: "+strings.Join(missing, ", "))
	}

	lines := make([]order.Line, len(requested))
	for i, r := range requested {
		it := byID[r.itemID]
		lines[i] = order.Line{
			ItemID:    it.ID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  r.quantity,
		}
	}
	return lines, nil
}

func (s *OrderService) publish(ctx context.Context, o *order.Order) {
	events := o.PullEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to publish order events",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}
