package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/domain/order"
)

// PlaceOrderRequest is a checkout submission. When Items is empty the
// caller's cart lines are ordered instead.
type PlaceOrderRequest struct {
	Address string             `json:"address" binding:"required,min=1,max=500"`
	Items   []OrderItemRequest `json:"items" binding:"omitempty,max=100,dive"`
}

// OrderItemRequest is one requested item
type OrderItemRequest struct {
	ItemID   string `json:"itemId" binding:"required,max=100"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=1000"`
}

// LineResponse is one ordered item priced at checkout time
type LineResponse struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse is a persisted order
type OrderResponse struct {
	OrderID    string          `json:"orderId"`
	TrackingID string          `json:"trackingId"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Address    string          `json:"address"`
	Lines      []LineResponse  `json:"lines"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	PlacedAt   time.Time       `json:"placedAt"`
}

// PlaceOrderResponse adds the confirmation email outcome to the order
type PlaceOrderResponse struct {
	*OrderResponse
	Notification notification.Result `json:"notification"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) *OrderResponse {
	lines := make([]LineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = LineResponse{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		}
	}
	return &OrderResponse{
		OrderID:    o.ID,
		TrackingID: o.TrackingID,
		Name:       o.ShopperName,
		Email:      o.ShopperEmail,
		Address:    o.Address,
		Lines:      lines,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		PlacedAt:   o.PlacedAt,
	}
}
