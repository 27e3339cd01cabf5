package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Status is the fulfilment status of an order
type Status string

// StatusProcessing is the status of a freshly placed order
const StatusProcessing Status = "Processing"

const (
	orderIDDigits    = 6
	trackingIDLength = 12
)

// Order error codes
var (
	ErrOrderNotFound = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrEmptyOrder    = shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one product")
)

// EventTypeOrderPlaced is published after an order is persisted
const EventTypeOrderPlaced = "order.placed"

// Line is a snapshot of one ordered item at checkout time
type Line struct {
	ID        string
	ItemID    string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal returns UnitPrice × Quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is an immutable checkout record
type Order struct {
	shared.Aggregate
	TrackingID   string
	ShopperID    string
	ShopperName  string
	ShopperEmail string
	Address      string
	Lines        []Line
	TotalPrice   decimal.Decimal
	Status       Status
	PlacedAt     time.Time
}

// Snapshot carries the shopper details copied into an order
type Snapshot struct {
	ShopperID string
	Name      string
	Email     string
}

// NewOrderID draws a six digit order number
func NewOrderID() (string, error) {
	return shared.RandomDigits(orderIDDigits)
}

// NewTrackingID draws a twelve character upper-case base36 tracking id
func NewTrackingID() (string, error) {
	return shared.RandomBase36(trackingIDLength)
}

// NewOrder builds an order and computes its total from the lines
func NewOrder(id, trackingID string, shopper Snapshot, address string, lines []Line) (*Order, error) {
	if id == "" || trackingID == "" {
		return nil, shared.NewDomainError("INVALID_ID", "Order and tracking IDs are required")
	}
	if shopper.ShopperID == "" {
		return nil, shared.NewDomainError("INVALID_SHOPPER", "Shopper ID cannot be empty")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	total := decimal.Zero
	snap := make([]Line, len(lines))
	for i, l := range lines {
		if l.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		snap[i] = l
		total = total.Add(l.Subtotal())
	}

	o := &Order{
		Aggregate:    shared.NewAggregate(id),
		TrackingID:   trackingID,
		ShopperID:    shopper.ShopperID,
		ShopperName:  shopper.Name,
		ShopperEmail: shopper.Email,
		Address:      address,
		Lines:        snap,
		TotalPrice:   total.Round(2),
		Status:       StatusProcessing,
	}
	o.PlacedAt = o.CreatedAt
	o.Record(NewOrderPlacedEvent(o))
	return o, nil
}

// OrderPlacedEvent is raised when an order is created
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	ShopperID  string          `json:"shopper_id"`
	TrackingID string          `json:"tracking_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	LineCount  int             `json:"line_count"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, "Order", o.ID),
		ShopperID:       o.ShopperID,
		TrackingID:      o.TrackingID,
		TotalPrice:      o.TotalPrice,
		LineCount:       len(o.Lines),
	}
}
