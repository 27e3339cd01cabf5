package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderMetrics receives placed orders. Implemented by telemetry.BusinessMetrics.
type OrderMetrics interface {
	OrderPlaced(ctx context.Context, lines int, total decimal.Decimal)
}

// MetricsHandler records order.placed events on the bus
type MetricsHandler struct {
	metrics OrderMetrics
}

// NewMetricsHandler creates the handler
func NewMetricsHandler(m OrderMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// EventTypes returns the order events this handler consumes
func (h *MetricsHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle records the order
func (h *MetricsHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	placed, ok := ev.(*order.OrderPlacedEvent)
	if !ok {
		return nil
	}
	h.metrics.OrderPlaced(ctx, placed.LineCount, placed.TotalPrice)
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
