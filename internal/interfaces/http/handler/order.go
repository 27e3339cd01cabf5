package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler serves checkout and order history
type OrderHandler struct {
	BaseHandler
	orders *apporder.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *apporder.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// PlaceOrder godoc
// @Summary      Place an order
// @Description  Orders the given items, or the cart when items is empty. Prices come
// @Description  from the catalog at checkout. A failed confirmation email does not
// @Description  fail the order; it is reported in notification.status.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body apporder.PlaceOrderRequest true "Delivery address and optional items"
// @Success      201 {object} dto.Response{data=apporder.PlaceOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo} "Empty order"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo} "Unknown items"
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req apporder.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.orders.PlaceOrder(c.Request.Context(), middleware.GetPrincipalID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Order placed", result)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), middleware.GetPrincipalID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get handles GET /orders/:orderId
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), middleware.GetPrincipalID(c), c.Param("orderId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}
