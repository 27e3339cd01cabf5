package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler serves the authenticated shopper's cart
type CartHandler struct {
	BaseHandler
	carts *appcart.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *appcart.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// AddItem godoc
// @Summary      Add an item to the cart
// @Description  Appends a line; adding an item already in the cart creates a second line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.AddItemRequest true "Item and quantity"
// @Success      200 {object} dto.Response{data=appcart.CartResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo} "Unknown item"
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req appcart.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), middleware.GetPrincipalID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Item added to cart", cart)
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), middleware.GetPrincipalID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateQuantity handles PUT /cart/items/:itemId
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req appcart.UpdateQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cart, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.GetPrincipalID(c), c.Param("itemId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Cart updated", cart)
}

// RemoveItem handles DELETE /cart/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetPrincipalID(c), c.Param("itemId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Item removed from cart", cart)
}
