package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appcoupon "github.com/storefront/backend/internal/application/coupon"
)

// CouponHandler serves coupon lookup and operator coupon management
type CouponHandler struct {
	BaseHandler
	coupons *appcoupon.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(coupons *appcoupon.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// List handles GET /coupons
func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.coupons.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupons)
}

// Verify handles POST /coupons/verify
func (h *CouponHandler) Verify(c *gin.Context) {
	var req appcoupon.VerifyCouponRequest
	if !h.BindJSON(c, &req) {
		return
	}
	coupon, err := h.coupons.Verify(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Coupon is valid", coupon)
}

// Create godoc
// @Summary      Issue a coupon
// @Description  Stores the coupon and emails it to every shopper in the background
// @Tags         operator
// @Accept       json
// @Produce      json
// @Param        request body appcoupon.CreateCouponRequest true "Code and discount"
// @Success      201 {object} dto.Response{data=appcoupon.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /operator/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req appcoupon.CreateCouponRequest
	if !h.BindJSON(c, &req) {
		return
	}
	coupon, err := h.coupons.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Coupon created", coupon)
}

// Delete handles DELETE /operator/coupons/:code?discountPercentage=.
// Only a coupon matching both code and percentage is removed.
func (h *CouponHandler) Delete(c *gin.Context) {
	raw := c.Query("discountPercentage")
	if raw == "" {
		h.BadRequest(c, "Query parameter discountPercentage is required")
		return
	}
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		h.BadRequest(c, "discountPercentage must be a number")
		return
	}
	if err := h.coupons.Delete(c.Request.Context(), c.Param("code"), pct); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Coupon deleted", nil)
}
