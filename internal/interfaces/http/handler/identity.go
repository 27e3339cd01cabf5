package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ShopperHandler serves shopper accounts and profiles
type ShopperHandler struct {
	BaseHandler
	shoppers *appidentity.ShopperService
}

// NewShopperHandler creates a new ShopperHandler
func NewShopperHandler(shoppers *appidentity.ShopperService) *ShopperHandler {
	return &ShopperHandler{shoppers: shoppers}
}

// Signup godoc
// @Summary      Shopper signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.ShopperSignupRequest true "Account details"
// @Success      201 {object} dto.Response{data=appidentity.ShopperSignupResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo} "Validation failed or email taken"
// @Router       /auth/shoppers/signup [post]
func (h *ShopperHandler) Signup(c *gin.Context) {
	var req appidentity.ShopperSignupRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.shoppers.Signup(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Account created", result)
}

// Login godoc
// @Summary      Shopper login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.ShopperLoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=appidentity.ShopperLoginResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo} "Account suspended or blocked"
// @Router       /auth/shoppers/login [post]
func (h *ShopperHandler) Login(c *gin.Context) {
	var req appidentity.ShopperLoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.shoppers.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Login successful", result)
}

// Logout godoc
// @Summary      Shopper logout
// @Description  Revokes the session of the presented token
// @Tags         auth
// @Security     BearerAuth
// @Router       /auth/shoppers/logout [post]
func (h *ShopperHandler) Logout(c *gin.Context) {
	if err := h.shoppers.Logout(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Logged out", nil)
}

// PublicProfile handles GET /users/:userId
func (h *ShopperHandler) PublicProfile(c *gin.Context) {
	result, err := h.shoppers.PublicProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Profile handles GET /profile
func (h *ShopperHandler) Profile(c *gin.Context) {
	result, err := h.shoppers.Profile(c.Request.Context(), middleware.GetPrincipalID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateProfile handles PUT /profile
func (h *ShopperHandler) UpdateProfile(c *gin.Context) {
	var req appidentity.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.shoppers.UpdateProfile(c.Request.Context(), middleware.GetPrincipalID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Profile updated", result)
}

// ChangePassword handles PUT /profile/password. Every other session of the
// shopper is revoked; the current one stays valid.
func (h *ShopperHandler) ChangePassword(c *gin.Context) {
	var req appidentity.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	err := h.shoppers.ChangePassword(c.Request.Context(), middleware.GetPrincipalID(c), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Password changed", nil)
}

// MerchantHandler serves merchant accounts
type MerchantHandler struct {
	BaseHandler
	merchants *appidentity.MerchantService
}

// NewMerchantHandler creates a new MerchantHandler
func NewMerchantHandler(merchants *appidentity.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchants: merchants}
}

// Signup godoc
// @Summary      Merchant signup
// @Description  Registers a seller account. The account cannot log in until verified.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.MerchantSignupRequest true "Seller details"
// @Success      201 {object} dto.Response{data=appidentity.MerchantSignupResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo} "Validation failed, email or phone taken"
// @Router       /auth/merchants/signup [post]
func (h *MerchantHandler) Signup(c *gin.Context) {
	var req appidentity.MerchantSignupRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.merchants.Signup(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Seller registered", result)
}

// Login godoc
// @Summary      Merchant login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.MerchantLoginRequest true "Seller id, email or phone, password"
// @Success      200 {object} dto.Response{data=appidentity.MerchantLoginResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo} "Account not verified"
// @Router       /auth/merchants/login [post]
func (h *MerchantHandler) Login(c *gin.Context) {
	var req appidentity.MerchantLoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.merchants.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Login successful", result)
}

// Logout handles POST /auth/merchants/logout
func (h *MerchantHandler) Logout(c *gin.Context) {
	if err := h.merchants.Logout(c.Request.Context(), middleware.GetPrincipalID(c), middleware.GetSessionID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Logged out", nil)
}

// SessionState handles GET /merchants/me/session
func (h *MerchantHandler) SessionState(c *gin.Context) {
	result, err := h.merchants.SessionState(c.Request.Context(), middleware.GetPrincipalID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PublicProfile handles GET /merchants/:sellerId
func (h *MerchantHandler) PublicProfile(c *gin.Context) {
	result, err := h.merchants.PublicProfile(c.Request.Context(), c.Param("sellerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetVerification handles PUT /operator/merchants/:sellerId/verification
func (h *MerchantHandler) SetVerification(c *gin.Context) {
	var req appidentity.VerificationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.merchants.SetVerification(c.Request.Context(), c.Param("sellerId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Verification updated", result)
}
