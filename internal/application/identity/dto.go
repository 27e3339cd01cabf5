package identity

import "time"

// ShopperSignupRequest represents a shopper registration
type ShopperSignupRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=1,max=72"`
	Phone    string `json:"phone" binding:"max=50"`
}

// ShopperLoginRequest represents a shopper login
type ShopperLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest holds profile changes. Empty fields are kept.
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=1,max=72"`
}

// MerchantSignupRequest represents a merchant registration
type MerchantSignupRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=200"`
	Email           string `json:"email" binding:"required,email,max=200"`
	Phone           string `json:"phone" binding:"required,min=1,max=50"`
	Password        string `json:"password" binding:"required,min=1,max=72"`
	BusinessName    string `json:"businessName" binding:"required,min=1,max=200"`
	BusinessAddress string `json:"businessAddress" binding:"max=500"`
	BusinessType    string `json:"businessType" binding:"max=100"`
}

// MerchantLoginRequest represents a merchant login. EmailOrPhone must match
// either stored contact of the merchant.
type MerchantLoginRequest struct {
	SellerID     string `json:"sellerId" binding:"required"`
	EmailOrPhone string `json:"emailOrPhone" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// VerificationRequest sets merchant verification flags. Absent flags are kept.
type VerificationRequest struct {
	EmailVerified *bool `json:"emailVerified"`
	PhoneVerified *bool `json:"phoneVerified"`
}

// ShopperSignupResult is returned after a shopper registers
type ShopperSignupResult struct {
	ID string `json:"id"`
}

// MerchantSignupResult is returned after a merchant registers
type MerchantSignupResult struct {
	SellerID string `json:"sellerId"`
}

// TokenInfo describes an issued bearer token
type TokenInfo struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ShopperLoginResult is returned after a successful shopper login
type ShopperLoginResult struct {
	TokenInfo
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MerchantLoginResult is returned after a successful merchant login
type MerchantLoginResult struct {
	TokenInfo
	SellerID string `json:"sellerId"`
	Name     string `json:"name"`
}

// ShopperPublicResponse is the public view of a shopper
type ShopperPublicResponse struct {
	Name string `json:"name"`
}

// ProfileResponse is the shopper's own profile
type ProfileResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// MerchantPublicResponse is the public view of a merchant
type MerchantPublicResponse struct {
	Name            string `json:"name"`
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	BusinessType    string `json:"businessType"`
}

// SessionStateResponse reports the merchant's stored session flag
type SessionStateResponse struct {
	SellerID     string `json:"sellerId"`
	SessionState string `json:"sessionState"`
}

// VerificationResponse reports a merchant's verification flags
type VerificationResponse struct {
	SellerID      string `json:"sellerId"`
	EmailVerified bool   `json:"emailVerified"`
	PhoneVerified bool   `json:"phoneVerified"`
}
