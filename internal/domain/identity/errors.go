package identity

import "github.com/storefront/backend/internal/domain/shared"

// Identity error codes
var (
	ErrDuplicateEmail      = shared.NewDomainError("DUPLICATE_EMAIL", "Email already registered")
	ErrDuplicatePhone      = shared.NewDomainError("DUPLICATE_PHONE", "Phone number already registered")
	ErrInvalidCredentials  = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	ErrAccountSuspended    = shared.NewDomainError("ACCOUNT_SUSPENDED", "Account is suspended")
	ErrAccountBlocked      = shared.NewDomainError("ACCOUNT_BLOCKED", "Account is blocked")
	ErrAccountNotVerified  = shared.NewDomainError("ACCOUNT_NOT_VERIFIED", "Account not verified")
	ErrUserNotFound        = shared.NewDomainError("USER_NOT_FOUND", "User not found")
	ErrMerchantNotFound    = shared.NewDomainError("MERCHANT_NOT_FOUND", "Seller not found")
	ErrSessionNotFound     = shared.NewDomainError("SESSION_NOT_FOUND", "Session not found or revoked")
	ErrPasswordHashFailure = shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
)
