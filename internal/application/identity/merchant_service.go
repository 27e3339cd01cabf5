package identity

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// MerchantService handles seller registration, login and verification
type MerchantService struct {
	merchants  identity.MerchantRepository
	sessions   *SessionManager
	metrics    LoginMetrics
	idAttempts int
	logger     *zap.Logger
}

// NewMerchantService creates a new MerchantService
func NewMerchantService(merchants identity.MerchantRepository, sessions *SessionManager, l *zap.Logger) *MerchantService {
	return &MerchantService{
		merchants:  merchants,
		sessions:   sessions,
		metrics:    nopLoginMetrics{},
		idAttempts: shared.DefaultIDAttempts,
		logger:     l,
	}
}

// WithMetrics sets the login outcome recorder
func (s *MerchantService) WithMetrics(m LoginMetrics) *MerchantService {
	if m != nil {
		s.metrics = m
	}
	return s
}

// Signup registers a merchant. Both verification flags start false, so the
// merchant cannot log in until an operator verifies them.
func (s *MerchantService) Signup(ctx context.Context, req MerchantSignupRequest) (*MerchantSignupResult, error) {
	exists, err := s.merchants.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrDuplicateEmail
	}
	exists, err = s.merchants.ExistsByPhone(ctx, strings.TrimSpace(req.Phone))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrDuplicatePhone
	}

	id, err := shared.GenerateUnique(ctx, identity.NewMerchantID, s.merchants.ExistsByID, s.idAttempts)
	if err != nil {
		return nil, err
	}
	merchant, err := identity.NewMerchant(id, identity.MerchantRegistration{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		BusinessType:    req.BusinessType,
	})
	if err != nil {
		return nil, err
	}
	if err := s.merchants.Create(ctx, merchant); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("merchant registered", zap.String("seller_id", id))
	return &MerchantSignupResult{SellerID: id}, nil
}

// Login authenticates by seller id plus email or phone, marks the merchant
// logged in and opens a session
func (s *MerchantService) Login(ctx context.Context, req MerchantLoginRequest) (*MerchantLoginResult, error) {
	log := logger.Enrich(ctx, s.logger)
	kind := string(identity.PrincipalMerchant)

	merchant, err := s.merchants.FindByID(ctx, strings.TrimSpace(req.SellerID))
	if err != nil {
		if errors.Is(err, identity.ErrMerchantNotFound) {
			s.metrics.LoginFailed(ctx, kind)
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !merchant.MatchesContact(req.EmailOrPhone) || !merchant.Credential.Verify(req.Password) {
		log.Warn("invalid merchant credentials", zap.String("seller_id", merchant.ID))
		s.metrics.LoginFailed(ctx, kind)
		return nil, identity.ErrInvalidCredentials
	}
	if !merchant.IsVerified() {
		s.metrics.LoginFailed(ctx, kind)
		return nil, identity.ErrAccountNotVerified
	}

	merchant.MarkLoggedIn()
	if err := s.merchants.Update(ctx, merchant); err != nil {
		return nil, err
	}
	issued, err := s.sessions.Issue(ctx, merchant.ID, identity.PrincipalMerchant)
	if err != nil {
		return nil, err
	}
	s.metrics.LoginSucceeded(ctx, kind)
	log.Info("merchant logged in", zap.String("seller_id", merchant.ID))

	return &MerchantLoginResult{
		TokenInfo: tokenInfo(issued),
		SellerID:  merchant.ID,
		Name:      merchant.Name,
	}, nil
}

// Logout marks the merchant logged out and ends the session
func (s *MerchantService) Logout(ctx context.Context, sellerID, sessionID string) error {
	merchant, err := s.merchants.FindByID(ctx, sellerID)
	if err != nil {
		return err
	}
	merchant.MarkLoggedOut()
	if err := s.merchants.Update(ctx, merchant); err != nil {
		return err
	}
	return s.sessions.Revoke(ctx, sessionID)
}

// SessionState returns the stored loggedin/loggedout flag
func (s *MerchantService) SessionState(ctx context.Context, sellerID string) (*SessionStateResponse, error) {
	merchant, err := s.merchants.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return &SessionStateResponse{SellerID: merchant.ID, SessionState: string(merchant.SessionState)}, nil
}

// PublicProfile returns the merchant's business details
func (s *MerchantService) PublicProfile(ctx context.Context, sellerID string) (*MerchantPublicResponse, error) {
	merchant, err := s.merchants.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return &MerchantPublicResponse{
		Name:            merchant.Name,
		BusinessName:    merchant.BusinessName,
		BusinessAddress: merchant.BusinessAddress,
		BusinessType:    merchant.BusinessType,
	}, nil
}

// SetVerification updates the verification flags that gate login
func (s *MerchantService) SetVerification(ctx context.Context, sellerID string, req VerificationRequest) (*VerificationResponse, error) {
	merchant, err := s.merchants.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	merchant.SetVerification(req.EmailVerified, req.PhoneVerified)
	if err := s.merchants.Update(ctx, merchant); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("merchant verification updated",
		zap.String("seller_id", merchant.ID),
		zap.Bool("email_verified", merchant.EmailVerified),
		zap.Bool("phone_verified", merchant.PhoneVerified),
	)
	return &VerificationResponse{
		SellerID:      merchant.ID,
		EmailVerified: merchant.EmailVerified,
		PhoneVerified: merchant.PhoneVerified,
	}, nil
}
