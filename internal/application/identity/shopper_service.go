package identity

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// ShopperService handles shopper registration, login and profile management
type ShopperService struct {
	shoppers identity.ShopperRepository
	sessions *SessionManager
	metrics  LoginMetrics
	logger   *zap.Logger
}

// NewShopperService creates a new ShopperService
func NewShopperService(shoppers identity.ShopperRepository, sessions *SessionManager, l *zap.Logger) *ShopperService {
	return &ShopperService{
		shoppers: shoppers,
		sessions: sessions,
		metrics:  nopLoginMetrics{},
		logger:   l,
	}
}

// WithMetrics sets the login outcome recorder
func (s *ShopperService) WithMetrics(m LoginMetrics) *ShopperService {
	if m != nil {
		s.metrics = m
	}
	return s
}

// Signup registers a shopper under a fresh, collision-checked id
func (s *ShopperService) Signup(ctx context.Context, req ShopperSignupRequest) (*ShopperSignupResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.shoppers.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrDuplicateEmail
	}

	id, err := shared.GenerateUnique(ctx, identity.NewShopperID, s.shoppers.ExistsByID, shared.DefaultIDAttempts)
	if err != nil {
		return nil, err
	}
	shopper, err := identity.NewShopper(id, req.Name, email, req.Password, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.shoppers.Create(ctx, shopper); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("shopper registered", zap.String("shopper_id", id))
	return &ShopperSignupResult{ID: id}, nil
}

// Login checks the credentials and account status and opens a session
func (s *ShopperService) Login(ctx context.Context, req ShopperLoginRequest) (*ShopperLoginResult, error) {
	log := logger.Enrich(ctx, s.logger)
	kind := string(identity.PrincipalShopper)

	shopper, err := s.shoppers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			s.metrics.LoginFailed(ctx, kind)
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !shopper.Credential.Verify(req.Password) {
		log.Warn("invalid shopper password", zap.String("shopper_id", shopper.ID))
		s.metrics.LoginFailed(ctx, kind)
		return nil, identity.ErrInvalidCredentials
	}
	if err := shopper.CanLogin(); err != nil {
		log.Warn("login refused by account status",
			zap.String("shopper_id", shopper.ID),
			zap.String("status", string(shopper.Status)),
		)
		s.metrics.LoginFailed(ctx, kind)
		return nil, err
	}

	issued, err := s.sessions.Issue(ctx, shopper.ID, identity.PrincipalShopper)
	if err != nil {
		return nil, err
	}
	s.metrics.LoginSucceeded(ctx, kind)
	log.Info("shopper logged in", zap.String("shopper_id", shopper.ID))

	return &ShopperLoginResult{
		TokenInfo: tokenInfo(issued),
		ID:        shopper.ID,
		Name:      shopper.Name,
	}, nil
}

// Logout ends the caller's session
func (s *ShopperService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// PublicProfile returns the shopper's name
func (s *ShopperService) PublicProfile(ctx context.Context, id string) (*ShopperPublicResponse, error) {
	shopper, err := s.shoppers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ShopperPublicResponse{Name: shopper.Name}, nil
}

// Profile returns the caller's own profile
func (s *ShopperService) Profile(ctx context.Context, id string) (*ProfileResponse, error) {
	shopper, err := s.shoppers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(shopper), nil
}

// UpdateProfile changes the caller's name and phone
func (s *ShopperService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*ProfileResponse, error) {
	shopper, err := s.shoppers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shopper.UpdateProfile(req.Name, req.Phone); err != nil {
		return nil, err
	}
	if err := s.shoppers.Update(ctx, shopper); err != nil {
		return nil, err
	}
	return toProfileResponse(shopper), nil
}

// ChangePassword replaces the password and ends every other session of the shopper
func (s *ShopperService) ChangePassword(ctx context.Context, id, sessionID string, req ChangePasswordRequest) error {
	shopper, err := s.shoppers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := shopper.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.shoppers.Update(ctx, shopper); err != nil {
		return err
	}

	if err := s.sessions.RevokeOthers(ctx, identity.PrincipalShopper, id, sessionID); err != nil {
		logger.Enrich(ctx, s.logger).Error("failed to revoke other sessions after password change",
			zap.String("shopper_id", id),
			zap.Error(err),
		)
	}
	logger.Enrich(ctx, s.logger).Info("shopper password changed", zap.String("shopper_id", id))
	return nil
}

func toProfileResponse(s *identity.Shopper) *ProfileResponse {
	return &ProfileResponse{
		ID:     s.ID,
		Name:   s.Name,
		Email:  s.Email,
		Phone:  s.Phone,
		Status: string(s.Status),
	}
}

func tokenInfo(t *auth.IssuedToken) TokenInfo {
	return TokenInfo{
		AccessToken: t.Token,
		TokenType:   t.TokenType,
		ExpiresAt:   t.ExpiresAt,
	}
}
