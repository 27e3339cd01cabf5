package identity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// Session errors returned by Authenticate
var (
	ErrInvalidToken = shared.NewDomainError("INVALID_TOKEN", "Invalid or revoked token")
	ErrTokenExpired = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
)

// LoginMetrics receives login outcomes. Implemented by telemetry.BusinessMetrics.
type LoginMetrics interface {
	LoginSucceeded(ctx context.Context, kind string)
	LoginFailed(ctx context.Context, kind string)
}

type nopLoginMetrics struct{}

func (nopLoginMetrics) LoginSucceeded(context.Context, string) {}
func (nopLoginMetrics) LoginFailed(context.Context, string)    {}

// SessionManager issues bearer tokens backed by server-side sessions and
// resolves tokens back to the session on every authenticated request.
type SessionManager struct {
	tokens *auth.JWTService
	store  identity.SessionStore
	logger *zap.Logger
}

// NewSessionManager creates a session manager
func NewSessionManager(tokens *auth.JWTService, store identity.SessionStore, l *zap.Logger) *SessionManager {
	return &SessionManager{tokens: tokens, store: store, logger: l}
}

// Issue signs a token for the principal and records its session
func (m *SessionManager) Issue(ctx context.Context, principalID string, kind identity.PrincipalKind) (*auth.IssuedToken, error) {
	issued, err := m.tokens.Issue(principalID, kind)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := m.store.Save(ctx, issued.Session(principalID, kind)); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return issued, nil
}

// Authenticate validates the token and returns its live session. A token
// whose session was revoked is rejected even before it expires.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (*identity.Session, error) {
	claims, err := m.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	session, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, identity.ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if session.PrincipalID != claims.Subject || session.Kind != claims.Kind {
		logger.Enrich(ctx, m.logger).Warn("token claims do not match stored session",
			zap.String("session_id", session.ID),
		)
		return nil, ErrInvalidToken
	}
	return session, nil
}

// Revoke ends a single session
func (m *SessionManager) Revoke(ctx context.Context, sessionID string) error {
	return m.store.Revoke(ctx, sessionID)
}

// RevokeOthers ends every session of the principal except keep
func (m *SessionManager) RevokeOthers(ctx context.Context, kind identity.PrincipalKind, principalID, keep string) error {
	return m.store.RevokeAll(ctx, kind, principalID, keep)
}
