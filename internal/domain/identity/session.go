package identity

import (
	"context"
	"time"
)

// PrincipalKind distinguishes the two identity spaces
type PrincipalKind string

const (
	PrincipalShopper  PrincipalKind = "shopper"
	PrincipalMerchant PrincipalKind = "merchant"
)

// IsValid reports whether k is a known principal kind
func (k PrincipalKind) IsValid() bool {
	return k == PrincipalShopper || k == PrincipalMerchant
}

// Session is a server-side login record keyed by the token's jti
type Session struct {
	ID          string        `json:"id"`
	PrincipalID string        `json:"principal_id"`
	Kind        PrincipalKind `json:"kind"`
	IssuedAt    time.Time     `json:"issued_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
}

// IsExpired reports whether the session has expired at now
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionStore persists sessions. Revoked or expired sessions are not returned.
type SessionStore interface {
	// Save stores a session until its expiry
	Save(ctx context.Context, session *Session) error

	// Get returns ErrSessionNotFound for unknown, revoked or expired sessions
	Get(ctx context.Context, id string) (*Session, error)

	// Revoke deletes a single session
	Revoke(ctx context.Context, id string) error

	// RevokeAll deletes every session of a principal except those in keep
	RevokeAll(ctx context.Context, kind PrincipalKind, principalID string, keep ...string) error
}
