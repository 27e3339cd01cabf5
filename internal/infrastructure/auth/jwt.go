package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrMissingTokenID   = errors.New("missing jti in claims")
	ErrUnknownKind      = errors.New("unknown principal kind in claims")
)

// Claims represents the storefront bearer token claims.
// Subject is the principal id and ID (jti) is the session id.
type Claims struct {
	jwt.RegisteredClaims
	Kind identity.PrincipalKind `json:"kind"`
}

// IssuedToken is a signed bearer token and the session it is bound to
type IssuedToken struct {
	Token     string    `json:"token"`
	SessionID string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Bearer
}

// Session returns the server-side session record for the token
func (t *IssuedToken) Session(principalID string, kind identity.PrincipalKind) *identity.Session {
	return &identity.Session{
		ID:          t.SessionID,
		PrincipalID: principalID,
		Kind:        kind,
		IssuedAt:    t.IssuedAt,
		ExpiresAt:   t.ExpiresAt,
	}
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// Issue signs a token for a principal with a fresh session id
func (s *JWTService) Issue(principalID string, kind identity.PrincipalKind) (*IssuedToken, error) {
	if principalID == "" {
		return nil, ErrMissingSubject
	}
	if !kind.IsValid() {
		return nil, ErrUnknownKind
	}

	now := s.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(s.expiration)
	jti := uuid.New().String()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   principalID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Kind: kind,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     token,
		SessionID: jti,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
		TokenType: "Bearer",
	}, nil
}

// Validate checks the signature, expiry and required claims of a token
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	if claims.ID == "" {
		return nil, ErrMissingTokenID
	}
	if !claims.Kind.IsValid() {
		return nil, ErrUnknownKind
	}

	return claims, nil
}
