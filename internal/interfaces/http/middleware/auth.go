package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Gin context keys set by SessionAuth
const (
	SessionKey       = "session"
	PrincipalIDKey   = "principal_id"
	PrincipalKindKey = "principal_kind"
)

// Authenticator resolves a bearer token to its live session
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.Session, error)
}

// SessionAuth rejects requests without a live session of the given kind.
// A valid token of the other kind is answered with 403.
func SessionAuth(kind identity.PrincipalKind, authn Authenticator, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authorization header is required")
			return
		}

		session, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				abortAuth(c, http.StatusUnauthorized, dto.NormalizeErrorCode(de.Code), de.Message)
				return
			}
			logger.Enrich(c.Request.Context(), l).Error("session lookup failed", zap.Error(err))
			abortAuth(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Session store unavailable")
			return
		}

		if session.Kind != kind {
			abortAuth(c, http.StatusForbidden, dto.ErrCodeForbidden, "Token is not valid for this resource")
			return
		}

		c.Set(SessionKey, session)
		c.Set(PrincipalIDKey, session.PrincipalID)
		c.Set(PrincipalKindKey, string(session.Kind))

		ctx, _ := logger.WithPrincipal(c.Request.Context(), logger.FromContext(c.Request.Context()), string(session.Kind), session.PrincipalID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetSession returns the session set by SessionAuth
func GetSession(c *gin.Context) *identity.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*identity.Session); ok {
			return s
		}
	}
	return nil
}

// GetPrincipalID returns the authenticated principal's id
func GetPrincipalID(c *gin.Context) string {
	return c.GetString(PrincipalIDKey)
}

// GetSessionID returns the id of the current session
func GetSessionID(c *gin.Context) string {
	if s := GetSession(c); s != nil {
		return s.ID
	}
	return ""
}
