package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// OperatorKeyHeader carries the shared secret for operator endpoints
const OperatorKeyHeader = "X-Operator-Key"

// OperatorAuth guards operator endpoints with a shared key.
// With no key configured every request is refused.
func OperatorAuth(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			abortAuth(c, http.StatusForbidden, dto.ErrCodeForbidden, "Operator access is disabled")
			return
		}
		got := c.GetHeader(OperatorKeyHeader)
		if got == "" {
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Operator key is required")
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			abortAuth(c, http.StatusForbidden, dto.ErrCodeForbidden, "Invalid operator key")
			return
		}
		c.Next()
	}
}
