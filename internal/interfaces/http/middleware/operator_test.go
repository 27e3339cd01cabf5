package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestOperatorAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		want       int
	}{
		{"matching key", "op-secret", "op-secret", http.StatusOK},
		{"missing key", "op-secret", "", http.StatusUnauthorized},
		{"wrong key", "op-secret", "guess", http.StatusForbidden},
		{"disabled", "", "anything", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(OperatorAuth(tt.configured))
			router.GET("/ops", okHandler)

			req := httptest.NewRequest(http.MethodGet, "/ops", nil)
			if tt.sent != "" {
				req.Header.Set(OperatorKeyHeader, tt.sent)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
