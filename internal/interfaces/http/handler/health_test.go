package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func TestHealthHandler_Ready(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	t.Run("all checks pass", func(t *testing.T) {
		h := NewHealthHandler("1.0.0", map[string]Pinger{"database": ok})
		w := serve(h.Ready, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("failing check answers 503", func(t *testing.T) {
		h := NewHealthHandler("1.0.0", map[string]Pinger{"database": ok, "redis": down})
		w := serve(h.Ready, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body struct {
			Success bool           `json:"success"`
			Data    HealthResponse `json:"data"`
			Error   dto.ErrorInfo  `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, dto.ErrCodeUnavailable, body.Error.Code)
		assert.Equal(t, "not_ready", body.Data.Status)
		assert.Equal(t, map[string]string{"database": "ok", "redis": "unavailable"}, body.Data.Checks)
	})
}

func TestHealthHandler_HealthAndLive(t *testing.T) {
	h := NewHealthHandler("1.2.3", nil)

	w := serve(h.Health, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Data.Status)
	assert.Equal(t, "1.2.3", body.Data.Version)

	w = serve(h.Live, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
