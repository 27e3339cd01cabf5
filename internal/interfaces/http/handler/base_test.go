package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func serve(h gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Handle(req.Method, req.URL.Path, func(c *gin.Context) {
		c.Set(logger.GinRequestIDKey, "req-1")
		h(c)
	})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		contains string
	}{
		{"not found suffix", shared.NewDomainError("ITEM_NOT_FOUND", "Product not found"), http.StatusNotFound, "ERR_ITEM_NOT_FOUND", "Product"},
		{"legacy code", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, ""},
		{"duplicate", shared.NewDomainError("DUPLICATE_EMAIL", "Email already registered"), http.StatusBadRequest, "ERR_DUPLICATE_EMAIL", "Email"},
		{"wrapped", fmt.Errorf("checkout: %w", shared.NewDomainError("EMPTY_ORDER", "empty")), http.StatusBadRequest, dto.ErrCodeEmptyOrder, "empty"},
		{"forbidden", shared.NewDomainError("FORBIDDEN", "not yours"), http.StatusForbidden, dto.ErrCodeForbidden, "not yours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h BaseHandler
			w := serve(func(c *gin.Context) { h.HandleError(c, tt.err) }, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.Contains(t, resp.Error.Message, tt.contains)
		})
	}
}

func TestHandleError_UnknownErrorIsHidden(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	var h BaseHandler
	w := serve(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), zap.New(core)))
		h.HandleError(c, errors.New("pq: connection refused"))
	}, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "pq")

	require.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestHandleError_Nil(t *testing.T) {
	var h BaseHandler
	w := serve(func(c *gin.Context) {
		h.HandleError(c, nil)
		c.Status(http.StatusNoContent)
	}, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBindJSON_WritesValidationError(t *testing.T) {
	var h BaseHandler
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	called := false
	w := serve(func(c *gin.Context) {
		if !h.BindJSON(c, &req) {
			return
		}
		called = true
	}, httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decodeResponse(t, w).Success)
}
