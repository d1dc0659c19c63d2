package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext("/")

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"payload":{"key":"value"}}`, w.Body.String())
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		method       func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "BadRequest",
			method:       func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "Invalid request") },
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeBadRequest,
		},
		{
			name:         "NotFound",
			method:       func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "Resource not found") },
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")
			tt.method(&BaseHandler{}, c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Code)
		})
	}
}

func TestBaseHandlerValidationError(t *testing.T) {
	type query struct {
		Limit *int `form:"limit" binding:"omitempty,min=1"`
	}

	t.Run("validator failure carries details", func(t *testing.T) {
		c, w := newTestContext("/?limit=0")
		var q query
		err := c.ShouldBindQuery(&q)
		require.Error(t, err)

		(&BaseHandler{}).ValidationError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Code)
		assert.Equal(t, []dto.ValidationDetail{{Field: "limit", Message: "Must be at least 1"}}, resp.Details)
	})

	t.Run("conversion failure has a message only", func(t *testing.T) {
		c, w := newTestContext("/?limit=many")
		var q query
		err := c.ShouldBindQuery(&q)
		require.Error(t, err)

		(&BaseHandler{}).ValidationError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Code)
		assert.Equal(t, "Invalid query parameters", resp.Message)
		assert.Empty(t, resp.Details)
	})
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
		expectedMsg  string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists, "Resource already exists"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid input provided"},
		{"bad request", shared.NewBadRequest("invalid sort key %q", "price"), http.StatusBadRequest, dto.ErrCodeBadRequest, `invalid sort key "price"`},
		{"unauthenticated", shared.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required"},
		{"server error hides cause", shared.WrapServerError("select", errors.New("pq: connection reset")), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
		{"wrapped domain error", fmt.Errorf("additional context: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"standard error", assert.AnError, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")
			(&BaseHandler{}).HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Code)
			assert.Equal(t, tt.expectedMsg, resp.Message)
			assert.Nil(t, resp.Payload)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext("/")
		(&BaseHandler{}).HandleError(c, nil)
		assert.Zero(t, w.Body.Len())
	})
}

func TestParseID(t *testing.T) {
	c, _ := newTestContext("/")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, err := parseID(c, "log entry")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "log entry not-a-uuid not found", err.Error())
}

func TestInternalFlag(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", false},
		{"internal", true},
		{"internal=", true},
		{"internal=true", true},
		{"internal=1", true},
		{"internal=false", false},
		{"search=internal", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := newTestContext("/api/v1/items?" + tt.query)
			assert.Equal(t, tt.want, internalFlag(c))
		})
	}
}
