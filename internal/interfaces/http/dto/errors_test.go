package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorCodes_MatchDomainErrors(t *testing.T) {
	assert.Equal(t, shared.ErrNotFound.Code, ErrCodeNotFound)
	assert.Equal(t, shared.ErrAlreadyExists.Code, ErrCodeAlreadyExists)
	assert.Equal(t, shared.ErrInvalidInput.Code, ErrCodeInvalidInput)
	assert.Equal(t, shared.ErrBadRequest.Code, ErrCodeBadRequest)
	assert.Equal(t, shared.ErrUnauthenticated.Code, ErrCodeUnauthorized)
	assert.Equal(t, shared.ErrServerError.Code, ErrCodeInternal)
}

func TestResponse_JSON(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{
			name: "page",
			resp: NewSuccessResponse(Page[string]{Data: []string{"a"}, Total: 3}),
			want: `{"success":true,"payload":{"data":["a"],"total":3}}`,
		},
		{
			name: "empty page keeps data array",
			resp: NewSuccessResponse(Page[string]{Data: []string{}, Total: 3}),
			want: `{"success":true,"payload":{"data":[],"total":3}}`,
		},
		{
			name: "error",
			resp: NewErrorResponse(ErrCodeNotFound, "log entry not found"),
			want: `{"success":false,"code":"NOT_FOUND","message":"log entry not found"}`,
		},
		{
			name: "validation",
			resp: NewValidationErrorResponse("Request validation failed", []ValidationDetail{{Field: "limit", Message: "Must be at most 1000"}}),
			want: `{"success":false,"code":"BAD_REQUEST","message":"Request validation failed","details":[{"field":"limit","message":"Must be at most 1000"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.resp)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestEnvelope_Decode(t *testing.T) {
	var env Envelope[Page[int]]
	require.NoError(t, json.Unmarshal([]byte(`{"success":true,"payload":{"data":[1,2],"total":12}}`), &env))
	assert.True(t, env.Success)
	assert.Equal(t, []int{1, 2}, env.Payload.Data)
	assert.Equal(t, int64(12), env.Payload.Total)
}
