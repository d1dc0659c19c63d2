package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func() error

func (f pingFunc) Ping() error { return f() }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name       string
		ping       error
		wantStatus int
		wantBody   map[string]string
	}{
		{"healthy", nil, http.StatusOK, map[string]string{"status": "healthy", "database": "ok"}},
		{"database down", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "unreachable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(pingFunc(func() error { return tt.ping }))
			c, w := newTestContext("/api/v1/health")

			h.Check(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for k, v := range tt.wantBody {
				assert.Equal(t, v, body[k], k)
			}
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}
