package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer answers every request with the given status and body and
// remembers the last request it saw.
type recordingServer struct {
	*httptest.Server
	last *http.Request
}

func newRecordingServer(t *testing.T, status int, body any) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.last = r
		switch b := body.(type) {
		case string:
			w.Header().Set("Content-Type", "text/csv")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(b))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(b)
		}
	}))
	t.Cleanup(rs.Close)
	return rs
}

func newTestClient(t *testing.T, srv *recordingServer) *Client {
	t.Helper()
	c, err := New(srv.URL+"/", WithToken("tok-123"))
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"localhost:8080", "ftp://example.com", "://bad"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
	}
}

func TestQuery_Values(t *testing.T) {
	q := Query{Page: 2, Limit: 5, OrderBy: "date", Order: "asc", Search: " amy ", Internal: true}
	v := q.Values()

	assert.Equal(t, url.Values{
		"page":     {"2"},
		"limit":    {"5"},
		"orderBy":  {"date"},
		"order":    {"asc"},
		"search":   {"amy"},
		"internal": {"true"},
	}, v)

	assert.Equal(t, url.Values{"page": {"0"}}, Query{}.Values())
}

func TestQuery_Fingerprint(t *testing.T) {
	base := Query{OrderBy: "date", Order: "asc", Search: "amy"}

	otherPage := base
	otherPage.Page, otherPage.Limit = 3, 50
	assert.Equal(t, base.Fingerprint(), otherPage.Fingerprint(), "window does not change the fingerprint")

	for name, q := range map[string]Query{
		"sort key":  {OrderBy: "staff", Order: "asc", Search: "amy"},
		"direction": {OrderBy: "date", Order: "desc", Search: "amy"},
		"filter":    {OrderBy: "date", Order: "asc", Search: "bo"},
		"internal":  {OrderBy: "date", Order: "asc", Search: "amy", Internal: true},
	} {
		assert.NotEqual(t, base.Fingerprint(), q.Fingerprint(), name)
	}
}

func TestClient_ListLogs(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, dto.NewSuccessResponse(dto.Page[inventory.LogEntryView]{
		Data:  []inventory.LogEntryView{{QuantityDelta: -2, Staff: &inventory.User{Name: "Bo"}}},
		Total: 3,
	}))

	page, err := newTestClient(t, srv).ListLogs(context.Background(), Query{Page: 1, Limit: 2, Search: "bo"})
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Bo", page.Data[0].Staff.Name)

	assert.Equal(t, "/api/v1/logs", srv.last.URL.Path)
	assert.Equal(t, "1", srv.last.URL.Query().Get("page"))
	assert.Equal(t, "2", srv.last.URL.Query().Get("limit"))
	assert.Equal(t, "bo", srv.last.URL.Query().Get("search"))
	assert.Equal(t, "Bearer tok-123", srv.last.Header.Get("Authorization"))
}

func TestClient_GetItem(t *testing.T) {
	id := uuid.New()
	srv := newRecordingServer(t, http.StatusOK, dto.NewSuccessResponse(inventory.ItemView{Quantity: 6}))

	view, err := newTestClient(t, srv).GetItem(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 6, view.Quantity)
	assert.Equal(t, "/api/v1/items/"+id.String(), srv.last.URL.Path)
}

func TestClient_Errors(t *testing.T) {
	t.Run("failure envelope", func(t *testing.T) {
		srv := newRecordingServer(t, http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "log entry x not found"))

		_, err := newTestClient(t, srv).GetLog(context.Background(), uuid.New())
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "log entry x not found", apiErr.Message)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("validation details", func(t *testing.T) {
		srv := newRecordingServer(t, http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed",
			[]dto.ValidationDetail{{Field: "limit", Message: "Must be at most 1000"}}))

		_, err := newTestClient(t, srv).ListItems(context.Background(), Query{Limit: 5000})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, []dto.ValidationDetail{{Field: "limit", Message: "Must be at most 1000"}}, apiErr.Details)
	})

	t.Run("non-envelope error body", func(t *testing.T) {
		srv := newRecordingServer(t, http.StatusBadGateway, "<html>bad gateway</html>")

		_, err := newTestClient(t, srv).ListLogs(context.Background(), Query{})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, dto.ErrCodeInternal, apiErr.Code)
	})

	t.Run("malformed success body", func(t *testing.T) {
		srv := newRecordingServer(t, http.StatusOK, "not json")

		_, err := newTestClient(t, srv).ListLogs(context.Background(), Query{})
		assert.ErrorIs(t, err, ErrUnexpectedResponse)
	})

	t.Run("server unreachable", func(t *testing.T) {
		srv := newRecordingServer(t, http.StatusOK, "")
		c := newTestClient(t, srv)
		srv.Close()

		_, err := c.ListLogs(context.Background(), Query{})
		assert.Error(t, err)
	})
}

func TestClient_Export(t *testing.T) {
	csvBody := "Item,Category,Quantity,Assignee,Attributes,Internal\nHose,,2,,,false\n"
	srv := newRecordingServer(t, http.StatusOK, csvBody)

	var buf bytes.Buffer
	n, err := newTestClient(t, srv).ExportItems(context.Background(), Query{Page: 4, Search: "hose"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(csvBody)), n)
	assert.Equal(t, csvBody, buf.String())
	assert.Equal(t, "/api/v1/items/export", srv.last.URL.Path)

	limited := newRecordingServer(t, http.StatusTooManyRequests, dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests. Please try again later."))
	_, err = newTestClient(t, limited).ExportLogs(context.Background(), Query{}, &buf)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, dto.ErrCodeRateLimited, apiErr.Code)
}
