// Package client is a typed HTTP client for the stockroom read API, plus a
// Pager that serves revisited page windows from a local cache.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

const (
	defaultTimeout = 30 * time.Second
	// maxResponseSize caps JSON bodies; CSV exports are streamed and not capped
	maxResponseSize = 64 << 20
)

// ErrUnexpectedResponse is returned when a body is not a valid envelope
var ErrUnexpectedResponse = errors.New("client: unexpected response")

// APIError is a failure envelope returned by the server.
// It unwraps to the matching domain error, so errors.Is(err, shared.ErrNotFound) works.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []dto.ValidationDetail
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return shared.NewDomainError(e.Code, e.Message)
}

// Query is one list request: a window, a sort and the optional filters
type Query struct {
	Page      int
	Limit     int // 0 leaves the server default
	OrderBy   string
	Order     string
	Search    string
	Category  string
	StartDate string
	EndDate   string
	Internal  bool
}

// Values encodes the query as URL parameters, omitting unset fields
func (q Query) Values() url.Values {
	v := q.filterValues()
	v.Set("page", strconv.Itoa(q.Page))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.OrderBy != "" {
		v.Set("orderBy", q.OrderBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

// FilterKey is a canonical encoding of the filters alone, without window or sort
func (q Query) FilterKey() string {
	return q.filterValues().Encode()
}

// Fingerprint identifies the filter and sort state. Two queries with the same
// fingerprint address windows of the same ordered result set.
func (q Query) Fingerprint() string {
	return q.OrderBy + "|" + q.Order + "|" + q.FilterKey()
}

func (q Query) filterValues() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(key, val)
		}
	}
	set("search", q.Search)
	set("category", q.Category)
	set("startDate", q.StartDate)
	set("endDate", q.EndDate)
	if q.Internal {
		v.Set("internal", "true")
	}
	return v
}

// Client calls the stockroom read API
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithToken sends the bearer token on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the server at baseURL, e.g. http://localhost:8080
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base URL %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListLogs fetches one page of the activity log
func (c *Client) ListLogs(ctx context.Context, q Query) (*dto.Page[inventory.LogEntryView], error) {
	var page dto.Page[inventory.LogEntryView]
	if err := c.getJSON(ctx, "/api/v1/logs", q.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetLog fetches one activity log entry
func (c *Client) GetLog(ctx context.Context, id uuid.UUID) (*inventory.LogEntryView, error) {
	var view inventory.LogEntryView
	if err := c.getJSON(ctx, "/api/v1/logs/"+id.String(), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListItems fetches one page of inventory items
func (c *Client) ListItems(ctx context.Context, q Query) (*dto.Page[inventory.ItemView], error) {
	var page dto.Page[inventory.ItemView]
	if err := c.getJSON(ctx, "/api/v1/items", q.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetItem fetches one inventory item
func (c *Client) GetItem(ctx context.Context, id uuid.UUID) (*inventory.ItemView, error) {
	var view inventory.ItemView
	if err := c.getJSON(ctx, "/api/v1/items/"+id.String(), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ExportLogs streams the CSV export of the filtered activity log to w
func (c *Client) ExportLogs(ctx context.Context, q Query, w io.Writer) (int64, error) {
	return c.export(ctx, "/api/v1/logs/export", q, w)
}

// ExportItems streams the CSV export of the filtered inventory to w
func (c *Client) ExportItems(ctx context.Context, q Query, w io.Writer) (int64, error) {
	return c.export(ctx, "/api/v1/items/export", q, w)
}

func (c *Client) export(ctx context.Context, path string, q Query, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, path, q.Values())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, decodeFailure(resp)
	}
	return io.Copy(w, resp.Body)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, payload any) error {
	resp, err := c.do(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeFailure(resp)
	}

	env := dto.Envelope[json.RawMessage]{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&env); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message, Details: env.Details}
	}
	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: GET %s: %w", path, err)
	}
	return resp, nil
}

// decodeFailure turns a non-2xx response into an APIError. Bodies that are not
// envelopes, such as a proxy's error page, keep the status and a generic code.
func decodeFailure(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       dto.ErrCodeInternal,
		Message:    http.StatusText(resp.StatusCode),
	}

	var env dto.Envelope[json.RawMessage]
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&env); err == nil && env.Code != "" {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
		apiErr.Details = env.Details
	}
	return apiErr
}
