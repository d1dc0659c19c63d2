package inventory

import (
	"math"
	"strings"
	"time"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Default window sizes per resource
const (
	DefaultLogLimit  = 20
	DefaultItemLimit = 25
	MaxLimit         = 1000
)

// ListParams holds the pagination and sort parameters shared by every list endpoint
type ListParams struct {
	Page    *int   `form:"page" binding:"omitempty,min=0"`
	Limit   *int   `form:"limit" binding:"omitempty,min=1,max=1000"`
	OrderBy string `form:"orderBy"`
	Order   string `form:"order"`
}

// LogListFilter represents filter options for the activity log list
type LogListFilter struct {
	ListParams
	Search    string `form:"search"`
	Category  string `form:"category"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Internal  bool   `form:"-"`
}

// ItemListFilter represents filter options for the inventory item list
type ItemListFilter struct {
	ListParams
	Search   string `form:"search"`
	Category string `form:"category"`
	Internal bool   `form:"-"`
}

// Window is a zero-based page of a given size
type Window struct {
	Page  int
	Limit int
}

// Offset returns the index of the window's first row. It saturates at
// math.MaxInt so a page too large to address stays past the end.
func (w Window) Offset() int {
	if w.Limit > 0 && w.Page > math.MaxInt/w.Limit {
		return math.MaxInt
	}
	return w.Page * w.Limit
}

// window resolves the request window, applying the resource default limit
func (p ListParams) window(defaultLimit int) (Window, error) {
	w := Window{Page: 0, Limit: defaultLimit}
	if p.Page != nil {
		w.Page = *p.Page
	}
	if p.Limit != nil {
		w.Limit = *p.Limit
	}
	if w.Page < 0 {
		return Window{}, shared.NewBadRequest("page must be zero or greater")
	}
	if w.Limit < 1 || w.Limit > MaxLimit {
		return Window{}, shared.NewBadRequest("limit must be between 1 and %d", MaxLimit)
	}
	return w, nil
}

// dateRange is an inclusive range of calendar days in UTC
type dateRange struct {
	From  *time.Time // first instant included
	Until *time.Time // first instant excluded
}

// parseDateRange parses inclusive startDate/endDate bounds
func parseDateRange(start, end string) (dateRange, error) {
	var r dateRange
	if s := strings.TrimSpace(start); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return r, shared.NewBadRequest("startDate %q is not a valid date", s)
		}
		r.From = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return r, shared.NewBadRequest("endDate %q is not a valid date", s)
		}
		until := t.AddDate(0, 0, 1)
		r.Until = &until
	}
	return r, nil
}

// parseDate parses a date in the accepted formats and truncates it to the UTC day
func parseDate(s string) (time.Time, error) {
	layouts := []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, err
}
