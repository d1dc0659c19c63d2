package client

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/stockroom/backend/internal/client/pagecache"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// ErrStaleResponse is returned for a fetch that completed after the pager moved
// on to a different filter or sort. Its rows are never written to the cache.
var ErrStaleResponse = errors.New("client: stale response discarded")

// FetchFunc loads one page window from the server
type FetchFunc[T any] func(ctx context.Context, q Query) (*dto.Page[T], error)

// Result is one page window and the size of the whole result set
type Result[T any] struct {
	Data   []T
	Total  int
	Cached bool
}

// PagerStats counts cache hits and server fetches
type PagerStats struct {
	Hits    int64
	Fetches int64
	Stale   int64
}

// Pager serves page windows for the current filter and sort, answering
// revisited windows from a page cache.
//
// Every Load tags its fetch with the generation of the state it was issued
// under. Changing the filter or sort starts a new generation, so a slower
// response for an abandoned state is discarded instead of cached. Network calls
// run outside the lock.
type Pager[T any] struct {
	fetch FetchFunc[T]

	mu          sync.Mutex
	cache       *pagecache.Cache[T]
	fingerprint string
	generation  uint64

	hits    atomic.Int64
	fetches atomic.Int64
	stale   atomic.Int64
}

// NewPager creates a Pager over fetch
func NewPager[T any](fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{
		fetch: fetch,
		cache: pagecache.New[T](),
	}
}

// NewLogPager pages through the activity log
func NewLogPager(c *Client) *Pager[inventory.LogEntryView] {
	return NewPager[inventory.LogEntryView](c.ListLogs)
}

// NewItemPager pages through the inventory
func NewItemPager(c *Client) *Pager[inventory.ItemView] {
	return NewPager[inventory.ItemView](c.ListItems)
}

// Load returns the window q addresses, from the cache when every row of it is known.
// A query with a new fingerprint drops the cache and supersedes in-flight loads.
func (p *Pager[T]) Load(ctx context.Context, q Query) (*Result[T], error) {
	fp := q.Fingerprint()

	p.mu.Lock()
	if fp != p.fingerprint {
		p.fingerprint = fp
		p.generation++
		p.cache.Reset()
	}
	gen := p.generation
	if q.Limit > 0 && p.cache.IsCached(q.Page, q.Limit) {
		res := &Result[T]{Data: p.cache.CacheFor(q.Page, q.Limit), Total: p.cache.Total(), Cached: true}
		p.mu.Unlock()
		p.hits.Add(1)
		return res, nil
	}
	p.mu.Unlock()

	p.fetches.Add(1)
	page, err := p.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		p.stale.Add(1)
		return nil, ErrStaleResponse
	}

	total := clampTotal(page.Total)
	p.cache.Sync(total, q.OrderBy, q.Order, q.FilterKey())
	if q.Limit > 0 {
		p.cache.Update(page.Data, q.Page, q.Limit)
	}
	return &Result[T]{Data: page.Data, Total: total}, nil
}

// clampTotal narrows a server-reported total to an int without wrapping
func clampTotal(total int64) int {
	switch {
	case total < 0:
		return 0
	case uint64(total) > uint64(math.MaxInt):
		return math.MaxInt
	default:
		return int(total)
	}
}

// Invalidate drops every cached window and supersedes in-flight loads
func (p *Pager[T]) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.cache.Reset()
}

// Stats returns the hit, fetch and stale counters
func (p *Pager[T]) Stats() PagerStats {
	return PagerStats{
		Hits:    p.hits.Load(),
		Fetches: p.fetches.Load(),
		Stale:   p.stale.Load(),
	}
}
