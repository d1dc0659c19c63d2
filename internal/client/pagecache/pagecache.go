// Package pagecache keeps the rows of previously fetched page windows for one
// filter and sort state, so revisiting a window needs no network round-trip.
//
// The cache is a sparse array sized to the result total with a populated bit
// per slot. It is never a source of truth: any doubt reports "not cached".
// A Cache is not safe for concurrent use; callers serialize access.
package pagecache

import "math"

// MaxSlots bounds the rows a cache will hold. A result set larger than this is
// bound but never cached, so every window of it is fetched.
const MaxSlots = 1 << 20

// Cache is a sparse, index-addressed cache of one ordered result set
type Cache[T any] struct {
	rows      []T
	populated []uint64

	synced    bool
	oversized bool
	total     int
	orderBy   string
	order     string
	filterKey string
}

// New returns an empty cache. It caches nothing until the first Sync.
func New[T any]() *Cache[T] {
	return &Cache[T]{}
}

// Sync binds the cache to a result set. When total, sort key, sort direction or
// filter differ from the bound state every slot is dropped and Sync reports true.
func (c *Cache[T]) Sync(total int, orderBy, order, filterKey string) bool {
	if total < 0 {
		total = 0
	}
	if c.synced && c.total == total && c.orderBy == orderBy && c.order == order && c.filterKey == filterKey {
		return false
	}

	c.synced = true
	c.total = total
	c.orderBy = orderBy
	c.order = order
	c.filterKey = filterKey
	c.oversized = total > MaxSlots
	if c.oversized {
		c.rows, c.populated = nil, nil
		return true
	}
	c.rows = make([]T, total)
	c.populated = make([]uint64, (total+63)/64)
	return true
}

// Reset drops every slot and unbinds the cache
func (c *Cache[T]) Reset() {
	*c = Cache[T]{}
}

// Total returns the size of the bound result set
func (c *Cache[T]) Total() int {
	return c.total
}

// Update writes data[i] to absolute slot page*limit+i. Rows beyond the window or
// past the total are ignored, as is an invalid window.
func (c *Cache[T]) Update(data []T, page, limit int) {
	start, end, ok := c.window(page, limit)
	if !ok {
		return
	}
	for i, row := range data {
		idx := start + i
		if idx >= end {
			break
		}
		c.rows[idx] = row
		c.populated[idx/64] |= 1 << (uint(idx) % 64)
	}
}

// IsCached reports whether every slot of the window, clipped to the total, is populated.
// Windows that are invalid, empty or outside the result set are never cached.
func (c *Cache[T]) IsCached(page, limit int) bool {
	start, end, ok := c.window(page, limit)
	if !ok {
		return false
	}
	for idx := start; idx < end; idx++ {
		if c.populated[idx/64]&(1<<(uint(idx)%64)) == 0 {
			return false
		}
	}
	return true
}

// CacheFor returns a copy of the window's rows, clipped to the total.
// Unpopulated slots hold zero values; check IsCached first.
func (c *Cache[T]) CacheFor(page, limit int) []T {
	start, end, ok := c.window(page, limit)
	if !ok {
		return []T{}
	}
	out := make([]T, end-start)
	copy(out, c.rows[start:end])
	return out
}

// window returns the clipped slot range [start, end) of a page.
// ok is false for an unsynced or oversized cache, a malformed window or one that
// starts past the total.
func (c *Cache[T]) window(page, limit int) (start, end int, ok bool) {
	if !c.synced || c.oversized || page < 0 || limit <= 0 {
		return 0, 0, false
	}
	if page > math.MaxInt/limit {
		return 0, 0, false
	}
	start = page * limit
	if start >= c.total {
		return 0, 0, false
	}
	end = c.total
	if limit < end-start {
		end = start + limit
	}
	return start, end, true
}
