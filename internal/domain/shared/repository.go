package shared

// Paginated is the result of a paged read: one window of rows plus the
// cardinality of the whole filtered set.
type Paginated[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// NewPaginated creates a new paginated result. A nil slice is normalized to an
// empty one so the JSON payload always carries an array.
func NewPaginated[T any](data []T, total int64) *Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return &Paginated[T]{
		Data:  data,
		Total: total,
	}
}

// TotalPages returns the number of windows of the given size needed to cover Total
func (p Paginated[T]) TotalPages(limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(p.Total) / limit
	if int(p.Total)%limit > 0 {
		pages++
	}
	return pages
}
