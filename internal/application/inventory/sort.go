package inventory

import (
	"slices"
	"strings"

	"github.com/stockroom/backend/internal/domain/shared"
)

// sortKey maps a public sort key to a resolved field
type sortKey struct {
	field       FieldPath
	defaultDesc bool
}

// Sort key whitelists per resource
var (
	logSortKeys = map[string]sortKey{
		"date":     {field: FieldLogTimestamp, defaultDesc: true},
		"item":     {field: FieldDefName},
		"quantity": {field: FieldLogDelta},
		"staff":    {field: FieldStaffName},
		"category": {field: FieldCategoryName},
	}
	itemSortKeys = map[string]sortKey{
		"item":     {field: FieldDefName},
		"quantity": {field: FieldItemQuantity},
		"category": {field: FieldCategoryName},
		"assignee": {field: FieldAssigneeName},
	}
	defaultSortKey = map[Resource]string{
		ResourceLogs:  "date",
		ResourceItems: "item",
	}
)

// SortKeys returns the accepted sort keys of a resource
func SortKeys(r Resource) []string {
	keys := sortKeysOf(r)
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func sortKeysOf(r Resource) map[string]sortKey {
	if r == ResourceLogs {
		return logSortKeys
	}
	return itemSortKeys
}

// ResolveSort maps orderBy/order to a total order. Unknown keys and directions
// are rejected. The root's created_at and id are appended so rows with equal
// sort values keep one repeatable order across pages.
func ResolveSort(r Resource, orderBy, order string) ([]OrderTerm, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		orderBy = defaultSortKey[r]
	}
	key, ok := sortKeysOf(r)[orderBy]
	if !ok {
		return nil, shared.NewBadRequest("invalid sort key %q, allowed: %s", orderBy, strings.Join(SortKeys(r), ", "))
	}

	desc := key.defaultDesc
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
	case "asc":
		desc = false
	case "desc":
		desc = true
	default:
		return nil, shared.NewBadRequest("invalid sort order %q, allowed: asc, desc", order)
	}

	_, root := rootOf(r)
	return []OrderTerm{
		{Field: key.field, Desc: desc},
		{Field: FieldPath{root, "created_at"}},
		{Field: FieldPath{root, "id"}},
	}, nil
}
