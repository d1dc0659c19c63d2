package inventory

import (
	"strings"
	"time"
)

// Filter is the normalized set of optional list filters. Zero values mean "not supplied".
type Filter struct {
	Search   string
	Category string
	From     *time.Time // inclusive
	Until    *time.Time // exclusive
	Internal bool
}

// searchFields lists the fields a free-text search matches, per resource
var searchFields = map[Resource][]FieldPath{
	ResourceLogs:  {FieldDefName, FieldCategoryName, FieldAssigneeName, FieldStaffName, FieldStaffEmail},
	ResourceItems: {FieldDefName, FieldCategoryName, FieldAssigneeName},
}

// ComposeFilters turns the supplied filters into predicates. Each supplied filter
// adds one predicate; absent filters add nothing. Date bounds only apply to logs.
func ComposeFilters(r Resource, f Filter) []Predicate {
	var preds []Predicate

	if s := strings.TrimSpace(f.Search); s != "" {
		fields := searchFields[r]
		conds := make([]Condition, 0, len(fields))
		for _, field := range fields {
			conds = append(conds, Condition{Field: field, Op: OpContainsFold, Value: s})
		}
		preds = append(preds, Predicate{AnyOf: conds})
	}

	if c := strings.TrimSpace(f.Category); c != "" {
		preds = append(preds, single(FieldCategoryName, OpEq, c))
	}

	if r == ResourceLogs {
		if f.From != nil {
			preds = append(preds, single(FieldLogTimestamp, OpGTE, *f.From))
		}
		if f.Until != nil {
			preds = append(preds, single(FieldLogTimestamp, OpLT, *f.Until))
		}
	}

	if f.Internal {
		preds = append(preds, single(FieldDefInternal, OpIsTrue, true))
	}

	return preds
}

func single(field FieldPath, op Operator, value any) Predicate {
	return Predicate{AnyOf: []Condition{{Field: field, Op: op, Value: value}}}
}
