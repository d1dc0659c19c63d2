package inventory

import (
	"slices"
)

// Resource names a listable read model
type Resource string

const (
	ResourceLogs  Resource = "logs"
	ResourceItems Resource = "items"
)

// Operator is a predicate comparison
type Operator string

const (
	OpEq           Operator = "eq"
	OpContainsFold Operator = "contains_fold"
	OpGTE          Operator = "gte"
	OpLT           Operator = "lt"
	OpIsTrue       Operator = "is_true"
)

// FieldPath is a column reached through a join alias, e.g. def.name
type FieldPath struct {
	Alias  string
	Column string
}

// String returns the qualified column reference
func (f FieldPath) String() string {
	return f.Alias + "." + f.Column
}

// JoinStep resolves one single-valued reference. Steps are ordered: From is
// either the plan root or the alias of an earlier step.
type JoinStep struct {
	Collection string // target table
	As         string // alias of the joined row
	From       string // alias holding the foreign key
	LocalKey   string // foreign key column on From
}

// Condition compares one resolved field with a value
type Condition struct {
	Field FieldPath
	Op    Operator
	Value any
}

// Predicate matches when any of its conditions match. A plan's predicates are ANDed.
type Predicate struct {
	AnyOf []Condition
}

// OrderTerm is one ORDER BY term
type OrderTerm struct {
	Field FieldPath
	Desc  bool
}

// Plan is a datastore-independent description of a read: the root collection,
// the joins that resolve references for filtering and sorting, the predicates,
// the total order and an optional window.
type Plan struct {
	Resource   Resource
	Root       string
	RootAlias  string
	Joins      []JoinStep
	Predicates []Predicate
	Order      []OrderTerm
	Window     *Window
}

// Unbounded returns a copy of the plan without its window
func (p Plan) Unbounded() Plan {
	p.Window = nil
	return p
}

// SelectJoins returns the joins needed to filter and order the page query
func (p Plan) SelectJoins() []JoinStep {
	fields := p.predicateFields()
	for _, o := range p.Order {
		fields = append(fields, o.Field)
	}
	return p.requiredJoins(fields)
}

// CountJoins returns the joins needed to count the filtered set. Sort-only joins
// are dropped: every join is single-valued and LEFT, so it never changes cardinality.
func (p Plan) CountJoins() []JoinStep {
	return p.requiredJoins(p.predicateFields())
}

func (p Plan) predicateFields() []FieldPath {
	var fields []FieldPath
	for _, pred := range p.Predicates {
		for _, c := range pred.AnyOf {
			fields = append(fields, c.Field)
		}
	}
	return fields
}

// requiredJoins keeps the steps referenced by fields plus the steps they hang from,
// preserving plan order.
func (p Plan) requiredJoins(fields []FieldPath) []JoinStep {
	byAlias := make(map[string]JoinStep, len(p.Joins))
	for _, j := range p.Joins {
		byAlias[j.As] = j
	}

	needed := make(map[string]bool)
	var mark func(alias string)
	mark = func(alias string) {
		j, ok := byAlias[alias]
		if !ok || needed[alias] {
			return
		}
		needed[alias] = true
		mark(j.From)
	}
	for _, f := range fields {
		mark(f.Alias)
	}

	return slices.DeleteFunc(slices.Clone(p.Joins), func(j JoinStep) bool {
		return !needed[j.As]
	})
}
