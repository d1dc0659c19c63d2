package persistence

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// identPattern matches the table, alias and column names a plan may reference
var identPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// likeEscaper escapes LIKE wildcards in user input; '\' is the escape character
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PlanExecutor compiles read plans to SQL: LEFT JOINs for the join steps, a
// WHERE clause per predicate, ORDER BY for the total order and LIMIT/OFFSET
// for the window. Only live root rows are selected; joined rows are matched
// whether or not they are soft-deleted.
type PlanExecutor struct {
	db *gorm.DB
}

// NewPlanExecutor creates a new PlanExecutor
func NewPlanExecutor(db *gorm.DB) *PlanExecutor {
	return &PlanExecutor{db: db}
}

// Select returns the ordered root ids of the plan's window
func (e *PlanExecutor) Select(ctx context.Context, plan inventoryapp.Plan) ([]uuid.UUID, error) {
	q, err := e.query(ctx, plan, plan.SelectJoins())
	if err != nil {
		return nil, err
	}
	orderBy, err := compileOrder(plan)
	if err != nil {
		return nil, err
	}
	q = q.Order(orderBy)
	if w := plan.Window; w != nil {
		q = q.Limit(w.Limit).Offset(w.Offset())
	}

	ids := []uuid.UUID{}
	if err := q.Pluck(plan.RootAlias+".id", &ids).Error; err != nil {
		return nil, shared.WrapServerError("select "+string(plan.Resource), err)
	}
	return ids, nil
}

// Count returns the size of the filtered set
func (e *PlanExecutor) Count(ctx context.Context, plan inventoryapp.Plan) (int64, error) {
	q, err := e.query(ctx, plan, plan.CountJoins())
	if err != nil {
		return 0, err
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, shared.WrapServerError("count "+string(plan.Resource), err)
	}
	return total, nil
}

// query builds the FROM, JOIN and WHERE clauses shared by Select and Count
func (e *PlanExecutor) query(ctx context.Context, plan inventoryapp.Plan, joins []inventoryapp.JoinStep) (*gorm.DB, error) {
	if err := checkIdents(plan.Root, plan.RootAlias); err != nil {
		return nil, err
	}
	q := e.db.WithContext(ctx).
		Table(plan.Root + " AS " + plan.RootAlias).
		Where(plan.RootAlias + ".deleted_at IS NULL")

	for _, j := range joins {
		if err := checkIdents(j.Collection, j.As, j.From, j.LocalKey); err != nil {
			return nil, err
		}
		q = q.Joins(fmt.Sprintf("LEFT JOIN %s AS %s ON %s.id = %s.%s", j.Collection, j.As, j.As, j.From, j.LocalKey))
	}

	for _, p := range plan.Predicates {
		sql, args, err := compilePredicate(p)
		if err != nil {
			return nil, err
		}
		q = q.Where(sql, args...)
	}
	return q, nil
}

// compilePredicate renders one predicate as an OR group
func compilePredicate(p inventoryapp.Predicate) (string, []any, error) {
	if len(p.AnyOf) == 0 {
		return "", nil, shared.NewBadRequest("empty predicate")
	}
	parts := make([]string, 0, len(p.AnyOf))
	args := make([]any, 0, len(p.AnyOf))
	for _, c := range p.AnyOf {
		if err := checkIdents(c.Field.Alias, c.Field.Column); err != nil {
			return "", nil, err
		}
		col := c.Field.String()
		switch c.Op {
		case inventoryapp.OpEq:
			parts = append(parts, col+" = ?")
			args = append(args, c.Value)
		case inventoryapp.OpContainsFold:
			s, ok := c.Value.(string)
			if !ok {
				return "", nil, shared.NewBadRequest("search value must be text")
			}
			parts = append(parts, "LOWER("+col+`) LIKE LOWER(?) ESCAPE '\'`)
			args = append(args, "%"+likeEscaper.Replace(s)+"%")
		case inventoryapp.OpGTE:
			parts = append(parts, col+" >= ?")
			args = append(args, c.Value)
		case inventoryapp.OpLT:
			parts = append(parts, col+" < ?")
			args = append(args, c.Value)
		case inventoryapp.OpIsTrue:
			parts = append(parts, col+" = ?")
			args = append(args, true)
		default:
			return "", nil, shared.NewBadRequest("unsupported operator %q", c.Op)
		}
	}
	if len(parts) == 1 {
		return parts[0], args, nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args, nil
}

// compileOrder renders the ORDER BY list. Fields reached through a join may be
// NULL when the reference is unset; those rows sort last in either direction.
func compileOrder(plan inventoryapp.Plan) (string, error) {
	terms := make([]string, 0, len(plan.Order)*2)
	for _, o := range plan.Order {
		if err := checkIdents(o.Field.Alias, o.Field.Column); err != nil {
			return "", err
		}
		col := o.Field.String()
		if o.Field.Alias != plan.RootAlias {
			terms = append(terms, fmt.Sprintf("CASE WHEN %s IS NULL THEN 1 ELSE 0 END", col))
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	return strings.Join(terms, ", "), nil
}

func checkIdents(idents ...string) error {
	for _, id := range idents {
		if !identPattern.MatchString(id) {
			return shared.NewBadRequest("invalid identifier %q in read plan", id)
		}
	}
	return nil
}
