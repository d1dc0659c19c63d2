package inventory

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func aliases(steps []JoinStep) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.As)
	}
	return out
}

func TestJoinSteps(t *testing.T) {
	t.Run("logs reach definition and category through the item", func(t *testing.T) {
		steps := JoinSteps(ResourceLogs)
		assert.Equal(t, []string{AliasItem, AliasDef, AliasCategory, AliasAssignee, AliasStaff}, aliases(steps))

		seen := map[string]bool{AliasLog: true}
		for _, s := range steps {
			assert.True(t, seen[s.From], "step %s joins from unknown alias %s", s.As, s.From)
			seen[s.As] = true
		}
	})

	t.Run("items have no staff join", func(t *testing.T) {
		assert.Equal(t, []string{AliasDef, AliasCategory, AliasAssignee}, aliases(JoinSteps(ResourceItems)))
	})
}

func TestComposeFilters(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("no filters add no predicates", func(t *testing.T) {
		assert.Empty(t, ComposeFilters(ResourceLogs, Filter{}))
		assert.Empty(t, ComposeFilters(ResourceItems, Filter{Search: "   "}))
	})

	t.Run("log search ORs over five fields", func(t *testing.T) {
		preds := ComposeFilters(ResourceLogs, Filter{Search: " jane "})
		require.Len(t, preds, 1)
		require.Len(t, preds[0].AnyOf, 5)
		for _, c := range preds[0].AnyOf {
			assert.Equal(t, OpContainsFold, c.Op)
			assert.Equal(t, "jane", c.Value)
		}
		assert.Equal(t, FieldStaffEmail, preds[0].AnyOf[4].Field)
	})

	t.Run("item search skips staff fields", func(t *testing.T) {
		preds := ComposeFilters(ResourceItems, Filter{Search: "drill"})
		require.Len(t, preds, 1)
		assert.Len(t, preds[0].AnyOf, 3)
	})

	t.Run("every supplied filter adds one predicate", func(t *testing.T) {
		until := day.AddDate(0, 0, 1)
		preds := ComposeFilters(ResourceLogs, Filter{
			Search:   "x",
			Category: "Tools",
			From:     &day,
			Until:    &until,
			Internal: true,
		})
		require.Len(t, preds, 5)
		assert.Equal(t, Condition{Field: FieldCategoryName, Op: OpEq, Value: "Tools"}, preds[1].AnyOf[0])
		assert.Equal(t, Condition{Field: FieldLogTimestamp, Op: OpGTE, Value: day}, preds[2].AnyOf[0])
		assert.Equal(t, Condition{Field: FieldLogTimestamp, Op: OpLT, Value: until}, preds[3].AnyOf[0])
		assert.Equal(t, OpIsTrue, preds[4].AnyOf[0].Op)
	})

	t.Run("date bounds are ignored for items", func(t *testing.T) {
		assert.Empty(t, ComposeFilters(ResourceItems, Filter{From: &day}))
	})
}

func TestResolveSort(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource
		orderBy  string
		order    string
		field    FieldPath
		desc     bool
	}{
		{"logs default to date descending", ResourceLogs, "", "", FieldLogTimestamp, true},
		{"logs date ascending", ResourceLogs, "date", "asc", FieldLogTimestamp, false},
		{"logs item resolves to definition name", ResourceLogs, "item", "", FieldDefName, false},
		{"logs quantity resolves to delta", ResourceLogs, "quantity", "DESC", FieldLogDelta, true},
		{"logs staff", ResourceLogs, "staff", "", FieldStaffName, false},
		{"logs category", ResourceLogs, "category", "", FieldCategoryName, false},
		{"items default to item ascending", ResourceItems, "", "", FieldDefName, false},
		{"items quantity", ResourceItems, "quantity", "desc", FieldItemQuantity, true},
		{"items assignee", ResourceItems, " assignee ", "", FieldAssigneeName, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := ResolveSort(tt.resource, tt.orderBy, tt.order)
			require.NoError(t, err)
			require.Len(t, order, 3)
			assert.Equal(t, OrderTerm{Field: tt.field, Desc: tt.desc}, order[0])
			_, root := rootOf(tt.resource)
			assert.Equal(t, OrderTerm{Field: FieldPath{root, "created_at"}}, order[1])
			assert.Equal(t, OrderTerm{Field: FieldPath{root, "id"}}, order[2])
		})
	}
}

func TestResolveSort_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource
		orderBy  string
		order    string
	}{
		{"unknown key", ResourceLogs, "price", ""},
		{"staff is not an item key", ResourceItems, "staff", ""},
		{"date is not an item key", ResourceItems, "date", ""},
		{"column injection", ResourceLogs, "date; DROP TABLE users", ""},
		{"bad direction", ResourceLogs, "date", "sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveSort(tt.resource, tt.orderBy, tt.order)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrBadRequest))
		})
	}
}

func TestBuildLogPlan(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{}, DefaultLogLimit)
		require.NoError(t, err)
		assert.Equal(t, TableLogs, plan.Root)
		assert.Equal(t, AliasLog, plan.RootAlias)
		assert.Empty(t, plan.Predicates)
		require.NotNil(t, plan.Window)
		assert.Equal(t, Window{Page: 0, Limit: DefaultLogLimit}, *plan.Window)
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{StartDate: "2024-01-02", EndDate: "2024-01-31"}, DefaultLogLimit)
		require.NoError(t, err)
		require.Len(t, plan.Predicates, 2)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), plan.Predicates[0].AnyOf[0].Value)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), plan.Predicates[1].AnyOf[0].Value)
	})

	t.Run("RFC3339 dates truncate to the day", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{StartDate: "2024-01-02T15:04:05Z"}, DefaultLogLimit)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), plan.Predicates[0].AnyOf[0].Value)
	})

	t.Run("malformed parameters are bad requests", func(t *testing.T) {
		cases := []LogListFilter{
			{StartDate: "yesterday"},
			{EndDate: "2024-13-01"},
			{ListParams: ListParams{Page: intPtr(-1)}},
			{ListParams: ListParams{Limit: intPtr(0)}},
			{ListParams: ListParams{Limit: intPtr(MaxLimit + 1)}},
			{ListParams: ListParams{OrderBy: "nope"}},
		}
		for _, f := range cases {
			_, err := BuildLogPlan(f, DefaultLogLimit)
			assert.ErrorIs(t, err, shared.ErrBadRequest, "%+v", f)
		}
	})

	t.Run("window", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{ListParams: ListParams{Page: intPtr(3), Limit: intPtr(7)}}, DefaultLogLimit)
		require.NoError(t, err)
		assert.Equal(t, 21, plan.Window.Offset())
		assert.Nil(t, plan.Unbounded().Window)
		assert.NotNil(t, plan.Window)
	})

	t.Run("offset saturates instead of wrapping", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{ListParams: ListParams{Page: intPtr(math.MaxInt/2 + 1), Limit: intPtr(2)}}, DefaultLogLimit)
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, plan.Window.Offset())
		assert.Equal(t, math.MaxInt, Window{Page: math.MaxInt, Limit: MaxLimit}.Offset())
		assert.Equal(t, 0, Window{Page: 0, Limit: MaxLimit}.Offset())
	})

	t.Run("order direction ignores case", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{ListParams: ListParams{OrderBy: "date", Order: "ASC"}}, DefaultLogLimit)
		require.NoError(t, err)
		assert.False(t, plan.Order[0].Desc)
	})
}

func TestBuildItemPlan(t *testing.T) {
	plan, err := BuildItemPlan(ItemListFilter{Category: "Tools", Internal: true}, DefaultItemLimit)
	require.NoError(t, err)
	assert.Equal(t, TableItems, plan.Root)
	assert.Equal(t, DefaultItemLimit, plan.Window.Limit)
	assert.Len(t, plan.Predicates, 2)
}

func TestPlanJoinPruning(t *testing.T) {
	t.Run("count keeps only joins the predicates need", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{Category: "Tools", ListParams: ListParams{OrderBy: "staff"}}, DefaultLogLimit)
		require.NoError(t, err)
		assert.Equal(t, []string{AliasItem, AliasDef, AliasCategory}, aliases(plan.CountJoins()))
		assert.Equal(t, []string{AliasItem, AliasDef, AliasCategory, AliasStaff}, aliases(plan.SelectJoins()))
	})

	t.Run("date sort needs no joins", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{}, DefaultLogLimit)
		require.NoError(t, err)
		assert.Empty(t, plan.SelectJoins())
		assert.Empty(t, plan.CountJoins())
	})

	t.Run("assignee pulls in its item hop", func(t *testing.T) {
		plan, err := BuildLogPlan(LogListFilter{Search: "amy"}, DefaultLogLimit)
		require.NoError(t, err)
		assert.Equal(t, []string{AliasItem, AliasDef, AliasCategory, AliasAssignee, AliasStaff}, aliases(plan.CountJoins()))
	})
}
