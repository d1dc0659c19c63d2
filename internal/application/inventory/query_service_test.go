package inventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubExecutor returns canned ids and totals and records the plans it ran
type stubExecutor struct {
	mu       sync.Mutex
	ids      []uuid.UUID
	total    int64
	err      error
	selected []Plan
	counted  []Plan
}

func (e *stubExecutor) Select(_ context.Context, plan Plan) ([]uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = append(e.selected, plan)
	return e.ids, e.err
}

func (e *stubExecutor) Count(_ context.Context, plan Plan) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counted = append(e.counted, plan)
	return e.total, e.err
}

func TestQueryService_ListLogs(t *testing.T) {
	f := newFixture(t)
	later, err := inventory.NewLogEntry(f.bo.ID, f.drillItem.ID, -2, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, f.logs.Create(context.Background(), later))

	exec := &stubExecutor{ids: []uuid.UUID{later.ID, uuid.New(), f.drillLog.ID}, total: 7}
	svc := NewQueryService(f.stores(), exec, Limits{}, zap.NewNop())

	page, err := svc.ListLogs(context.Background(), LogListFilter{Search: "amy"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, later.ID, page.Data[0].ID)
	assert.Equal(t, "Bo", page.Data[0].Staff.Name)
	assert.Equal(t, f.drillLog.ID, page.Data[1].ID)

	require.Len(t, exec.selected, 1)
	require.Len(t, exec.counted, 1)
	assert.Equal(t, DefaultLogLimit, exec.selected[0].Window.Limit)
	assert.Len(t, exec.selected[0].Predicates, 1)
}

func TestQueryService_EmptyPageKeepsTotal(t *testing.T) {
	f := newFixture(t)
	exec := &stubExecutor{total: 3}
	svc := NewQueryService(f.stores(), exec, Limits{Items: 10}, nil)

	page, err := svc.ListItems(context.Background(), ItemListFilter{ListParams: ListParams{Page: intPtr(9)}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 10, exec.selected[0].Window.Limit)
}

func TestQueryService_BadRequestSkipsDatastore(t *testing.T) {
	f := newFixture(t)
	exec := &stubExecutor{}
	svc := NewQueryService(f.stores(), exec, DefaultLimits(), nil)

	_, err := svc.ListLogs(context.Background(), LogListFilter{ListParams: ListParams{OrderBy: "price"}})
	assert.ErrorIs(t, err, shared.ErrBadRequest)
	_, err = svc.ExportItems(context.Background(), ItemListFilter{ListParams: ListParams{Order: "up"}})
	assert.ErrorIs(t, err, shared.ErrBadRequest)
	assert.Empty(t, exec.selected)
	assert.Empty(t, exec.counted)
}

func TestQueryService_ExecutorFailure(t *testing.T) {
	f := newFixture(t)
	exec := &stubExecutor{err: shared.WrapServerError("select", errors.New("boom"))}
	svc := NewQueryService(f.stores(), exec, DefaultLimits(), nil)

	_, err := svc.ListItems(context.Background(), ItemListFilter{})
	assert.ErrorIs(t, err, shared.ErrServerError)
}

func TestQueryService_GetLog(t *testing.T) {
	f := newFixture(t)
	svc := NewQueryService(f.stores(), &stubExecutor{}, DefaultLimits(), nil)
	ctx := context.Background()

	view, err := svc.GetLog(ctx, f.drillLog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", view.Item.DefinitionName())

	_, err = svc.GetLog(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, f.logs.SoftDelete(ctx, f.drillLog.ID))
	_, err = svc.GetLog(ctx, f.drillLog.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestQueryService_GetItemWithDeletedDefinition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.definitions.SoftDelete(ctx, f.drill.ID))
	svc := NewQueryService(f.stores(), &stubExecutor{}, DefaultLimits(), nil)

	view, err := svc.GetItem(ctx, f.drillItem.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", view.DefinitionName())
}

func TestQueryService_Export(t *testing.T) {
	f := newFixture(t)
	exec := &stubExecutor{ids: []uuid.UUID{f.drillLog.ID}}
	svc := NewQueryService(f.stores(), exec, DefaultLimits(), nil)

	logs, err := svc.ExportLogs(context.Background(), LogListFilter{ListParams: ListParams{Page: intPtr(4)}})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Len(t, exec.selected, 1)
	assert.Nil(t, exec.selected[0].Window)
	assert.Empty(t, exec.counted)

	var buf bytes.Buffer
	require.NoError(t, WriteLogsCSV(&buf, logs))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, logCSVHeader, rows[0])
	assert.Equal(t, []string{"2024-01-01T09:00:00Z", "Amy", "amy@example.com", "Drill", "Tools", "4"}, rows[1])
}

func TestWriteItemsCSV_QuotesEmbeddedCommas(t *testing.T) {
	items := []inventory.ItemView{{
		ItemDefinition: &inventory.DefinitionView{Name: "Bolts, M6", Internal: true},
		Quantity:       120,
		Attributes: []inventory.ResolvedAttributeValue{
			{Attribute: &inventory.Attribute{Name: "Finish"}, Value: "zinc"},
			{Value: "orphan"},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteItemsCSV(&buf, items))
	assert.Contains(t, buf.String(), `"Bolts, M6"`)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Bolts, M6", "", "120", "", "Finish: zinc", "true"}, rows[1])
}
