package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PlanExecutor runs read plans against the datastore
type PlanExecutor interface {
	// Select returns the root ids of the plan's window in plan order.
	// A plan without a window selects every matching row.
	Select(ctx context.Context, plan Plan) ([]uuid.UUID, error)
	// Count returns the number of rows matching the plan's predicates, ignoring its window
	Count(ctx context.Context, plan Plan) (int64, error)
}

// Limits holds the default window sizes
type Limits struct {
	Logs  int
	Items int
}

// DefaultLimits returns the built-in default window sizes
func DefaultLimits() Limits {
	return Limits{Logs: DefaultLogLimit, Items: DefaultItemLimit}
}

// QueryService serves the activity log and inventory item read models
type QueryService struct {
	stores        inventory.Stores
	executor      PlanExecutor
	reconstructor *Reconstructor
	limits        Limits
	logger        *zap.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(stores inventory.Stores, executor PlanExecutor, limits Limits, logger *zap.Logger) *QueryService {
	if limits.Logs <= 0 {
		limits.Logs = DefaultLogLimit
	}
	if limits.Items <= 0 {
		limits.Items = DefaultItemLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		stores:        stores,
		executor:      executor,
		reconstructor: NewReconstructor(stores),
		limits:        limits,
		logger:        logger,
	}
}

// ListLogs returns one page of activity log entries and the size of the filtered set
func (s *QueryService) ListLogs(ctx context.Context, filter LogListFilter) (*shared.Paginated[inventory.LogEntryView], error) {
	plan, err := BuildLogPlan(filter, s.limits.Logs)
	if err != nil {
		return nil, err
	}
	ids, total, err := s.page(ctx, plan)
	if err != nil {
		return nil, err
	}
	views, err := s.logViews(ctx, ids)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(views, total), nil
}

// GetLog returns one activity log entry
func (s *QueryService) GetLog(ctx context.Context, id uuid.UUID) (*inventory.LogEntryView, error) {
	entry, err := s.stores.Logs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.reconstructor.Logs(ctx, []inventory.LogEntry{*entry})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ExportLogs returns every filtered activity log entry in sort order, without a window
func (s *QueryService) ExportLogs(ctx context.Context, filter LogListFilter) ([]inventory.LogEntryView, error) {
	plan, err := BuildLogPlan(filter, s.limits.Logs)
	if err != nil {
		return nil, err
	}
	ids, err := s.executor.Select(ctx, plan.Unbounded())
	if err != nil {
		return nil, err
	}
	s.logger.Info("exporting activity log", zap.Int("rows", len(ids)))
	return s.logViews(ctx, ids)
}

// ListItems returns one page of inventory items and the size of the filtered set
func (s *QueryService) ListItems(ctx context.Context, filter ItemListFilter) (*shared.Paginated[inventory.ItemView], error) {
	plan, err := BuildItemPlan(filter, s.limits.Items)
	if err != nil {
		return nil, err
	}
	ids, total, err := s.page(ctx, plan)
	if err != nil {
		return nil, err
	}
	views, err := s.itemViews(ctx, ids)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(views, total), nil
}

// GetItem returns one inventory item
func (s *QueryService) GetItem(ctx context.Context, id uuid.UUID) (*inventory.ItemView, error) {
	item, err := s.stores.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.reconstructor.Items(ctx, []inventory.InventoryItem{*item})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ExportItems returns every filtered inventory item in sort order, without a window
func (s *QueryService) ExportItems(ctx context.Context, filter ItemListFilter) ([]inventory.ItemView, error) {
	plan, err := BuildItemPlan(filter, s.limits.Items)
	if err != nil {
		return nil, err
	}
	ids, err := s.executor.Select(ctx, plan.Unbounded())
	if err != nil {
		return nil, err
	}
	s.logger.Info("exporting inventory items", zap.Int("rows", len(ids)))
	return s.itemViews(ctx, ids)
}

// page runs the window query and the count concurrently
func (s *QueryService) page(ctx context.Context, plan Plan) ([]uuid.UUID, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory_query", "page",
		telemetry.WithAttribute(telemetry.SpanAttrResource, string(plan.Resource)),
	)
	defer span.End()
	if plan.Window != nil {
		telemetry.SetAttributes(span,
			telemetry.SpanAttrPage, plan.Window.Page,
			telemetry.SpanAttrLimit, plan.Window.Limit,
		)
	}

	var (
		ids   []uuid.UUID
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ids, err = s.executor.Select(gctx, plan)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.executor.Count(gctx, plan)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("read plan failed",
			zap.String("resource", string(plan.Resource)),
			zap.Error(err),
		)
		return nil, 0, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRows, len(ids),
		telemetry.SpanAttrTotal, total,
	)
	return ids, total, nil
}

func (s *QueryService) logViews(ctx context.Context, ids []uuid.UUID) ([]inventory.LogEntryView, error) {
	rows, err := s.stores.Logs.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.reconstructor.Logs(ctx, inOrder(ids, rows))
}

func (s *QueryService) itemViews(ctx context.Context, ids []uuid.UUID) ([]inventory.ItemView, error) {
	rows, err := s.stores.Items.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.reconstructor.Items(ctx, inOrder(ids, rows))
}

// inOrder lays out fetched rows in id order, skipping ids that did not resolve
func inOrder[T any](ids []uuid.UUID, rows map[uuid.UUID]T) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if row, ok := rows[id]; ok {
			out = append(out, row)
		}
	}
	return out
}
