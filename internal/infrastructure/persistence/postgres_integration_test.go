//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgres starts a PostgreSQL container and applies the embedded migrations
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("stockroom_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)
	return db
}

func TestPostgres_QueryLogs(t *testing.T) {
	w := seedWarehouseOn(t, setupPostgres(t))
	ctx := context.Background()

	page, err := w.svc.ListLogs(ctx, inventoryapp.LogListFilter{ListParams: inventoryapp.ListParams{
		OrderBy: "date", Order: "asc", Limit: intPtr(2), Page: intPtr(0),
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, []uuid.UUID{w.l1.ID, w.l2.ID}, logIDs(page.Data))

	page, err = w.svc.ListLogs(ctx, inventoryapp.LogListFilter{Search: "AMY", ListParams: inventoryapp.ListParams{Order: "asc"}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{w.l1.ID, w.l3.ID}, logIDs(page.Data))

	page, err = w.svc.ListLogs(ctx, inventoryapp.LogListFilter{StartDate: "2024-01-05", EndDate: "2024-01-05"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{w.l2.ID}, logIDs(page.Data))

	// Staff name descending puts Bo first
	page, err = w.svc.ListLogs(ctx, inventoryapp.LogListFilter{ListParams: inventoryapp.ListParams{OrderBy: "staff", Order: "desc"}})
	require.NoError(t, err)
	assert.Equal(t, w.l2.ID, page.Data[0].ID)
}

func TestPostgres_SoftDeletedDefinitionNameReusable(t *testing.T) {
	db := setupPostgres(t)
	stores := NewStores(db)
	ctx := context.Background()

	first, err := inventory.NewItemDefinition("Ladder", inventory.DefinitionOptions{})
	require.NoError(t, err)
	require.NoError(t, stores.Definitions.Create(ctx, first))

	dup, err := inventory.NewItemDefinition("Ladder", inventory.DefinitionOptions{})
	require.NoError(t, err)
	err = stores.Definitions.Create(ctx, dup)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	require.NoError(t, stores.Definitions.SoftDelete(ctx, first.ID))
	require.NoError(t, stores.Definitions.Create(ctx, dup))
}
