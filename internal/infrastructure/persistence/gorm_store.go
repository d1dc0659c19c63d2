package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// storeModel is a persistence model that maps to the domain entity T
type storeModel[M any, T any] interface {
	*M
	PrimaryKey() uuid.UUID
	ToDomain() *T
	FromDomain(*T)
}

// GormStore implements inventory.Store using GORM
type GormStore[T any, M any, PM storeModel[M, T]] struct {
	db       *gorm.DB
	resource string
}

// NewGormStore creates a new GORM-backed store for one collection
func NewGormStore[T any, M any, PM storeModel[M, T]](db *gorm.DB, resource string) *GormStore[T, M, PM] {
	return &GormStore[T, M, PM]{db: db, resource: resource}
}

// GetByID finds a live record by id
func (s *GormStore[T, M, PM]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var m M
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(PM(&m)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFound(s.resource, id)
		}
		return nil, shared.WrapServerError("get "+s.resource, err)
	}
	return PM(&m).ToDomain(), nil
}

// GetAll returns every live record in creation order
func (s *GormStore[T, M, PM]) GetAll(ctx context.Context) ([]T, error) {
	var rows []M
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, shared.WrapServerError("list "+s.resource, err)
	}
	out := make([]T, 0, len(rows))
	for i := range rows {
		out = append(out, *PM(&rows[i]).ToDomain())
	}
	return out, nil
}

// GetMany batch-fetches records by id, including soft-deleted ones. Ids that do
// not exist are absent from the result.
func (s *GormStore[T, M, PM]) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]T, error) {
	out := make(map[uuid.UUID]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []M
	if err := s.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, shared.WrapServerError("get many "+s.resource, err)
	}
	for i := range rows {
		pm := PM(&rows[i])
		out[pm.PrimaryKey()] = *pm.ToDomain()
	}
	return out, nil
}

// Create inserts a new record
func (s *GormStore[T, M, PM]) Create(ctx context.Context, entity *T) error {
	var m M
	PM(&m).FromDomain(entity)
	if err := s.db.WithContext(ctx).Create(PM(&m)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return shared.WrapServerError("create "+s.resource, err)
	}
	return nil
}

// Replace overwrites every column of a live record except its creation time
func (s *GormStore[T, M, PM]) Replace(ctx context.Context, entity *T) error {
	var m M
	PM(&m).FromDomain(entity)
	result := s.db.WithContext(ctx).
		Model(PM(&m)).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(PM(&m))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return shared.WrapServerError("replace "+s.resource, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFound(s.resource, PM(&m).PrimaryKey())
	}
	return nil
}

// SoftDelete marks a live record deleted
func (s *GormStore[T, M, PM]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(PM(new(M)))
	if result.Error != nil {
		return shared.WrapServerError("delete "+s.resource, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFound(s.resource, id)
	}
	return nil
}

// NewStores wires a GORM store for every collection
func NewStores(db *gorm.DB) inventory.Stores {
	return inventory.Stores{
		Users:       NewGormStore[inventory.User, models.UserModel](db, "user"),
		Categories:  NewGormStore[inventory.Category, models.CategoryModel](db, "category"),
		Attributes:  NewGormStore[inventory.Attribute, models.AttributeModel](db, "attribute"),
		Definitions: NewGormStore[inventory.ItemDefinition, models.ItemDefinitionModel](db, "item definition"),
		Items:       NewGormStore[inventory.InventoryItem, models.InventoryItemModel](db, "inventory item"),
		Logs:        NewGormStore[inventory.LogEntry, models.LogEntryModel](db, "log entry"),
	}
}
