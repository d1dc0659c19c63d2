package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Store is the generic entity store over one collection.
//
// GetByID and GetAll only see live records. GetMany also returns soft-deleted
// records: it backs reference resolution, where history must keep rendering.
type Store[T any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]T, error)
	Create(ctx context.Context, entity *T) error
	Replace(ctx context.Context, entity *T) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// UserStore stores users
type UserStore = Store[User]

// CategoryStore stores categories
type CategoryStore = Store[Category]

// AttributeStore stores attributes
type AttributeStore = Store[Attribute]

// DefinitionStore stores item definitions
type DefinitionStore = Store[ItemDefinition]

// ItemStore stores inventory items
type ItemStore = Store[InventoryItem]

// LogStore stores log entries
type LogStore = Store[LogEntry]

// Stores bundles the per-collection stores
type Stores struct {
	Users       UserStore
	Categories  CategoryStore
	Attributes  AttributeStore
	Definitions DefinitionStore
	Items       ItemStore
	Logs        LogStore
}
