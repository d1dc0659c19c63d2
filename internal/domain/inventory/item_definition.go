package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// ItemDefinition describes a kind of stocked item. Inventory items are
// instances of a definition.
type ItemDefinition struct {
	shared.BaseEntity
	Name                   string      `json:"name"`
	CategoryID             *uuid.UUID  `json:"categoryId,omitempty"`
	AttributeIDs           []uuid.UUID `json:"attributeIds"`
	Internal               bool        `json:"internal"`
	LowStockThreshold      int         `json:"lowStockThreshold"`
	CriticalStockThreshold int         `json:"criticalStockThreshold"`
}

// DefinitionOptions holds the optional fields of a new item definition
type DefinitionOptions struct {
	CategoryID             *uuid.UUID
	AttributeIDs           []uuid.UUID
	Internal               bool
	LowStockThreshold      int
	CriticalStockThreshold int
}

// NewItemDefinition creates a new item definition.
// The low stock threshold must not be below the critical one.
func NewItemDefinition(name string, opts DefinitionOptions) (*ItemDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInput("item definition name cannot be empty")
	}
	if err := ValidateThresholds(opts.LowStockThreshold, opts.CriticalStockThreshold); err != nil {
		return nil, err
	}
	attrs := opts.AttributeIDs
	if attrs == nil {
		attrs = []uuid.UUID{}
	}
	return &ItemDefinition{
		BaseEntity:             shared.NewBaseEntity(),
		Name:                   name,
		CategoryID:             opts.CategoryID,
		AttributeIDs:           attrs,
		Internal:               opts.Internal,
		LowStockThreshold:      opts.LowStockThreshold,
		CriticalStockThreshold: opts.CriticalStockThreshold,
	}, nil
}

// ValidateThresholds checks low >= critical >= 0
func ValidateThresholds(low, critical int) error {
	if low < 0 || critical < 0 {
		return shared.NewInvalidInput("stock thresholds cannot be negative")
	}
	if low < critical {
		return shared.NewInvalidInput("low stock threshold (%d) must be at least the critical threshold (%d)", low, critical)
	}
	return nil
}

// HasAttribute reports whether the definition lists the attribute
func (d *ItemDefinition) HasAttribute(id uuid.UUID) bool {
	for _, a := range d.AttributeIDs {
		if a == id {
			return true
		}
	}
	return false
}
