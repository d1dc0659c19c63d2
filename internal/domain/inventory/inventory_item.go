package inventory

import (
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// AttributeValue is an attribute reference paired with the value an item holds for it
type AttributeValue struct {
	AttributeID uuid.UUID `json:"attributeId"`
	Value       string    `json:"value"`
}

// InventoryItem is a stocked instance of an item definition.
// Quantity never goes negative.
type InventoryItem struct {
	shared.BaseEntity
	DefinitionID uuid.UUID        `json:"itemDefinitionId"`
	Quantity     int              `json:"quantity"`
	Attributes   []AttributeValue `json:"attributes"`
	AssigneeID   *uuid.UUID       `json:"assigneeId,omitempty"`
}

// NewInventoryItem creates a new inventory item for a definition.
// Every attribute must be one the definition lists.
func NewInventoryItem(def *ItemDefinition, quantity int, attrs []AttributeValue, assigneeID *uuid.UUID) (*InventoryItem, error) {
	if def == nil || def.ID == uuid.Nil {
		return nil, shared.NewInvalidInput("item definition is required")
	}
	if quantity < 0 {
		return nil, shared.NewInvalidInput("quantity cannot be negative")
	}
	for _, av := range attrs {
		if !def.HasAttribute(av.AttributeID) {
			return nil, shared.NewInvalidInput("attribute %s is not part of item definition %q", av.AttributeID, def.Name)
		}
	}
	if attrs == nil {
		attrs = []AttributeValue{}
	}
	return &InventoryItem{
		BaseEntity:   shared.NewBaseEntity(),
		DefinitionID: def.ID,
		Quantity:     quantity,
		Attributes:   attrs,
		AssigneeID:   assigneeID,
	}, nil
}

// AttributeIDs returns the referenced attribute ids in pair order
func (i *InventoryItem) AttributeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(i.Attributes))
	for _, av := range i.Attributes {
		ids = append(ids, av.AttributeID)
	}
	return ids
}
