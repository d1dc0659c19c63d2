package inventory

import (
	"time"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Read models. References are resolved into embedded documents; a reference
// that cannot be resolved is left nil rather than failing the read.

// ResolvedAttributeValue is an attribute pair with the attribute document embedded.
// Attribute is nil when the referenced attribute no longer exists.
type ResolvedAttributeValue struct {
	Attribute *Attribute `json:"attribute,omitempty"`
	Value     string     `json:"value"`
}

// DefinitionView is an item definition with its category and attributes embedded
type DefinitionView struct {
	shared.BaseEntity
	Name                   string      `json:"name"`
	Category               *Category   `json:"category"`
	Attributes             []Attribute `json:"attributes"`
	Internal               bool        `json:"internal"`
	LowStockThreshold      int         `json:"lowStockThreshold"`
	CriticalStockThreshold int         `json:"criticalStockThreshold"`
}

// ItemView is an inventory item with its definition, attribute values and assignee embedded
type ItemView struct {
	shared.BaseEntity
	ItemDefinition *DefinitionView          `json:"itemDefinition"`
	Quantity       int                      `json:"quantity"`
	Attributes     []ResolvedAttributeValue `json:"attributes"`
	Assignee       *User                    `json:"assignee"`
}

// LogEntryView is an activity log entry with staff and item embedded, two hops deep
type LogEntryView struct {
	shared.BaseEntity
	Staff         *User     `json:"staff"`
	Item          *ItemView `json:"item"`
	QuantityDelta int       `json:"quantityDelta"`
	Timestamp     time.Time `json:"timestamp"`
}

// DefinitionName returns the item's definition name or "" if unresolved
func (v *ItemView) DefinitionName() string {
	if v == nil || v.ItemDefinition == nil {
		return ""
	}
	return v.ItemDefinition.Name
}

// CategoryName returns the item's category name or "" if unresolved
func (v *ItemView) CategoryName() string {
	if v == nil || v.ItemDefinition == nil || v.ItemDefinition.Category == nil {
		return ""
	}
	return v.ItemDefinition.Category.Name
}

// AssigneeName returns the assignee's name or "" if unassigned
func (v *ItemView) AssigneeName() string {
	if v == nil || v.Assignee == nil {
		return ""
	}
	return v.Assignee.Name
}
