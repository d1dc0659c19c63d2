package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// LogEntry is an append-only audit record of a quantity or assignment change.
// It outlives the item it describes: a soft-deleted item keeps its history.
type LogEntry struct {
	shared.BaseEntity
	StaffID       uuid.UUID `json:"staffId"`
	ItemID        uuid.UUID `json:"itemId"`
	QuantityDelta int       `json:"quantityDelta"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLogEntry records a signed, nonzero quantity change made by a staff member
func NewLogEntry(staffID, itemID uuid.UUID, delta int, at time.Time) (*LogEntry, error) {
	if staffID == uuid.Nil {
		return nil, shared.NewInvalidInput("staff is required")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewInvalidInput("item is required")
	}
	if delta == 0 {
		return nil, shared.NewInvalidInput("quantity delta cannot be zero")
	}
	if at.IsZero() {
		at = time.Now()
	}
	return &LogEntry{
		BaseEntity:    shared.NewBaseEntity(),
		StaffID:       staffID,
		ItemID:        itemID,
		QuantityDelta: delta,
		Timestamp:     at.UTC(),
	}, nil
}
