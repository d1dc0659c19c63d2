package inventory

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/stockroom/backend/internal/domain/inventory"
)

var (
	logCSVHeader  = []string{"Date", "Staff", "Email", "Item", "Category", "Quantity Change"}
	itemCSVHeader = []string{"Item", "Category", "Quantity", "Assignee", "Attributes", "Internal"}
)

// WriteLogsCSV writes a header row and one row per log entry
func WriteLogsCSV(w io.Writer, logs []inventory.LogEntryView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(logCSVHeader); err != nil {
		return err
	}
	for _, l := range logs {
		var staff, email string
		if l.Staff != nil {
			staff, email = l.Staff.Name, l.Staff.Email
		}
		record := []string{
			l.Timestamp.UTC().Format(time.RFC3339),
			staff,
			email,
			l.Item.DefinitionName(),
			l.Item.CategoryName(),
			strconv.Itoa(l.QuantityDelta),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteItemsCSV writes a header row and one row per inventory item
func WriteItemsCSV(w io.Writer, items []inventory.ItemView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(itemCSVHeader); err != nil {
		return err
	}
	for i := range items {
		item := &items[i]
		internal := item.ItemDefinition != nil && item.ItemDefinition.Internal
		record := []string{
			item.DefinitionName(),
			item.CategoryName(),
			strconv.Itoa(item.Quantity),
			item.AssigneeName(),
			formatAttributes(item.Attributes),
			strconv.FormatBool(internal),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatAttributes renders resolved pairs as "Name: value; ...", skipping unresolved attributes
func formatAttributes(values []inventory.ResolvedAttributeValue) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v.Attribute == nil {
			continue
		}
		parts = append(parts, v.Attribute.Name+": "+v.Value)
	}
	return strings.Join(parts, "; ")
}
