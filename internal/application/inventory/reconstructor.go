package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// Reconstructor resolves the references of page rows into embedded documents.
// Every hop is one batch lookup over the whole page, never one lookup per row.
// Lookups include soft-deleted records so history keeps rendering; a reference
// that does not resolve at all is left nil.
type Reconstructor struct {
	stores inventory.Stores
}

// NewReconstructor creates a new Reconstructor
func NewReconstructor(stores inventory.Stores) *Reconstructor {
	return &Reconstructor{stores: stores}
}

// idSet collects distinct ids in first-seen order
type idSet struct {
	seen map[uuid.UUID]struct{}
	ids  []uuid.UUID
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[uuid.UUID]struct{})}
}

func (s *idSet) add(id uuid.UUID) {
	if id == uuid.Nil {
		return
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *idSet) addPtr(id *uuid.UUID) {
	if id != nil {
		s.add(*id)
	}
}

// MergeAttributeValues rebuilds attribute pairs with the full attribute document.
// Pairs keep their order and their own value; a pair whose attribute is missing
// from attrs keeps its value with a nil attribute.
func MergeAttributeValues(pairs []inventory.AttributeValue, attrs map[uuid.UUID]inventory.Attribute) []inventory.ResolvedAttributeValue {
	out := make([]inventory.ResolvedAttributeValue, 0, len(pairs))
	for _, pair := range pairs {
		resolved := inventory.ResolvedAttributeValue{Value: pair.Value}
		if attr, ok := attrs[pair.AttributeID]; ok {
			resolved.Attribute = &attr
		}
		out = append(out, resolved)
	}
	return out
}

// Items hydrates inventory items
func (r *Reconstructor) Items(ctx context.Context, items []inventory.InventoryItem) ([]inventory.ItemView, error) {
	views, _, err := r.hydrateItems(ctx, items, nil)
	if err != nil {
		return nil, err
	}
	out := make([]inventory.ItemView, 0, len(items))
	for _, item := range items {
		out = append(out, *views[item.ID])
	}
	return out, nil
}

// Logs hydrates log entries: staff, and the item with its definition, category,
// attributes and assignee.
func (r *Reconstructor) Logs(ctx context.Context, logs []inventory.LogEntry) ([]inventory.LogEntryView, error) {
	itemIDs := newIDSet()
	staffIDs := newIDSet()
	for _, l := range logs {
		itemIDs.add(l.ItemID)
		staffIDs.add(l.StaffID)
	}

	items, err := r.stores.Items.GetMany(ctx, itemIDs.ids)
	if err != nil {
		return nil, err
	}
	itemList := make([]inventory.InventoryItem, 0, len(items))
	for _, id := range itemIDs.ids {
		if item, ok := items[id]; ok {
			itemList = append(itemList, item)
		}
	}

	itemViews, users, err := r.hydrateItems(ctx, itemList, staffIDs.ids)
	if err != nil {
		return nil, err
	}

	out := make([]inventory.LogEntryView, 0, len(logs))
	for _, l := range logs {
		out = append(out, inventory.LogEntryView{
			BaseEntity:    l.BaseEntity,
			Staff:         lookup(users, &l.StaffID),
			Item:          itemViews[l.ItemID],
			QuantityDelta: l.QuantityDelta,
			Timestamp:     l.Timestamp,
		})
	}
	return out, nil
}

// hydrateItems resolves definitions, then categories, attributes and users in one
// batch each. extraUsers are fetched with the assignees and returned for the caller.
func (r *Reconstructor) hydrateItems(ctx context.Context, items []inventory.InventoryItem, extraUsers []uuid.UUID) (map[uuid.UUID]*inventory.ItemView, map[uuid.UUID]inventory.User, error) {
	defIDs := newIDSet()
	for _, item := range items {
		defIDs.add(item.DefinitionID)
	}
	defs, err := r.stores.Definitions.GetMany(ctx, defIDs.ids)
	if err != nil {
		return nil, nil, err
	}

	catIDs := newIDSet()
	attrIDs := newIDSet()
	userIDs := newIDSet()
	for _, def := range defs {
		catIDs.addPtr(def.CategoryID)
		for _, id := range def.AttributeIDs {
			attrIDs.add(id)
		}
	}
	for _, item := range items {
		for _, id := range item.AttributeIDs() {
			attrIDs.add(id)
		}
		userIDs.addPtr(item.AssigneeID)
	}
	for _, id := range extraUsers {
		userIDs.add(id)
	}

	categories, err := r.stores.Categories.GetMany(ctx, catIDs.ids)
	if err != nil {
		return nil, nil, err
	}
	attrs, err := r.stores.Attributes.GetMany(ctx, attrIDs.ids)
	if err != nil {
		return nil, nil, err
	}
	users, err := r.stores.Users.GetMany(ctx, userIDs.ids)
	if err != nil {
		return nil, nil, err
	}

	defViews := make(map[uuid.UUID]*inventory.DefinitionView, len(defs))
	for id, def := range defs {
		defViews[id] = definitionView(def, categories, attrs)
	}

	views := make(map[uuid.UUID]*inventory.ItemView, len(items))
	for _, item := range items {
		views[item.ID] = &inventory.ItemView{
			BaseEntity:     item.BaseEntity,
			ItemDefinition: defViews[item.DefinitionID],
			Quantity:       item.Quantity,
			Attributes:     MergeAttributeValues(item.Attributes, attrs),
			Assignee:       lookup(users, item.AssigneeID),
		}
	}
	return views, users, nil
}

func definitionView(def inventory.ItemDefinition, categories map[uuid.UUID]inventory.Category, attrs map[uuid.UUID]inventory.Attribute) *inventory.DefinitionView {
	resolved := make([]inventory.Attribute, 0, len(def.AttributeIDs))
	for _, id := range def.AttributeIDs {
		if attr, ok := attrs[id]; ok {
			resolved = append(resolved, attr)
		}
	}
	return &inventory.DefinitionView{
		BaseEntity:             def.BaseEntity,
		Name:                   def.Name,
		Category:               lookup(categories, def.CategoryID),
		Attributes:             resolved,
		Internal:               def.Internal,
		LowStockThreshold:      def.LowStockThreshold,
		CriticalStockThreshold: def.CriticalStockThreshold,
	}
}

// lookup collapses an optional reference to a pointer, nil when unset or unresolved
func lookup[T any](m map[uuid.UUID]T, id *uuid.UUID) *T {
	if id == nil {
		return nil
	}
	v, ok := m[*id]
	if !ok {
		return nil
	}
	return &v
}
