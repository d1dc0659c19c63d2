package inventory

// Table names
const (
	TableLogs        = "log_entries"
	TableItems       = "inventory_items"
	TableDefinitions = "item_definitions"
	TableCategories  = "categories"
	TableUsers       = "users"
	TableAttributes  = "attributes"
)

// Join aliases used by field paths
const (
	AliasLog      = "log"
	AliasItem     = "item"
	AliasDef      = "def"
	AliasCategory = "cat"
	AliasStaff    = "staff"
	AliasAssignee = "assignee"
)

// Resolved field paths
var (
	FieldLogTimestamp = FieldPath{AliasLog, "logged_at"}
	FieldLogDelta     = FieldPath{AliasLog, "quantity_delta"}
	FieldItemQuantity = FieldPath{AliasItem, "quantity"}
	FieldDefName      = FieldPath{AliasDef, "name"}
	FieldDefInternal  = FieldPath{AliasDef, "internal"}
	FieldCategoryName = FieldPath{AliasCategory, "name"}
	FieldStaffName    = FieldPath{AliasStaff, "name"}
	FieldStaffEmail   = FieldPath{AliasStaff, "email"}
	FieldAssigneeName = FieldPath{AliasAssignee, "name"}
)

// itemJoins resolves an item row to its definition, category and assignee
func itemJoins(itemAlias string) []JoinStep {
	return []JoinStep{
		{Collection: TableDefinitions, As: AliasDef, From: itemAlias, LocalKey: "item_definition_id"},
		{Collection: TableCategories, As: AliasCategory, From: AliasDef, LocalKey: "category_id"},
		{Collection: TableUsers, As: AliasAssignee, From: itemAlias, LocalKey: "assignee_id"},
	}
}

// JoinSteps returns the ordered joins for a resource. A log reaches the
// definition and category through its item, two hops deep.
func JoinSteps(r Resource) []JoinStep {
	switch r {
	case ResourceLogs:
		steps := []JoinStep{
			{Collection: TableItems, As: AliasItem, From: AliasLog, LocalKey: "item_id"},
		}
		steps = append(steps, itemJoins(AliasItem)...)
		return append(steps, JoinStep{Collection: TableUsers, As: AliasStaff, From: AliasLog, LocalKey: "staff_id"})
	case ResourceItems:
		return itemJoins(AliasItem)
	default:
		return nil
	}
}

// rootOf returns the root table and alias of a resource
func rootOf(r Resource) (table, alias string) {
	if r == ResourceLogs {
		return TableLogs, AliasLog
	}
	return TableItems, AliasItem
}
