package inventory

// BuildLogPlan builds the activity log read plan: joins, then filter predicates,
// then the resolved sort, then the window. It touches no datastore.
func BuildLogPlan(f LogListFilter, defaultLimit int) (Plan, error) {
	dates, err := parseDateRange(f.StartDate, f.EndDate)
	if err != nil {
		return Plan{}, err
	}
	return buildPlan(ResourceLogs, f.ListParams, Filter{
		Search:   f.Search,
		Category: f.Category,
		From:     dates.From,
		Until:    dates.Until,
		Internal: f.Internal,
	}, defaultLimit)
}

// BuildItemPlan builds the inventory item read plan
func BuildItemPlan(f ItemListFilter, defaultLimit int) (Plan, error) {
	return buildPlan(ResourceItems, f.ListParams, Filter{
		Search:   f.Search,
		Category: f.Category,
		Internal: f.Internal,
	}, defaultLimit)
}

func buildPlan(r Resource, params ListParams, filter Filter, defaultLimit int) (Plan, error) {
	order, err := ResolveSort(r, params.OrderBy, params.Order)
	if err != nil {
		return Plan{}, err
	}
	window, err := params.window(defaultLimit)
	if err != nil {
		return Plan{}, err
	}
	root, alias := rootOf(r)
	return Plan{
		Resource:   r,
		Root:       root,
		RootAlias:  alias,
		Joins:      JoinSteps(r),
		Predicates: ComposeFilters(r, filter),
		Order:      order,
		Window:     &window,
	}, nil
}
