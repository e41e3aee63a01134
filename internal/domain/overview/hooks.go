package overview

import (
	"github.com/pressdeck/overview/internal/domain/taxonomy"
	"github.com/pressdeck/overview/internal/repository"
)

// FilterTransform post-processes the merged filter set before it is
// persisted.
type FilterTransform func(FilterSet) FilterSet

// QueryTransform rewrites item query options before execution.
type QueryTransform func(repository.ListItemsOptions) repository.ListItemsOptions

// GroupTransform reorders or filters the group list before layout and
// aggregation.
type GroupTransform func([]taxonomy.Group) []taxonomy.Group

// Hooks is an ordered registry of transform functions, injected into the
// engine at construction. Registrants apply in registration order and
// none of them veto: every transform receives the previous output.
type Hooks struct {
	filters []FilterTransform
	queries []QueryTransform
	groups  []GroupTransform
}

// NewHooks returns an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnFilters registers a filter-set transform.
func (h *Hooks) OnFilters(fn FilterTransform) {
	h.filters = append(h.filters, fn)
}

// OnQuery registers an item-query transform.
func (h *Hooks) OnQuery(fn QueryTransform) {
	h.queries = append(h.queries, fn)
}

// OnGroups registers a group-list transform.
func (h *Hooks) OnGroups(fn GroupTransform) {
	h.groups = append(h.groups, fn)
}

func (h *Hooks) applyFilters(fs FilterSet) FilterSet {
	if h == nil {
		return fs
	}
	for _, fn := range h.filters {
		fs = fn(fs)
	}
	return fs
}

func (h *Hooks) applyQuery(opts repository.ListItemsOptions) repository.ListItemsOptions {
	if h == nil {
		return opts
	}
	for _, fn := range h.queries {
		opts = fn(opts)
	}
	return opts
}

func (h *Hooks) applyGroups(groups []taxonomy.Group) []taxonomy.Group {
	if h == nil {
		return groups
	}
	for _, fn := range h.groups {
		groups = fn(groups)
	}
	return groups
}
