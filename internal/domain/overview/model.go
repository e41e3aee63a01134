package overview

import (
	"time"

	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/domain/taxonomy"
)

// FilterSet is the effective filter state for one aggregation pass.
// Empty Status/GroupID/AuthorID mean no restriction.
type FilterSet struct {
	Status    string    `json:"status"`
	GroupID   string    `json:"group_id"`
	AuthorID  string    `json:"author_id"`
	StartDate time.Time `json:"start_date"`
	DayCount  int       `json:"day_count"`
}

// Overrides carries request-supplied filter values. A nil field is
// absent and falls through to the stored preference; a pointer to the
// empty string is an explicit clear and must not fall through.
type Overrides struct {
	Status    *string
	GroupID   *string
	AuthorID  *string
	StartDate *string // YYYY-MM-DD
	DayCount  *string
}

// StringOverride adapts a literal for an Overrides field.
func StringOverride(s string) *string {
	return &s
}

// GroupItems is one group's slice of the aggregation result. Err is set
// when the group's query failed; sibling groups are unaffected.
type GroupItems struct {
	Group taxonomy.Group `json:"group"`
	Items []content.Item `json:"items"`
	Err   error          `json:"-"`
}

// Report is the complete outcome of one overview pass.
type Report struct {
	Filters  FilterSet    `json:"filters"`
	Window   DateWindow   `json:"window"`
	Groups   []GroupItems `json:"groups"`
	Layout   ColumnLayout `json:"layout"`
	Columns  []ColumnSpec `json:"columns"`
	Warnings []string     `json:"warnings,omitempty"`
}
