package overview

import (
	"fmt"

	"github.com/pressdeck/overview/internal/domain/taxonomy"
)

// ColumnLayout assigns groups to display columns. Every input group
// appears in exactly one column and keeps its original ordering.
type ColumnLayout struct {
	Columns [][]taxonomy.Group `json:"columns"`
}

// Distribute lays groups out across columnCount display columns,
// balanced by count: ceil(len/columnCount) consecutive groups per
// column, so column sizes differ by at most one. A single-group list
// always collapses to one column regardless of the preference.
func Distribute(groups []taxonomy.Group, columnCount, maxColumns int) (ColumnLayout, error) {
	if columnCount < 1 || columnCount > maxColumns {
		return ColumnLayout{}, fmt.Errorf("%w: column count %d outside [1, %d]", ErrInvalidInput, columnCount, maxColumns)
	}

	// Show just one column if the view is narrowed to a single group.
	if len(groups) == 1 {
		columnCount = 1
	}

	perColumn := 0
	if len(groups) > 0 {
		perColumn = (len(groups) + columnCount - 1) / columnCount
	}

	layout := ColumnLayout{Columns: make([][]taxonomy.Group, columnCount)}
	idx := 0
	for col := 0; col < columnCount; col++ {
		for j := 0; j < perColumn && idx < len(groups); j++ {
			layout.Columns[col] = append(layout.Columns[col], groups[idx])
			idx++
		}
	}

	return layout, nil
}
