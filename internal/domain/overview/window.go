package overview

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for start dates.
const dateLayout = "2006-01-02"

// DateWindow is a half-open date range [Start, End).
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ComputeWindow derives the window covered by dayCount days from start.
// Day counts below 1 are clamped to 1.
func ComputeWindow(start time.Time, dayCount int) DateWindow {
	if dayCount < 1 {
		dayCount = 1
	}
	return DateWindow{
		Start: start,
		End:   start.AddDate(0, 0, dayCount),
	}
}

// ParseDate parses a YYYY-MM-DD date string. Malformed input fails with
// ErrInvalidInput rather than defaulting, so caller bugs stay visible.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parsing date %q: %v", ErrInvalidInput, s, err)
	}
	return t, nil
}
