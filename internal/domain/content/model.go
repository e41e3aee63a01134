package content

import "time"

// Status is the workflow status of an item.
type Status string

const (
	StatusPitch      Status = "pitch"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusPublish    Status = "publish"
	// StatusFuture marks items scheduled for publication.
	StatusFuture Status = "future"
)

// StatusUnpublished is a filter shorthand, not a real status. At query time
// it expands to every workflow status except publish.
const StatusUnpublished = "unpublished"

var statusLabels = map[Status]string{
	StatusPitch:      "Pitch",
	StatusAssigned:   "Assigned",
	StatusInProgress: "In Progress",
	StatusDraft:      "Draft",
	StatusPending:    "Pending Review",
	StatusPublish:    "Published",
	StatusFuture:     "Scheduled",
}

// Statuses returns the workflow statuses in editorial order. Scheduled
// (future) is excluded; it is appended only by the unpublished expansion.
func Statuses() []Status {
	return []Status{
		StatusPitch,
		StatusAssigned,
		StatusInProgress,
		StatusDraft,
		StatusPending,
		StatusPublish,
	}
}

// Label returns the human-readable name for a status. Unknown statuses
// fall back to the raw slug so display never fails.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Item is a content repository entry. The engine treats items as
// immutable query results.
type Item struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Status     Status    `json:"status"`
	AuthorID   string    `json:"author_id"`
	GroupIDs   []string  `json:"group_ids,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Author is a content author record.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
