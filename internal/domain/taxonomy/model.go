package taxonomy

// Group is a category-like node items belong to. Groups form a forest:
// ParentID is nil for roots and descendants are the transitive closure
// over Children.
type Group struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ParentID *string  `json:"parent_id,omitempty"`
	Children []string `json:"children,omitempty"`
}
