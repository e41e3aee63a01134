package overview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/domain/taxonomy"
	"github.com/pressdeck/overview/internal/repository"
)

// Well-known column keys with built-in computations.
const (
	ColumnTitle        = "title"
	ColumnStatus       = "status"
	ColumnAuthor       = "author"
	ColumnPostDate     = "post_date"
	ColumnPostModified = "post_modified"
)

// ColumnSpec describes one display column. Registration order defines
// left-to-right rendering order.
type ColumnSpec struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ComputeFunc resolves a column value for an item. Returning ok=false
// falls through to the built-in computation for the key.
type ComputeFunc func(item content.Item, group taxonomy.Group) (value string, ok bool)

// Capabilities are caller-supplied authorization predicates gating row
// actions. Inclusion of an action is the caller's policy, not the
// engine's. A nil predicate denies.
type Capabilities struct {
	CanEdit   func(content.Item) bool
	CanDelete func(content.Item) bool
}

// LinkResolver produces action URLs for an item.
type LinkResolver interface {
	EditLink(item content.Item) string
	TrashLink(item content.Item) string
	ViewLink(item content.Item) string
	PreviewLink(item content.Item) string
}

// Action is a rendered row action.
type Action struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ColumnRegistry maps column keys to value computations. Columns are a
// pluggable schema: consumers may register additional columns and
// override the computation for any key.
type ColumnRegistry struct {
	specs     []ColumnSpec
	index     map[string]int
	overrides map[string]ComputeFunc
	authors   repository.AuthorRepository
	caps      Capabilities
	links     LinkResolver
	now       func() time.Time
	logger    *slog.Logger
}

// NewColumnRegistry creates a registry preloaded with the default
// columns: title, status, author, post date, and last modified.
func NewColumnRegistry(authors repository.AuthorRepository, caps Capabilities, links LinkResolver, logger *slog.Logger) *ColumnRegistry {
	r := &ColumnRegistry{
		index:     make(map[string]int),
		overrides: make(map[string]ComputeFunc),
		authors:   authors,
		caps:      caps,
		links:     links,
		now:       time.Now,
		logger:    logger,
	}

	defaults := []ColumnSpec{
		{Key: ColumnTitle, Label: "Title"},
		{Key: ColumnStatus, Label: "Status"},
		{Key: ColumnAuthor, Label: "Author"},
		{Key: ColumnPostDate, Label: "Post Date"},
		{Key: ColumnPostModified, Label: "Last Modified"},
	}
	for _, spec := range defaults {
		// Defaults have distinct keys; Add cannot fail here.
		_ = r.Add(spec)
	}

	return r
}

// Add registers an additional display column. Keys must be unique.
func (r *ColumnRegistry) Add(spec ColumnSpec) error {
	if spec.Key == "" {
		return fmt.Errorf("%w: empty column key", ErrInvalidInput)
	}
	if _, exists := r.index[spec.Key]; exists {
		return fmt.Errorf("%w: duplicate column key %q", ErrInvalidInput, spec.Key)
	}
	r.index[spec.Key] = len(r.specs)
	r.specs = append(r.specs, spec)
	return nil
}

// Override installs a computation for a key, taking precedence over the
// built-in. Overriding an unregistered key is allowed; the column simply
// resolves through the override once registered.
func (r *ColumnRegistry) Override(key string, fn ComputeFunc) {
	r.overrides[key] = fn
}

// Specs returns the registered columns in rendering order.
func (r *ColumnRegistry) Specs() []ColumnSpec {
	specs := make([]ColumnSpec, len(r.specs))
	copy(specs, r.specs)
	return specs
}

// Resolve computes the display value for one (item, column, group)
// triple. Resolution order: registered override, then built-in, then
// empty. Unknown keys and missing backing data resolve to an empty
// value, never an error.
func (r *ColumnRegistry) Resolve(ctx context.Context, item content.Item, key string, group taxonomy.Group) string {
	if fn, exists := r.overrides[key]; exists {
		if value, ok := fn(item, group); ok {
			return value
		}
	}

	switch key {
	case ColumnTitle:
		return item.Title
	case ColumnStatus:
		return item.Status.Label()
	case ColumnAuthor:
		return r.authorName(ctx, item.AuthorID)
	case ColumnPostDate:
		return item.CreatedAt.Format("January 2, 2006 3:04 pm")
	case ColumnPostModified:
		return humanize.RelTime(item.ModifiedAt, r.now(), "ago", "from now")
	default:
		return ""
	}
}

// Row resolves every registered column for an item, in rendering order.
func (r *ColumnRegistry) Row(ctx context.Context, item content.Item, group taxonomy.Group) []string {
	cells := make([]string, len(r.specs))
	for i, spec := range r.specs {
		cells[i] = r.Resolve(ctx, item, spec.Key, group)
	}
	return cells
}

// RowActions returns the title-column actions the caller is authorized
// for: edit and trash per the capability predicates, view for published
// items, preview for editable unpublished ones.
func (r *ColumnRegistry) RowActions(item content.Item) []Action {
	if r.links == nil {
		return nil
	}

	canEdit := r.caps.CanEdit != nil && r.caps.CanEdit(item)

	var actions []Action
	if canEdit {
		actions = append(actions, Action{Name: "edit", URL: r.links.EditLink(item)})
	}
	if r.caps.CanDelete != nil && r.caps.CanDelete(item) {
		actions = append(actions, Action{Name: "trash", URL: r.links.TrashLink(item)})
	}
	if item.Status == content.StatusPublish {
		actions = append(actions, Action{Name: "view", URL: r.links.ViewLink(item)})
	} else if canEdit {
		actions = append(actions, Action{Name: "preview", URL: r.links.PreviewLink(item)})
	}
	return actions
}

func (r *ColumnRegistry) authorName(ctx context.Context, authorID string) string {
	if authorID == "" || r.authors == nil {
		return ""
	}
	author, err := r.authors.Get(ctx, authorID)
	if err != nil {
		// Deleted authors render empty rather than failing the row.
		r.logger.Debug("author lookup failed", "author_id", authorID, "error", err)
		return ""
	}
	return author.DisplayName
}
