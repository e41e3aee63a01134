package repository

import (
	"context"
	"time"

	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/domain/taxonomy"
)

// PreferenceRepository persists per-user scalar preferences keyed by
// (user, key). Structured values are stored serialized.
type PreferenceRepository interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, value string) error
}

// Predicate is a raw backend condition injected into an item query.
// Expr is a SQL fragment with ? placeholders bound to Args.
type Predicate struct {
	Expr string
	Args []any
}

// ListItemsOptions narrows an item query. Zero values mean no
// restriction for the corresponding field.
type ListItemsOptions struct {
	GroupIDs     []string
	Statuses     []string
	AuthorID     string
	CreatedFrom  time.Time
	CreatedUntil time.Time // exclusive
	Extra        []Predicate
	Limit        int
}

// ItemRepository queries the content repository. Results are ordered by
// creation date descending.
type ItemRepository interface {
	List(ctx context.Context, opts ListItemsOptions) ([]content.Item, error)
}

// GroupRepository reads the taxonomy backend.
type GroupRepository interface {
	ListRoots(ctx context.Context) ([]taxonomy.Group, error)
	Get(ctx context.Context, id string) (*taxonomy.Group, error)
	Descendants(ctx context.Context, id string) ([]string, error)
}

// AuthorRepository resolves author records for display.
type AuthorRepository interface {
	Get(ctx context.Context, id string) (*content.Author, error)
}
