package overview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/domain/taxonomy"
	"github.com/pressdeck/overview/internal/repository"
)

// DefaultItemCap bounds the number of items fetched per group. Exceeding
// results truncate silently; this is a resource bound, not an error.
const DefaultItemCap = 200

// Aggregator runs the per-group item queries under a resolved filter
// set. Group queries are independent and run concurrently; results come
// back in input order regardless of completion order.
type Aggregator struct {
	items            repository.ItemRepository
	groups           repository.GroupRepository
	hooks            *Hooks
	itemCap          int
	workers          int
	includeScheduled bool
	logger           *slog.Logger
}

// AggregatorConfig tunes an Aggregator.
type AggregatorConfig struct {
	// ItemCap is the per-group result bound. Zero means DefaultItemCap.
	ItemCap int
	// Workers bounds concurrent group queries. Zero means 4.
	Workers int
	// IncludeScheduled folds scheduled items into the unpublished
	// shorthand. Off by default.
	IncludeScheduled bool
}

// NewAggregator creates an item aggregator.
func NewAggregator(items repository.ItemRepository, groups repository.GroupRepository, hooks *Hooks, cfg AggregatorConfig, logger *slog.Logger) *Aggregator {
	if cfg.ItemCap <= 0 {
		cfg.ItemCap = DefaultItemCap
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Aggregator{
		items:            items,
		groups:           groups,
		hooks:            hooks,
		itemCap:          cfg.ItemCap,
		workers:          cfg.Workers,
		includeScheduled: cfg.IncludeScheduled,
		logger:           logger,
	}
}

// Aggregate fetches matching items for each group. A failing group gets
// its error recorded in its slot; sibling groups still return their
// items (partial-success contract).
func (a *Aggregator) Aggregate(ctx context.Context, groups []taxonomy.Group, filters FilterSet) []GroupItems {
	window := ComputeWindow(filters.StartDate, filters.DayCount)

	results := make([]GroupItems, len(groups))
	var eg errgroup.Group
	eg.SetLimit(a.workers)

	for i, group := range groups {
		i, group := i, group
		eg.Go(func() error {
			items, err := a.queryGroup(ctx, group, filters, window)
			results[i] = GroupItems{Group: group, Items: items, Err: err}
			return nil
		})
	}

	// Goroutines record failures in their own slot, never as a group error.
	_ = eg.Wait()

	for _, res := range results {
		if res.Err != nil {
			a.logger.Warn("group aggregation failed", "group_id", res.Group.ID, "error", res.Err)
		}
	}

	return results
}

func (a *Aggregator) queryGroup(ctx context.Context, group taxonomy.Group, filters FilterSet, window DateWindow) ([]content.Item, error) {
	descendants, err := a.groups.Descendants(ctx, group.ID)
	if err != nil {
		return nil, a.groupError("listing descendants", err)
	}

	opts := repository.ListItemsOptions{
		GroupIDs:     append([]string{group.ID}, descendants...),
		Statuses:     a.expandStatus(filters.Status),
		AuthorID:     filters.AuthorID,
		CreatedFrom:  window.Start,
		CreatedUntil: window.End,
		Limit:        a.itemCap,
	}
	opts = a.hooks.applyQuery(opts)

	items, err := a.items.List(ctx, opts)
	if err != nil {
		return nil, a.groupError("querying items", err)
	}
	return items, nil
}

// expandStatus turns the status filter into the concrete status list for
// the repository. The unpublished shorthand covers every workflow status
// except publish, plus scheduled when the toggle is on.
func (a *Aggregator) expandStatus(status string) []string {
	switch status {
	case "":
		return nil
	case content.StatusUnpublished:
		var statuses []string
		for _, s := range content.Statuses() {
			if s == content.StatusPublish {
				continue
			}
			statuses = append(statuses, string(s))
		}
		if a.includeScheduled {
			statuses = append(statuses, string(content.StatusFuture))
		}
		return statuses
	default:
		return []string{status}
	}
}

func (a *Aggregator) groupError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrQueryFailed, op, err)
}
