package overview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pressdeck/overview/internal/domain/taxonomy"
	"github.com/pressdeck/overview/internal/repository"
)

// DefaultMaxColumns is the configurable ceiling on display columns.
const DefaultMaxColumns = 3

// Service orchestrates one overview pass: resolve filters, collect the
// group list, aggregate items per group, and lay groups out into
// columns.
type Service struct {
	resolver   *Resolver
	aggregator *Aggregator
	columns    *ColumnRegistry
	groups     repository.GroupRepository
	hooks      *Hooks
	maxColumns int
	logger     *slog.Logger
}

// NewService creates the overview service. maxColumns values below 1
// fall back to DefaultMaxColumns.
func NewService(
	resolver *Resolver,
	aggregator *Aggregator,
	columns *ColumnRegistry,
	groups repository.GroupRepository,
	hooks *Hooks,
	maxColumns int,
	logger *slog.Logger,
) *Service {
	if maxColumns < 1 {
		maxColumns = DefaultMaxColumns
	}
	return &Service{
		resolver:   resolver,
		aggregator: aggregator,
		columns:    columns,
		groups:     groups,
		hooks:      hooks,
		maxColumns: maxColumns,
		logger:     logger,
	}
}

// Build produces the overview report for a user. Per-group query
// failures land in their group's slot and in Warnings; only invalid
// input or an unreadable taxonomy fails the whole pass.
func (s *Service) Build(ctx context.Context, userID string, ov Overrides) (*Report, error) {
	filters, warnings, err := s.resolver.Resolve(ctx, userID, ov)
	if err != nil {
		return nil, err
	}

	groups, err := s.collectGroups(ctx, filters)
	if err != nil {
		return nil, err
	}
	groups = s.hooks.applyGroups(groups)

	columnCount, countWarnings := s.resolver.ColumnCount(ctx, userID)
	warnings = append(warnings, countWarnings...)
	if columnCount > s.maxColumns {
		// A stored preference above the configured ceiling degrades
		// instead of failing the request.
		warnings = append(warnings, fmt.Sprintf("column preference %d above maximum %d", columnCount, s.maxColumns))
		columnCount = s.maxColumns
	}

	layout, err := Distribute(groups, columnCount, s.maxColumns)
	if err != nil {
		return nil, err
	}

	results := s.aggregator.Aggregate(ctx, groups, filters)
	for _, res := range results {
		if res.Err != nil {
			warnings = append(warnings, fmt.Sprintf("group %s: %v", res.Group.ID, res.Err))
		}
	}

	return &Report{
		Filters:  filters,
		Window:   ComputeWindow(filters.StartDate, filters.DayCount),
		Groups:   results,
		Layout:   layout,
		Columns:  s.columns.Specs(),
		Warnings: warnings,
	}, nil
}

// SetColumnCount persists the user's column preference after range
// validation.
func (s *Service) SetColumnCount(ctx context.Context, userID string, count int) error {
	if count < 1 || count > s.maxColumns {
		return fmt.Errorf("%w: column count %d outside [1, %d]", ErrInvalidInput, count, s.maxColumns)
	}
	return s.resolver.SaveColumnCount(ctx, userID, count)
}

// Columns exposes the column registry for row rendering and external
// column registration.
func (s *Service) Columns() *ColumnRegistry {
	return s.columns
}

// collectGroups returns the root groups, or just the filtered group
// when the filter set names one.
func (s *Service) collectGroups(ctx context.Context, filters FilterSet) ([]taxonomy.Group, error) {
	if filters.GroupID != "" {
		group, err := s.groups.Get(ctx, filters.GroupID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown group %q", ErrInvalidInput, filters.GroupID)
			}
			return nil, fmt.Errorf("loading group %q: %w", filters.GroupID, err)
		}
		return []taxonomy.Group{*group}, nil
	}

	groups, err := s.groups.ListRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return groups, nil
}
