package overview_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pressdeck/overview/internal/domain/overview"
	"github.com/pressdeck/overview/internal/domain/taxonomy"
	"github.com/pressdeck/overview/internal/repository"
	"github.com/pressdeck/overview/internal/repository/mocks"
)

const columnsKey = "overview_screen_columns"

type serviceFixture struct {
	prefs     *mocks.PreferenceRepository
	itemRepo  *mocks.ItemRepository
	groupRepo *mocks.GroupRepository
	service   *overview.Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	prefs := &mocks.PreferenceRepository{}
	itemRepo := &mocks.ItemRepository{}
	groupRepo := &mocks.GroupRepository{}

	logger := testLogger()
	resolver := overview.NewResolver(prefs, nil, logger)
	aggregator := overview.NewAggregator(itemRepo, groupRepo, nil, overview.AggregatorConfig{}, logger)
	registry := overview.NewColumnRegistry(&mocks.AuthorRepository{}, overview.Capabilities{}, nil, logger)
	service := overview.NewService(resolver, aggregator, registry, groupRepo, nil, overview.DefaultMaxColumns, logger)

	return &serviceFixture{
		prefs:     prefs,
		itemRepo:  itemRepo,
		groupRepo: groupRepo,
		service:   service,
	}
}

func (f *serviceFixture) stubPreferences(filtersJSON, columns string) {
	ctx := mock.Anything
	if filtersJSON == "" {
		f.prefs.On("Get", ctx, "u1", filtersKey).Return("", repository.ErrNotFound)
	} else {
		f.prefs.On("Get", ctx, "u1", filtersKey).Return(filtersJSON, nil)
	}
	f.prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).Return(nil)

	if columns == "" {
		f.prefs.On("Get", ctx, "u1", columnsKey).Return("", repository.ErrNotFound)
		f.prefs.On("Set", ctx, "u1", columnsKey, mock.AnythingOfType("string")).Return(nil)
	} else {
		f.prefs.On("Get", ctx, "u1", columnsKey).Return(columns, nil)
	}
}

func TestService_BuildDistributesGroupsAcrossColumns(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.stubPreferences("", "2")

	roots := []taxonomy.Group{
		{ID: "cat1", Name: "Cat1"},
		{ID: "cat2", Name: "Cat2"},
		{ID: "cat3", Name: "Cat3"},
	}
	f.groupRepo.On("ListRoots", mock.Anything).Return(roots, nil)
	for _, g := range roots {
		f.groupRepo.On("Descendants", mock.Anything, g.ID).Return([]string{}, nil)
	}
	f.itemRepo.On("List", mock.Anything, optsForGroup("cat1")).Return(makeItems("cat1", 4), nil)
	f.itemRepo.On("List", mock.Anything, optsForGroup("cat2")).Return(makeItems("cat2", 2), nil)
	f.itemRepo.On("List", mock.Anything, optsForGroup("cat3")).Return(makeItems("cat3", 6), nil)

	report, err := f.service.Build(ctx, "u1", overview.Overrides{})
	require.NoError(t, err)
	require.Empty(t, report.Warnings)

	require.Len(t, report.Layout.Columns, 2)
	require.Equal(t, []taxonomy.Group{roots[0], roots[1]}, report.Layout.Columns[0])
	require.Equal(t, []taxonomy.Group{roots[2]}, report.Layout.Columns[1])

	require.Len(t, report.Groups, 3)
	require.Len(t, report.Groups[0].Items, 4)
	require.Len(t, report.Groups[1].Items, 2)
	require.Len(t, report.Groups[2].Items, 6)

	require.Len(t, report.Columns, 5)
	require.Equal(t, overview.DefaultDayCount, report.Filters.DayCount)
	require.Equal(t, report.Filters.StartDate, report.Window.Start)
}

func TestService_BuildWithGroupFilter(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.stubPreferences("", "3")

	group := &taxonomy.Group{ID: "cat2", Name: "Cat2"}
	f.groupRepo.On("Get", mock.Anything, "cat2").Return(group, nil)
	f.groupRepo.On("Descendants", mock.Anything, "cat2").Return([]string{}, nil)
	f.itemRepo.On("List", mock.Anything, optsForGroup("cat2")).Return(makeItems("cat2", 2), nil)

	report, err := f.service.Build(ctx, "u1", overview.Overrides{
		GroupID: overview.StringOverride("cat2"),
	})
	require.NoError(t, err)

	// A single group collapses the layout regardless of the preference.
	require.Len(t, report.Layout.Columns, 1)
	require.Len(t, report.Groups, 1)
	require.Equal(t, "cat2", report.Groups[0].Group.ID)
	f.groupRepo.AssertNotCalled(t, "ListRoots", mock.Anything)
}

func TestService_BuildUnknownGroup(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.prefs.On("Get", mock.Anything, "u1", filtersKey).Return("", repository.ErrNotFound)
	f.prefs.On("Set", mock.Anything, "u1", filtersKey, mock.AnythingOfType("string")).Return(nil)
	f.groupRepo.On("Get", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := f.service.Build(ctx, "u1", overview.Overrides{
		GroupID: overview.StringOverride("ghost"),
	})
	require.ErrorIs(t, err, overview.ErrInvalidInput)
}

func TestService_BuildSurfacesGroupFailuresAsWarnings(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.stubPreferences("", "1")

	roots := []taxonomy.Group{{ID: "ok"}, {ID: "broken"}}
	f.groupRepo.On("ListRoots", mock.Anything).Return(roots, nil)
	f.groupRepo.On("Descendants", mock.Anything, "ok").Return([]string{}, nil)
	f.groupRepo.On("Descendants", mock.Anything, "broken").Return([]string{}, nil)
	f.itemRepo.On("List", mock.Anything, optsForGroup("ok")).Return(makeItems("ok", 1), nil)
	f.itemRepo.On("List", mock.Anything, optsForGroup("broken")).Return(nil, errors.New("backend down"))

	report, err := f.service.Build(ctx, "u1", overview.Overrides{})
	require.NoError(t, err, "one failed group must not fail the pass")

	require.Len(t, report.Groups, 2)
	require.NoError(t, report.Groups[0].Err)
	require.ErrorIs(t, report.Groups[1].Err, overview.ErrQueryFailed)
	require.Len(t, report.Warnings, 1)
	require.Contains(t, report.Warnings[0], "broken")
}

func TestService_BuildClampsExcessiveColumnPreference(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.stubPreferences("", "7")

	roots := makeGroups(4)
	f.groupRepo.On("ListRoots", mock.Anything).Return(roots, nil)
	for _, g := range roots {
		f.groupRepo.On("Descendants", mock.Anything, g.ID).Return([]string{}, nil)
		f.itemRepo.On("List", mock.Anything, optsForGroup(g.ID)).Return(makeItems(g.ID, 1), nil)
	}

	report, err := f.service.Build(ctx, "u1", overview.Overrides{})
	require.NoError(t, err)
	require.Len(t, report.Layout.Columns, overview.DefaultMaxColumns)
	require.NotEmpty(t, report.Warnings)
	require.Contains(t, report.Warnings[0], "7")
}

func TestService_SetColumnCount(t *testing.T) {
	ctx := context.Background()

	t.Run("persists valid counts", func(t *testing.T) {
		f := newServiceFixture(t)
		f.prefs.On("Set", mock.Anything, "u1", columnsKey, "2").Return(nil)

		require.NoError(t, f.service.SetColumnCount(ctx, "u1", 2))
		f.prefs.AssertExpectations(t)
	})

	t.Run("rejects out-of-range counts", func(t *testing.T) {
		f := newServiceFixture(t)

		require.ErrorIs(t, f.service.SetColumnCount(ctx, "u1", 0), overview.ErrInvalidInput)
		require.ErrorIs(t, f.service.SetColumnCount(ctx, "u1", overview.DefaultMaxColumns+1), overview.ErrInvalidInput)
		f.prefs.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
