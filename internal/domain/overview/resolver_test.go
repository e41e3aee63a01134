package overview_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pressdeck/overview/internal/domain/overview"
	"github.com/pressdeck/overview/internal/repository"
	"github.com/pressdeck/overview/internal/repository/mocks"
)

const filtersKey = "overview_filters"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedJSON(t *testing.T, status, groupID, authorID, startDate string, dayCount int) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"status":     status,
		"group_id":   groupID,
		"author_id":  authorID,
		"start_date": startDate,
		"day_count":  dayCount,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestResolver_Defaults(t *testing.T) {
	ctx := context.Background()
	prefs := &mocks.PreferenceRepository{}
	prefs.On("Get", ctx, "u1", filtersKey).Return("", repository.ErrNotFound)
	prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).Return(nil)

	resolver := overview.NewResolver(prefs, nil, testLogger())

	before := time.Now()
	filters, warnings, err := resolver.Resolve(ctx, "u1", overview.Overrides{})
	after := time.Now()

	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Empty(t, filters.Status)
	require.Empty(t, filters.GroupID)
	require.Empty(t, filters.AuthorID)
	require.Equal(t, overview.DefaultDayCount, filters.DayCount)

	gotDate := filters.StartDate.Format("2006-01-02")
	require.Contains(t, []string{before.Format("2006-01-02"), after.Format("2006-01-02")}, gotDate)
}

func TestResolver_ExplicitEmptyClearsStoredValue(t *testing.T) {
	ctx := context.Background()
	prefs := &mocks.PreferenceRepository{}
	prefs.On("Get", ctx, "u1", filtersKey).
		Return(storedJSON(t, "draft", "", "", "2024-05-01", 7), nil)
	prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).Return(nil)

	resolver := overview.NewResolver(prefs, nil, testLogger())

	filters, _, err := resolver.Resolve(ctx, "u1", overview.Overrides{
		Status: overview.StringOverride(""),
	})
	require.NoError(t, err)
	require.Empty(t, filters.Status, "explicit empty must not fall through to stored draft")
}

func TestResolver_AbsentFallsThroughToStored(t *testing.T) {
	ctx := context.Background()
	prefs := &mocks.PreferenceRepository{}
	prefs.On("Get", ctx, "u1", filtersKey).
		Return(storedJSON(t, "draft", "g7", "a3", "2024-05-01", 7), nil)
	prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).Return(nil)

	resolver := overview.NewResolver(prefs, nil, testLogger())

	filters, _, err := resolver.Resolve(ctx, "u1", overview.Overrides{})
	require.NoError(t, err)
	require.Equal(t, "draft", filters.Status)
	require.Equal(t, "g7", filters.GroupID)
	require.Equal(t, "a3", filters.AuthorID)
	require.Equal(t, "2024-05-01", filters.StartDate.Format("2006-01-02"))
	require.Equal(t, 7, filters.DayCount)
}

func TestResolver_OverrideWins(t *testing.T) {
	ctx := context.Background()
	prefs := &mocks.PreferenceRepository{}
	prefs.On("Get", ctx, "u1", filtersKey).
		Return(storedJSON(t, "draft", "", "", "2024-05-01", 7), nil)
	prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).Return(nil)

	resolver := overview.NewResolver(prefs, nil, testLogger())

	filters, _, err := resolver.Resolve(ctx, "u1", overview.Overrides{
		Status:    overview.StringOverride("pending"),
		StartDate: overview.StringOverride("2024-06-15"),
		DayCount:  overview.StringOverride("3"),
	})
	require.NoError(t, err)
	require.Equal(t, "pending", filters.Status)
	require.Equal(t, "2024-06-15", filters.StartDate.Format("2006-01-02"))
	require.Equal(t, 3, filters.DayCount)
}

func TestResolver_DayCountClamping(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		override string
		want     int
	}{
		{"-5", 1},
		{"1", 1},
		{"0", overview.DefaultDayCount},
		{"", overview.DefaultDayCount},
		{"30", 30},
	}

	for _, tc := range cases {
		prefs := &mocks.PreferenceRepository{}
		prefs.On("Get", ctx, "u1", filtersKey).Return("", repository.ErrNotFound)
		prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).Return(nil)

		resolver := overview.NewResolver(prefs, nil, testLogger())
		filters, _, err := resolver.Resolve(ctx, "u1", overview.Overrides{
			DayCount: overview.StringOverride(tc.override),
		})
		require.NoError(t, err, "override %q", tc.override)
		require.Equal(t, tc.want, filters.DayCount, "override %q", tc.override)
	}
}

func TestResolver_MalformedInputRejectedBeforePersist(t *testing.T) {
	ctx := context.Background()

	for _, ov := range []overview.Overrides{
		{StartDate: overview.StringOverride("yesterday")},
		{DayCount: overview.StringOverride("ten")},
	} {
		prefs := &mocks.PreferenceRepository{}
		prefs.On("Get", ctx, "u1", filtersKey).Return("", repository.ErrNotFound)

		resolver := overview.NewResolver(prefs, nil, testLogger())
		_, _, err := resolver.Resolve(ctx, "u1", ov)
		require.ErrorIs(t, err, overview.ErrInvalidInput)
		prefs.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestResolver_AuthorZeroMeansNoRestriction(t *testing.T) {
	ctx := context.Background()
	prefs := &mocks.PreferenceRepository{}
	prefs.On("Get", ctx, "u1", filtersKey).Return("", repository.ErrNotFound)
	prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).Return(nil)

	resolver := overview.NewResolver(prefs, nil, testLogger())

	filters, _, err := resolver.Resolve(ctx, "u1", overview.Overrides{
		AuthorID: overview.StringOverride("0"),
	})
	require.NoError(t, err)
	require.Empty(t, filters.AuthorID)
}

func TestResolver_PersistsMergedFilters(t *testing.T) {
	ctx := context.Background()
	var saved string

	prefs := &mocks.PreferenceRepository{}
	prefs.On("Get", ctx, "u1", filtersKey).Return("", repository.ErrNotFound)
	prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { saved = args.String(3) }).
		Return(nil)

	resolver := overview.NewResolver(prefs, nil, testLogger())

	_, _, err := resolver.Resolve(ctx, "u1", overview.Overrides{
		Status:    overview.StringOverride("pitch"),
		StartDate: overview.StringOverride("2024-02-01"),
		DayCount:  overview.StringOverride("14"),
	})
	require.NoError(t, err)

	var persisted map[string]any
	require.NoError(t, json.Unmarshal([]byte(saved), &persisted))
	require.Equal(t, "pitch", persisted["status"])
	require.Equal(t, "2024-02-01", persisted["start_date"])
	require.Equal(t, float64(14), persisted["day_count"])
}

func TestResolver_StoreFailuresAreWarnings(t *testing.T) {
	ctx := context.Background()
	prefs := &mocks.PreferenceRepository{}
	prefs.On("Get", ctx, "u1", filtersKey).Return("", errors.New("store down"))
	prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).Return(errors.New("still down"))

	resolver := overview.NewResolver(prefs, nil, testLogger())

	filters, warnings, err := resolver.Resolve(ctx, "u1", overview.Overrides{
		Status: overview.StringOverride("draft"),
	})
	require.NoError(t, err, "store failure must not fail resolution")
	require.Equal(t, "draft", filters.Status)
	require.Equal(t, overview.DefaultDayCount, filters.DayCount)
	require.Len(t, warnings, 2)
	for _, warning := range warnings {
		require.Contains(t, warning, overview.ErrStoreUnavailable.Error())
	}
}

func TestResolver_FilterTransformsApplyInOrder(t *testing.T) {
	ctx := context.Background()
	var saved string

	prefs := &mocks.PreferenceRepository{}
	prefs.On("Get", ctx, "u1", filtersKey).Return("", repository.ErrNotFound)
	prefs.On("Set", ctx, "u1", filtersKey, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { saved = args.String(3) }).
		Return(nil)

	hooks := overview.NewHooks()
	hooks.OnFilters(func(fs overview.FilterSet) overview.FilterSet {
		fs.Status = fs.Status + "-first"
		return fs
	})
	hooks.OnFilters(func(fs overview.FilterSet) overview.FilterSet {
		fs.Status = fs.Status + "-second"
		return fs
	})

	resolver := overview.NewResolver(prefs, hooks, testLogger())

	filters, _, err := resolver.Resolve(ctx, "u1", overview.Overrides{
		Status: overview.StringOverride("draft"),
	})
	require.NoError(t, err)
	require.Equal(t, "draft-first-second", filters.Status)
	require.Contains(t, saved, "draft-first-second", "transformed set is what gets persisted")
}

func TestResolver_ColumnCount(t *testing.T) {
	ctx := context.Background()
	const columnsKey = "overview_screen_columns"

	t.Run("stored value", func(t *testing.T) {
		prefs := &mocks.PreferenceRepository{}
		prefs.On("Get", ctx, "u1", columnsKey).Return("2", nil)

		resolver := overview.NewResolver(prefs, nil, testLogger())
		count, warnings := resolver.ColumnCount(ctx, "u1")
		require.Equal(t, 2, count)
		require.Empty(t, warnings)
	})

	t.Run("lazily inserts default", func(t *testing.T) {
		prefs := &mocks.PreferenceRepository{}
		prefs.On("Get", ctx, "u1", columnsKey).Return("", repository.ErrNotFound)
		prefs.On("Set", ctx, "u1", columnsKey, "1").Return(nil)

		resolver := overview.NewResolver(prefs, nil, testLogger())
		count, warnings := resolver.ColumnCount(ctx, "u1")
		require.Equal(t, overview.DefaultColumnCount, count)
		require.Empty(t, warnings)
		prefs.AssertCalled(t, "Set", ctx, "u1", columnsKey, "1")
	})

	t.Run("store failure degrades to default", func(t *testing.T) {
		prefs := &mocks.PreferenceRepository{}
		prefs.On("Get", ctx, "u1", columnsKey).Return("", errors.New("store down"))

		resolver := overview.NewResolver(prefs, nil, testLogger())
		count, warnings := resolver.ColumnCount(ctx, "u1")
		require.Equal(t, overview.DefaultColumnCount, count)
		require.Len(t, warnings, 1)
	})

	t.Run("malformed stored value ignored", func(t *testing.T) {
		prefs := &mocks.PreferenceRepository{}
		prefs.On("Get", ctx, "u1", columnsKey).Return("lots", nil)

		resolver := overview.NewResolver(prefs, nil, testLogger())
		count, _ := resolver.ColumnCount(ctx, "u1")
		require.Equal(t, overview.DefaultColumnCount, count)
	})
}

func TestResolver_SaveColumnCount(t *testing.T) {
	ctx := context.Background()
	prefs := &mocks.PreferenceRepository{}

	resolver := overview.NewResolver(prefs, nil, testLogger())
	err := resolver.SaveColumnCount(ctx, "u1", 0)
	require.ErrorIs(t, err, overview.ErrInvalidInput)

	prefs.On("Set", ctx, "u1", "overview_screen_columns", "2").Return(errors.New("store down"))
	err = resolver.SaveColumnCount(ctx, "u1", 2)
	require.ErrorIs(t, err, overview.ErrStoreUnavailable)
}
