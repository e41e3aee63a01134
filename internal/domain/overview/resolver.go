package overview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pressdeck/overview/internal/repository"
)

// Preference keys used in the preference store.
const (
	prefKeyFilters       = "overview_filters"
	prefKeyScreenColumns = "overview_screen_columns"
)

// Hard defaults applied when neither the request nor the stored
// preferences supply a value.
const (
	DefaultDayCount    = 10
	DefaultColumnCount = 1
)

// Resolver merges request overrides, persisted preferences, and hard
// defaults into one effective filter set, persisting the result back.
type Resolver struct {
	prefs  repository.PreferenceRepository
	hooks  *Hooks
	now    func() time.Time
	logger *slog.Logger
}

// NewResolver creates a filter resolver.
func NewResolver(prefs repository.PreferenceRepository, hooks *Hooks, logger *slog.Logger) *Resolver {
	return &Resolver{
		prefs:  prefs,
		hooks:  hooks,
		now:    time.Now,
		logger: logger,
	}
}

// storedFilters is the serialized preference shape.
type storedFilters struct {
	Status    string `json:"status"`
	GroupID   string `json:"group_id"`
	AuthorID  string `json:"author_id"`
	StartDate string `json:"start_date"`
	DayCount  int    `json:"day_count"`
}

// Resolve computes the effective filter set for a user. Field semantics
// are tri-state: a nil override falls through to the stored value, an
// empty override explicitly clears the field. The merged set is run
// through registered filter transforms and persisted. Store failures are
// non-fatal and come back as warnings; only malformed input is an error.
func (r *Resolver) Resolve(ctx context.Context, userID string, ov Overrides) (FilterSet, []string, error) {
	var warnings []string

	stored, warn := r.loadStored(ctx, userID)
	if warn != "" {
		warnings = append(warnings, warn)
	}

	fs := FilterSet{
		Status:   mergeField(ov.Status, stored.Status),
		GroupID:  mergeField(ov.GroupID, stored.GroupID),
		AuthorID: mergeField(ov.AuthorID, stored.AuthorID),
	}

	// Author "0" is the dropdown's "all users" value, not a real author.
	if fs.AuthorID == "0" {
		fs.AuthorID = ""
	}

	startDate, err := r.resolveStartDate(ov.StartDate, stored.StartDate)
	if err != nil {
		return FilterSet{}, nil, err
	}
	fs.StartDate = startDate

	dayCount, err := resolveDayCount(ov.DayCount, stored.DayCount)
	if err != nil {
		return FilterSet{}, nil, err
	}
	fs.DayCount = dayCount

	fs = r.hooks.applyFilters(fs)

	if warn := r.persist(ctx, userID, fs); warn != "" {
		warnings = append(warnings, warn)
	}

	return fs, warnings, nil
}

// ColumnCount returns the user's column preference, lazily inserting the
// default on first access. Store failures fall back to the default with
// a warning.
func (r *Resolver) ColumnCount(ctx context.Context, userID string) (int, []string) {
	raw, err := r.prefs.Get(ctx, userID, prefKeyScreenColumns)
	if err == nil {
		count, convErr := strconv.Atoi(raw)
		if convErr == nil && count >= 1 {
			return count, nil
		}
		r.logger.Warn("ignoring malformed column preference", "user_id", userID, "value", raw)
		return DefaultColumnCount, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return DefaultColumnCount, []string{storeWarning("reading column preference", err)}
	}

	if err := r.SaveColumnCount(ctx, userID, DefaultColumnCount); err != nil {
		return DefaultColumnCount, []string{storeWarning("storing default column preference", err)}
	}
	return DefaultColumnCount, nil
}

// SaveColumnCount persists the user's column preference. Range
// validation against the configured maximum is the caller's concern.
func (r *Resolver) SaveColumnCount(ctx context.Context, userID string, count int) error {
	if count < 1 {
		return fmt.Errorf("%w: column count %d", ErrInvalidInput, count)
	}
	if err := r.prefs.Set(ctx, userID, prefKeyScreenColumns, strconv.Itoa(count)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *Resolver) loadStored(ctx context.Context, userID string) (storedFilters, string) {
	raw, err := r.prefs.Get(ctx, userID, prefKeyFilters)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return storedFilters{}, ""
		}
		return storedFilters{}, storeWarning("reading filters", err)
	}

	var stored storedFilters
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.logger.Warn("discarding malformed stored filters", "user_id", userID, "error", err)
		return storedFilters{}, ""
	}
	return stored, ""
}

func (r *Resolver) persist(ctx context.Context, userID string, fs FilterSet) string {
	stored := storedFilters{
		Status:    fs.Status,
		GroupID:   fs.GroupID,
		AuthorID:  fs.AuthorID,
		StartDate: fs.StartDate.Format(dateLayout),
		DayCount:  fs.DayCount,
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return storeWarning("serializing filters", err)
	}
	if err := r.prefs.Set(ctx, userID, prefKeyFilters, string(raw)); err != nil {
		return storeWarning("storing filters", err)
	}
	return ""
}

// resolveStartDate merges the start date with tri-state semantics. An
// explicit empty override and an absent stored value both land on today;
// a malformed request date is an input error, never a silent default.
func (r *Resolver) resolveStartDate(override *string, stored string) (time.Time, error) {
	if override != nil {
		if *override == "" {
			return r.today(), nil
		}
		return ParseDate(*override)
	}

	if stored != "" {
		t, err := ParseDate(stored)
		if err == nil {
			return t, nil
		}
		r.logger.Warn("ignoring malformed stored start date", "value", stored)
	}

	return r.today(), nil
}

func resolveDayCount(override *string, stored int) (int, error) {
	count := stored
	if override != nil {
		if *override == "" {
			count = 0
		} else {
			parsed, err := strconv.Atoi(*override)
			if err != nil {
				return 0, fmt.Errorf("%w: parsing day count %q", ErrInvalidInput, *override)
			}
			count = parsed
		}
	}

	if count == 0 {
		return DefaultDayCount, nil
	}
	if count < 1 {
		return 1, nil
	}
	return count, nil
}

func (r *Resolver) today() time.Time {
	now := r.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// mergeField applies tri-state precedence for a string filter field.
func mergeField(override *string, stored string) string {
	if override != nil {
		return *override
	}
	return stored
}

func storeWarning(op string, err error) string {
	return fmt.Sprintf("%v: %s: %v", ErrStoreUnavailable, op, err)
}
