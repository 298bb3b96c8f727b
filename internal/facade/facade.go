// Package facade implements the single entry point an application
// (CLI, status server) talks to: one storage backend plus the derived
// start-date cache populated at construction (spec §4.7), grounded on
// the teacher's single-entry-point orchestration in
// internal/business/session_manager.go, adapted from a concrete
// sqlite-repository dependency to the generic storage.Store capability
// interface so any backend (in-memory, file, future SQL) can sit behind
// it unchanged.
package facade

import (
	"context"
	"fmt"
	"sync"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage"
)

// Facade owns one backend and the derived by-start-date cache (spec
// §4.7). All capability methods delegate to the backend; Reflect is the
// one value-added operation the façade itself computes.
type Facade struct {
	backend storage.Store

	mu          sync.RWMutex
	byStartDate map[pacetime.Date][]*domain.Activity

	categorySeparator string
}

// Config configures a new Facade.
type Config struct {
	Backend           storage.Store
	CategorySeparator string
}

// New constructs a Facade over backend: calls backend.Setup(), then
// populates the start-date cache from backend.GroupByStartDate() (spec
// §4.7 steps 1-2).
func New(ctx context.Context, cfg Config) (*Facade, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("facade: backend must not be nil")
	}
	if err := cfg.Backend.Setup(ctx); err != nil {
		return nil, err
	}

	sep := cfg.CategorySeparator
	if sep == "" {
		sep = "::"
	}
	f := &Facade{backend: cfg.Backend, categorySeparator: sep}
	if err := f.RefreshCache(ctx); err != nil {
		return nil, domain.WrapPopulatingCache(err)
	}
	return f, nil
}

// RefreshCache repopulates the start-date cache from the backend. Called
// at construction and may be called again on demand (spec §4.7
// "refreshed on demand").
func (f *Facade) RefreshCache(ctx context.Context) error {
	grouped, err := f.backend.GroupByStartDate(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.byStartDate = grouped
	f.mu.Unlock()
	return nil
}

// ByStartDate returns the cached activities for date, and whether any
// were found.
func (f *Facade) ByStartDate(date pacetime.Date) ([]*domain.Activity, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	activities, ok := f.byStartDate[date]
	return activities, ok
}

// Backend exposes the underlying store for callers (e.g. the status
// server) that need direct access alongside the façade's derived views.
func (f *Facade) Backend() storage.Store { return f.backend }

// Close tears down the backend (spec §4.8 "teardown is defined as
// sync").
func (f *Facade) Close(ctx context.Context) error {
	return f.backend.Teardown(ctx)
}

// The remaining capability methods delegate to the backend. Beyond
// Setup/cache population and Reflect (reflection.go), the façade only
// refreshes the cache after Create, Delete, Begin and a Hold that starts
// an intermission, wraps GroupByKeywords and ListByTimeRange errors in
// their aggregation kinds, and applies ListMostRecent's default count.

func (f *Facade) Read(ctx context.Context, id domain.ActivityID) (*domain.Activity, error) {
	return f.backend.Read(ctx, id)
}

func (f *Facade) List(ctx context.Context, filter domain.Filter) (domain.FilteredActivities, error) {
	return f.backend.List(ctx, filter)
}

func (f *Facade) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	stored, err := f.backend.Create(ctx, activity)
	if err == nil {
		f.invalidateAfterWrite(ctx)
	}
	return stored, err
}

func (f *Facade) Update(ctx context.Context, id domain.ActivityID, patch storage.ActivityPatch, opts storage.UpdateOptions) (domain.Activity, error) {
	return f.backend.Update(ctx, id, patch, opts)
}

func (f *Facade) Delete(ctx context.Context, id domain.ActivityID, opts storage.DeleteOptions) (*domain.Activity, error) {
	pre, err := f.backend.Delete(ctx, id, opts)
	if err == nil {
		f.invalidateAfterWrite(ctx)
	}
	return pre, err
}

func (f *Facade) Begin(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	stored, err := f.backend.Begin(ctx, activity)
	if err == nil {
		f.invalidateAfterWrite(ctx)
	}
	return stored, err
}

func (f *Facade) End(ctx context.Context, id domain.ActivityID, opts domain.EndOptions) (*domain.Activity, error) {
	return f.backend.End(ctx, id, opts)
}

func (f *Facade) EndAll(ctx context.Context, opts domain.EndOptions) ([]*domain.Activity, error) {
	return f.backend.EndAll(ctx, opts)
}

func (f *Facade) EndLastUnfinished(ctx context.Context, opts domain.EndOptions) (*domain.Activity, error) {
	return f.backend.EndLastUnfinished(ctx, opts)
}

func (f *Facade) Hold(ctx context.Context, id domain.ActivityID, opts storage.HoldOptions) (*domain.Activity, *domain.Activity, error) {
	parent, intermission, err := f.backend.Hold(ctx, id, opts)
	if err == nil && intermission != nil {
		f.invalidateAfterWrite(ctx)
	}
	return parent, intermission, err
}

func (f *Facade) HoldMostRecentActive(ctx context.Context, opts storage.HoldOptions) (*domain.Activity, *domain.Activity, error) {
	parent, intermission, err := f.backend.HoldMostRecentActive(ctx, opts)
	if err == nil && intermission != nil {
		f.invalidateAfterWrite(ctx)
	}
	return parent, intermission, err
}

func (f *Facade) EndAllActiveIntermissions(ctx context.Context, opts domain.EndOptions) ([]*domain.Activity, error) {
	return f.backend.EndAllActiveIntermissions(ctx, opts)
}

func (f *Facade) Resume(ctx context.Context, id domain.ActivityID, opts storage.ResumeOptions) (*domain.Activity, error) {
	return f.backend.Resume(ctx, id, opts)
}

func (f *Facade) ResumeMostRecent(ctx context.Context, opts storage.ResumeOptions) (*domain.Activity, error) {
	return f.backend.ResumeMostRecent(ctx, opts)
}

func (f *Facade) ListByID(ctx context.Context, ids []domain.ActivityID) ([]*domain.Activity, error) {
	return f.backend.ListByID(ctx, ids)
}

func (f *Facade) GroupByKind(ctx context.Context) (map[domain.ActivityKind][]*domain.Activity, error) {
	return f.backend.GroupByKind(ctx)
}

func (f *Facade) GroupByStatus(ctx context.Context) (map[domain.Status][]*domain.Activity, error) {
	return f.backend.GroupByStatus(ctx)
}

func (f *Facade) GroupByKeywords(ctx context.Context, opts storage.KeywordOptions) (map[string][]*domain.Activity, error) {
	grouped, err := f.backend.GroupByKeywords(ctx, opts)
	if err != nil {
		return nil, domain.WrapGroupByKeywords(err)
	}
	return grouped, nil
}

func (f *Facade) ListWithIntermissions(ctx context.Context) (map[domain.ActivityID][]*domain.Activity, error) {
	return f.backend.ListWithIntermissions(ctx)
}

func (f *Facade) ListByTimeRange(ctx context.Context, rng pacetime.TimeRange) ([]*domain.Activity, error) {
	activities, err := f.backend.ListByTimeRange(ctx, rng)
	if err != nil {
		return nil, domain.WrapListActivitiesByTimeRange(err)
	}
	return activities, nil
}

func (f *Facade) MostRecentActiveActivity(ctx context.Context) (*domain.Activity, bool, error) {
	return f.backend.MostRecentActiveActivity(ctx)
}

func (f *Facade) MostRecentHeldActivity(ctx context.Context) (*domain.Activity, bool, error) {
	return f.backend.MostRecentHeldActivity(ctx)
}

func (f *Facade) ListActiveIntermissions(ctx context.Context) ([]*domain.Activity, error) {
	return f.backend.ListActiveIntermissions(ctx)
}

func (f *Facade) ListActiveIntermissionsFor(ctx context.Context, parentID domain.ActivityID) ([]*domain.Activity, error) {
	return f.backend.ListActiveIntermissionsFor(ctx, parentID)
}

func (f *Facade) ListEndedIntermissionsFor(ctx context.Context, parentID domain.ActivityID) ([]*domain.Activity, error) {
	return f.backend.ListEndedIntermissionsFor(ctx, parentID)
}

// ListMostRecent delegates with n, defaulting to defaultCount when n <= 0 —
// the façade is where config.GeneralConfig.MostRecentCount's default
// (9, SPEC_FULL.md §3.x) is applied, since the storage contract itself
// takes an explicit n.
func (f *Facade) ListMostRecent(ctx context.Context, n int, defaultCount int) ([]*domain.Activity, error) {
	if n <= 0 {
		n = defaultCount
	}
	return f.backend.ListMostRecent(ctx, n)
}

func (f *Facade) IsActive(ctx context.Context, id domain.ActivityID) (bool, error) {
	return f.backend.IsActive(ctx, id)
}

// invalidateAfterWrite refreshes the start-date cache after a write that
// can introduce a new date bucket. Errors are swallowed into a stale
// cache rather than failing the write they're attached to — the cache is
// a read-side optimization, not a correctness dependency (every method
// above that doesn't go through it reads the backend directly).
func (f *Facade) invalidateAfterWrite(ctx context.Context) {
	_ = f.RefreshCache(ctx)
}
