// Package memory implements the in-memory reference activity store (spec
// §4.6): an ordered map guarded by a reader-writer lock, grounded on the
// teacher's map-plus-RWMutex tracker in
// internal/usecases/active_session_tracker.go.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage"
)

// Store is the in-memory reference backend. Begin, Hold, Resume and
// EndAllActiveIntermissions each hold one exclusive lock for the whole
// composite operation, so their cascades are never interleaved with
// another writer. EndAll alone selects its targets under a shared lock,
// releases it, and then ends them under one exclusive lock.
type Store struct {
	mu                sync.RWMutex
	activities        map[domain.ActivityID]*domain.Activity
	clock             pacetime.Clock
	categorySeparator string
}

// Config configures a new Store.
type Config struct {
	Clock pacetime.Clock
	// CategorySeparator is used only by callers that split categories;
	// the store itself treats category as an opaque string.
	CategorySeparator string
}

// New constructs an empty in-memory store.
func New(cfg Config) *Store {
	clock := cfg.Clock
	if clock == nil {
		clock = pacetime.DefaultClock
	}
	sep := cfg.CategorySeparator
	if sep == "" {
		sep = "::"
	}
	return &Store{
		activities:        make(map[domain.ActivityID]*domain.Activity),
		clock:             clock,
		categorySeparator: sep,
	}
}

var _ storage.Store = (*Store)(nil)

// Lifecycle

func (s *Store) Setup(ctx context.Context) error    { return nil }
func (s *Store) Teardown(ctx context.Context) error { return nil }
func (s *Store) Identify() string                   { return "in-memory" }

// Sync is a no-op: the in-memory store has nothing to flush.
func (s *Store) Sync(ctx context.Context) error { return nil }

// sortedIDsLocked returns every stored id in ascending order. Caller
// must hold at least a read lock.
func (s *Store) sortedIDsLocked() []domain.ActivityID {
	ids := make([]domain.ActivityID, 0, len(s.activities))
	for id := range s.activities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// snapshotLocked returns every stored activity, cloned, in ascending id
// order. Caller must hold at least a read lock.
func (s *Store) snapshotLocked() []*domain.Activity {
	ids := s.sortedIDsLocked()
	out := make([]*domain.Activity, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.activities[id].Clone())
	}
	return out
}

// Read ops

func (s *Store) Read(ctx context.Context, id domain.ActivityID) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[id]
	if !ok {
		return nil, domain.NotFound(id)
	}
	return a.Clone(), nil
}

func (s *Store) List(ctx context.Context, filter domain.Filter) (domain.FilteredActivities, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := domain.FilteredActivities{Kind: filter.Kind}
	for _, a := range s.snapshotLocked() {
		if filter.Matches(a) {
			result.Activities = append(result.Activities, a)
		}
	}
	return result, nil
}

// Write ops

func (s *Store) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(activity)
}

func (s *Store) createLocked(activity *domain.Activity) (*domain.Activity, error) {
	if _, exists := s.activities[activity.ID()]; exists {
		return nil, domain.AlreadyInUse(activity.ID())
	}
	stored := activity.Clone()
	s.activities[stored.ID()] = stored
	return stored.Clone(), nil
}

func (s *Store) Update(ctx context.Context, id domain.ActivityID, patch storage.ActivityPatch, opts storage.UpdateOptions) (domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return domain.Activity{}, domain.NotFound(id)
	}
	preImage := a.MergePatch(patch, opts)
	return preImage, nil
}

func (s *Store) Delete(ctx context.Context, id domain.ActivityID, opts storage.DeleteOptions) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return nil, domain.NotFound(id)
	}
	removed := a.Clone()
	delete(s.activities, id)
	return removed, nil
}

// State management

// Begin implements spec §4.4.1: validate, cascade-end whatever else is
// in progress, insert, return the stored item.
func (s *Store) Begin(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	if err := activity.Begin().Validate(s.clock); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Cascade: end whatever else is currently InProgress, using the new
	// activity's begin as the end time, before inserting it.
	for _, id := range s.sortedIDsLocked() {
		other := s.activities[id]
		if other.IsInProgress() {
			if err := s.endLocked(id, domain.EndOptions{End: activity.Begin()}); err != nil {
				return nil, err
			}
		}
	}

	activity.BeginActivity()
	return s.createLocked(activity)
}

// endLocked ends a single activity, recomputing duration from begin/end
// (spec §4.4.2 step 2). Caller must hold the write lock.
func (s *Store) endLocked(id domain.ActivityID, opts domain.EndOptions) error {
	a, ok := s.activities[id]
	if !ok {
		return domain.NotFound(id)
	}
	duration, err := pacetime.DurationBetween(a.Begin(), opts.End)
	if err != nil {
		return err
	}
	return a.EndActivity(domain.EndOptions{End: opts.End, Duration: duration})
}

func (s *Store) End(ctx context.Context, id domain.ActivityID, opts domain.EndOptions) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.endLocked(id, opts); err != nil {
		return nil, err
	}
	return s.activities[id].Clone(), nil
}

// EndAll ends every completable (InProgress or Paused) activity (spec
// §4.4.2 "end_all").
func (s *Store) EndAll(ctx context.Context, opts domain.EndOptions) ([]*domain.Activity, error) {
	s.mu.RLock()
	var target []domain.ActivityID
	for _, id := range s.sortedIDsLocked() {
		a := s.activities[id]
		if a.IsInProgress() || a.IsPaused() {
			target = append(target, id)
		}
	}
	s.mu.RUnlock()

	if len(target) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Activity, 0, len(target))
	for _, id := range target {
		if err := s.endLocked(id, opts); err != nil {
			return nil, err
		}
		out = append(out, s.activities[id].Clone())
	}
	return out, nil
}

// EndLastUnfinished ends only the most recent in-progress activity,
// ordered by id descending (spec §4.4.2). If there is none, it succeeds
// with (nil, nil) rather than failing (spec §8 scenario 4's sibling
// behavior for the other "most recent" operations).
func (s *Store) EndLastUnfinished(ctx context.Context, opts domain.EndOptions) (*domain.Activity, error) {
	mostRecent, ok, err := s.MostRecentActiveActivity(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.End(ctx, mostRecent.ID(), opts)
}

// Hold implements spec §4.4.3.
func (s *Store) Hold(ctx context.Context, id domain.ActivityID, opts storage.HoldOptions) (*domain.Activity, *domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.activities[id]
	if !ok {
		return nil, nil, domain.NotFound(id)
	}
	if !parent.IsInProgress() {
		switch {
		case parent.IsArchived():
			return nil, nil, domain.ErrActivityAlreadyArchived
		case parent.IsCompleted():
			return nil, nil, domain.ErrActivityAlreadyEnded
		default:
			return nil, nil, domain.ErrNoActiveActivityFound
		}
	}

	existingLinks := s.activeIntermissionsForParentLocked(id)
	if len(existingLinks) > 0 && opts.Action == storage.HoldExtend {
		return parent.Clone(), nil, nil
	}

	if err := s.endAllActiveIntermissionsLocked(domain.EndOptions{End: opts.Begin}); err != nil {
		return nil, nil, err
	}

	description := opts.Reason
	if description == "" {
		description = parent.Description()
	}
	category := parent.Category()

	intermission, err := domain.NewActivity(domain.CreateConfig{
		Description: description,
		Category:    category,
		Kind:        domain.ActivityKindIntermission,
		Status:      domain.StatusInProgress,
		Begin:       opts.Begin,
		KindOptions: &domain.KindOptions{ParentID: id},
	}, s.clock)
	if err != nil {
		return nil, nil, err
	}
	stored, err := s.createLocked(intermission)
	if err != nil {
		return nil, nil, err
	}

	parent.Pause()

	return parent.Clone(), stored, nil
}

// HoldMostRecentActive picks the highest-id InProgress activity and
// delegates to Hold (spec §4.4.3).
func (s *Store) HoldMostRecentActive(ctx context.Context, opts storage.HoldOptions) (*domain.Activity, *domain.Activity, error) {
	mostRecent, ok, err := s.MostRecentActiveActivity(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, nil
	}
	return s.Hold(ctx, mostRecent.ID(), opts)
}

// activeIntermissionsForParentLocked mirrors the original's
// list_active_intermissions_for_activity_id: only a currently-active
// (InProgress) intermission should block a fresh HoldExtend, not a
// historical one that has already been resumed and ended.
func (s *Store) activeIntermissionsForParentLocked(parentID domain.ActivityID) []*domain.Activity {
	var out []*domain.Activity
	for _, id := range s.sortedIDsLocked() {
		a := s.activities[id]
		if !a.IsActiveIntermission() {
			continue
		}
		if linkedParent, ok := a.ParentID(); ok && linkedParent == parentID {
			out = append(out, a)
		}
	}
	return out
}

// EndAllActiveIntermissions ends every in-progress intermission (spec
// §4.4.5), failing with ActivityNotEnded if the ended count doesn't
// match the selected count (defensive: under our own write lock this
// never happens, but backends with weaker isolation might observe it).
func (s *Store) EndAllActiveIntermissions(ctx context.Context, opts domain.EndOptions) ([]*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target []domain.ActivityID
	for _, id := range s.sortedIDsLocked() {
		a := s.activities[id]
		if a.IsActiveIntermission() {
			target = append(target, id)
		}
	}
	if len(target) == 0 {
		return nil, nil
	}

	out := make([]*domain.Activity, 0, len(target))
	for _, id := range target {
		if err := s.endLocked(id, opts); err != nil {
			return nil, err
		}
		out = append(out, s.activities[id].Clone())
	}
	if len(out) != len(target) {
		return nil, domain.ErrActivityNotEnded
	}
	return out, nil
}

func (s *Store) endAllActiveIntermissionsLocked(opts domain.EndOptions) error {
	for _, id := range s.sortedIDsLocked() {
		a := s.activities[id]
		if a.IsActiveIntermission() {
			if err := s.endLocked(id, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resume implements spec §4.4.4.
func (s *Store) Resume(ctx context.Context, id domain.ActivityID, opts storage.ResumeOptions) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return nil, domain.NotFound(id)
	}
	switch {
	case a.IsInProgress():
		return nil, domain.ErrActiveActivityFound
	case a.IsCompleted():
		return nil, domain.ErrActivityAlreadyEnded
	case a.IsArchived():
		return nil, domain.ErrActivityAlreadyArchived
	case !a.IsPaused():
		return nil, domain.ErrNoHeldActivityFound
	}

	resumeAt := opts.Resume
	if resumeAt.IsZero() {
		resumeAt = pacetime.Now(s.clock)
	}
	if err := s.endAllActiveIntermissionsLocked(domain.EndOptions{End: resumeAt}); err != nil {
		return nil, err
	}

	a.Resume()
	return a.Clone(), nil
}

// ResumeMostRecent selects the highest-id Paused activity and delegates
// to Resume. If there is none, it succeeds with (nil, nil) rather than
// failing (spec §8 scenario 4: "resume_most_recent() returns success
// with none (no error)").
func (s *Store) ResumeMostRecent(ctx context.Context, opts storage.ResumeOptions) (*domain.Activity, error) {
	mostRecent, ok, err := s.MostRecentHeldActivity(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.Resume(ctx, mostRecent.ID(), opts)
}

// Querying

func (s *Store) ListByID(ctx context.Context, ids []domain.ActivityID) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Activity, 0, len(ids))
	for _, id := range ids {
		a, ok := s.activities[id]
		if !ok {
			return nil, domain.NotFound(id)
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

func (s *Store) GroupByStartDate(ctx context.Context) (map[pacetime.Date][]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[pacetime.Date][]*domain.Activity)
	for _, a := range s.snapshotLocked() {
		date := a.Begin().Date()
		out[date] = append(out[date], a)
	}
	return out, nil
}

func (s *Store) GroupByKind(ctx context.Context) (map[domain.ActivityKind][]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.ActivityKind][]*domain.Activity)
	for _, a := range s.snapshotLocked() {
		out[a.Kind()] = append(out[a.Kind()], a)
	}
	return out, nil
}

func (s *Store) GroupByStatus(ctx context.Context) (map[domain.Status][]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.Status][]*domain.Activity)
	for _, a := range s.snapshotLocked() {
		out[a.Status()] = append(out[a.Status()], a)
	}
	return out, nil
}

// GroupByKeywords implements spec §4.5: with a category pattern, buckets
// the activities whose category matches (substring, case-insensitive
// unless CaseSensitive); without one, buckets every activity by its own
// raw category, substituting "Uncategorized" for an absent one.
func (s *Store) GroupByKeywords(ctx context.Context, opts storage.KeywordOptions) (map[string][]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]*domain.Activity)
	pattern := opts.Category
	if !opts.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}

	for _, a := range s.snapshotLocked() {
		category := a.Category()
		if category == "" {
			category = "Uncategorized"
		}

		if pattern == "" {
			out[category] = append(out[category], a)
			continue
		}

		haystack := category
		if !opts.CaseSensitive {
			haystack = strings.ToLower(haystack)
		}
		if strings.Contains(haystack, pattern) {
			out[category] = append(out[category], a)
		}
	}
	return out, nil
}

// ListWithIntermissions returns, for every parent id that owns at least
// one intermission, the parent activity once per intermission it owns —
// preserved verbatim from the original implementation's shape even
// though it reads oddly (a tally of "how many intermissions", keyed by
// parent, expressed as repeated parent copies).
func (s *Store) ListWithIntermissions(ctx context.Context) (map[domain.ActivityID][]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.ActivityID][]*domain.Activity)
	for _, a := range s.snapshotLocked() {
		if a.Kind() != domain.ActivityKindIntermission {
			continue
		}
		parentID, ok := a.ParentID()
		if !ok {
			continue
		}
		parent, exists := s.activities[parentID]
		if !exists {
			continue
		}
		out[parentID] = append(out[parentID], parent.Clone())
	}
	return out, nil
}

// ListByTimeRange returns activities of kind Activity (not Intermission)
// whose begin lies in rng (spec §4.5).
func (s *Store) ListByTimeRange(ctx context.Context, rng pacetime.TimeRange) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Activity
	for _, a := range s.snapshotLocked() {
		if a.Kind() == domain.ActivityKindIntermission {
			continue
		}
		if rng.IsInRange(a.Begin()) {
			out = append(out, a)
		}
	}
	return out, nil
}

// MostRecentActiveActivity returns the highest-id InProgress,
// non-intermission activity.
func (s *Store) MostRecentActiveActivity(ctx context.Context) (*domain.Activity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedIDsLocked()
	for i := len(ids) - 1; i >= 0; i-- {
		a := s.activities[ids[i]]
		if a.Kind() != domain.ActivityKindIntermission && a.IsInProgress() {
			return a.Clone(), true, nil
		}
	}
	return nil, false, nil
}

// MostRecentHeldActivity returns the highest-id Paused, non-intermission
// activity.
func (s *Store) MostRecentHeldActivity(ctx context.Context) (*domain.Activity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedIDsLocked()
	for i := len(ids) - 1; i >= 0; i-- {
		a := s.activities[ids[i]]
		if a.Kind() != domain.ActivityKindIntermission && a.IsPaused() {
			return a.Clone(), true, nil
		}
	}
	return nil, false, nil
}

func (s *Store) ListActiveIntermissions(ctx context.Context) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Activity
	for _, a := range s.snapshotLocked() {
		if a.IsActiveIntermission() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListActiveIntermissionsFor(ctx context.Context, parentID domain.ActivityID) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Activity
	for _, a := range s.snapshotLocked() {
		if !a.IsActiveIntermission() {
			continue
		}
		if linked, ok := a.ParentID(); ok && linked == parentID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListEndedIntermissionsFor returns every Completed intermission linked
// to parentID.
func (s *Store) ListEndedIntermissionsFor(ctx context.Context, parentID domain.ActivityID) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Activity
	for _, a := range s.snapshotLocked() {
		if a.Kind() != domain.ActivityKindIntermission || !a.IsCompleted() {
			continue
		}
		if linked, ok := a.ParentID(); ok && linked == parentID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListMostRecent returns up to n activities sorted by id descending.
func (s *Store) ListMostRecent(ctx context.Context, n int) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedIDsLocked()
	if n > len(ids) {
		n = len(ids)
	}
	out := make([]*domain.Activity, 0, n)
	for i := len(ids) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.activities[ids[i]].Clone())
	}
	return out, nil
}

func (s *Store) IsActive(ctx context.Context, id domain.ActivityID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[id]
	if !ok {
		return false, domain.NotFound(id)
	}
	return a.IsInProgress(), nil
}
