package domain

import "github.com/pace-org/pace-go/internal/pacetime"

// FilterKind selects which subset of stored activities a query operation
// should return (spec §4.5 "Filtering").
type FilterKind int

const (
	// FilterEverything returns every stored activity regardless of state.
	FilterEverything FilterKind = iota
	// FilterOnlyActivities excludes intermissions.
	FilterOnlyActivities
	// FilterActive returns the single in-progress, non-intermission
	// activity, if any.
	FilterActive
	// FilterActiveIntermission returns the single in-progress
	// intermission, if any.
	FilterActiveIntermission
	// FilterEnded returns completed and archived activities.
	FilterEnded
	// FilterArchived returns only archived activities.
	FilterArchived
	// FilterHeld returns paused, non-intermission activities.
	FilterHeld
	// FilterIntermission returns every activity of kind Intermission,
	// regardless of status.
	FilterIntermission
	// FilterTimeRange returns activities whose begin falls within a
	// TimeRange (the TimeRange itself travels alongside the filter via
	// Filter.Range).
	FilterTimeRange
)

// Filter describes a query: a FilterKind plus the extra data some kinds
// need (only FilterTimeRange uses Range).
type Filter struct {
	Kind  FilterKind
	Range pacetime.TimeRange
}

// Matches reports whether a satisfies f.
func (f Filter) Matches(a *Activity) bool {
	switch f.Kind {
	case FilterEverything:
		return true
	case FilterOnlyActivities:
		return a.Kind() != ActivityKindIntermission
	case FilterActive:
		return a.Kind() != ActivityKindIntermission && a.IsInProgress()
	case FilterActiveIntermission:
		return a.IsActiveIntermission()
	case FilterEnded:
		return a.IsCompleted() || a.IsArchived()
	case FilterArchived:
		return a.IsArchived()
	case FilterHeld:
		return a.Kind() != ActivityKindIntermission && a.IsPaused()
	case FilterIntermission:
		return a.Kind() == ActivityKindIntermission
	case FilterTimeRange:
		return f.Range.IsInRange(a.Begin())
	default:
		return false
	}
}

// FilteredActivities is the result of running a Filter against a store:
// the matching activities in deterministic id order (spec §3.2 invariant
// 8).
type FilteredActivities struct {
	Kind       FilterKind
	Activities []*Activity
}

// Len reports how many activities matched.
func (r FilteredActivities) Len() int { return len(r.Activities) }
