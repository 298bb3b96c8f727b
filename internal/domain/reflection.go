package domain

import "github.com/pace-org/pace-go/internal/pacetime"

// ActivityGroup folds one or more activities that share a description
// into a single aggregate: their combined duration, their linked
// intermissions' combined break time, and the session ids that
// contributed (spec §3.1 "ReflectionSummary").
type ActivityGroup struct {
	description          string
	activitySessions      []ActivityID
	adjustedDuration      pacetime.Duration
	intermissionDuration  pacetime.Duration
	intermissionCount     int
}

// NewActivityGroup seeds a group from a single completed activity.
func NewActivityGroup(a *Activity) *ActivityGroup {
	var duration pacetime.Duration
	if end, ok := a.EndOptions(); ok {
		duration = end.Duration
	}
	return &ActivityGroup{
		description:      a.Description(),
		activitySessions: []ActivityID{a.ID()},
		adjustedDuration: duration,
	}
}

// Description returns the description shared by every session in g.
func (g *ActivityGroup) Description() string { return g.description }

// ActivitySessions returns the ids folded into g.
func (g *ActivityGroup) ActivitySessions() []ActivityID { return g.activitySessions }

// AdjustedDuration returns the summed duration of g's activity sessions.
func (g *ActivityGroup) AdjustedDuration() pacetime.Duration { return g.adjustedDuration }

// IntermissionDuration returns the summed duration of g's linked breaks.
func (g *ActivityGroup) IntermissionDuration() pacetime.Duration { return g.intermissionDuration }

// IntermissionCount returns the number of linked, ended breaks folded
// into g.
func (g *ActivityGroup) IntermissionCount() int { return g.intermissionCount }

// AddIntermission folds an ended intermission's break time into g.
// In-progress intermissions contribute no duration until they end, so
// they are skipped here (spec §4.7 step 2 reads both ended and
// still-open intermissions, but only a completed one has a duration to
// fold in).
func (g *ActivityGroup) AddIntermission(intermission *Activity) {
	end, ok := intermission.EndOptions()
	if !ok {
		return
	}
	g.intermissionDuration = g.intermissionDuration.Add(end.Duration)
	g.intermissionCount++
}

// AddMultipleIntermissions folds a batch of linked intermissions into g.
func (g *ActivityGroup) AddMultipleIntermissions(intermissions []*Activity) {
	for _, i := range intermissions {
		g.AddIntermission(i)
	}
}

// Merge folds another group sharing the same description into g,
// combining sessions, durations, and break counts rather than
// discarding the collision (spec §4.7 "merging on collision").
func (g *ActivityGroup) Merge(other *ActivityGroup) {
	g.activitySessions = append(g.activitySessions, other.activitySessions...)
	g.adjustedDuration = g.adjustedDuration.Add(other.adjustedDuration)
	g.intermissionDuration = g.intermissionDuration.Add(other.intermissionDuration)
	g.intermissionCount += other.intermissionCount
}

// SummaryActivityGroup aggregates every ActivityGroup sharing a
// (category, subcategory) pair (spec §3.1).
type SummaryActivityGroup struct {
	totalDuration               pacetime.Duration
	totalBreakDuration          pacetime.Duration
	totalBreakCount             int
	activityGroupsByDescription map[string]*ActivityGroup
}

// NewSummaryActivityGroup seeds a summary group from a single activity
// group.
func NewSummaryActivityGroup(ag *ActivityGroup) *SummaryActivityGroup {
	s := &SummaryActivityGroup{
		activityGroupsByDescription: make(map[string]*ActivityGroup),
	}
	s.AddActivityGroup(ag)
	return s
}

// AddActivityGroup folds ag into s, merging with any existing group
// under the same description instead of discarding the collision.
func (s *SummaryActivityGroup) AddActivityGroup(ag *ActivityGroup) {
	s.totalDuration = s.totalDuration.Add(ag.adjustedDuration)
	s.totalBreakDuration = s.totalBreakDuration.Add(ag.intermissionDuration)
	s.totalBreakCount += ag.intermissionCount

	if existing, ok := s.activityGroupsByDescription[ag.description]; ok {
		existing.Merge(ag)
		return
	}
	s.activityGroupsByDescription[ag.description] = ag
}

func (s *SummaryActivityGroup) TotalDuration() pacetime.Duration      { return s.totalDuration }
func (s *SummaryActivityGroup) TotalBreakDuration() pacetime.Duration { return s.totalBreakDuration }
func (s *SummaryActivityGroup) TotalBreakCount() int                  { return s.totalBreakCount }

// ActivityGroupsByDescription returns the per-description groups folded
// into s.
func (s *SummaryActivityGroup) ActivityGroupsByDescription() map[string]*ActivityGroup {
	return s.activityGroupsByDescription
}

// Len reports how many distinct descriptions s holds.
func (s *SummaryActivityGroup) Len() int { return len(s.activityGroupsByDescription) }

// SummaryCategory is the (category, subcategory) key a ReflectionSummary
// groups by (spec §3.1).
type SummaryCategory struct {
	Category    string
	Subcategory string
}

// ReflectionSummary is the derived, read-only aggregate produced by the
// reflection builder for a resolved time range (spec §3.1, §4.7).
type ReflectionSummary struct {
	TimeRange          pacetime.TimeRange
	TotalTimeSpent     pacetime.Duration
	TotalBreakDuration pacetime.Duration
	GroupsByCategory   map[SummaryCategory]*SummaryActivityGroup
}

// NewReflectionSummary builds the top-level totals from the already
// folded per-category groups.
func NewReflectionSummary(timeRange pacetime.TimeRange, groups map[SummaryCategory]*SummaryActivityGroup) *ReflectionSummary {
	var total, breaks pacetime.Duration
	for _, g := range groups {
		total = total.Add(g.TotalDuration())
		breaks = breaks.Add(g.TotalBreakDuration())
	}
	return &ReflectionSummary{
		TimeRange:          timeRange,
		TotalTimeSpent:     total,
		TotalBreakDuration: breaks,
		GroupsByCategory:   groups,
	}
}
