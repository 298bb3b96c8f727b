package facade

import (
	"context"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
)

// Reflect computes the summary-groups-by-category aggregation for rng
// (spec §4.7): list activities beginning in rng, fold each one's linked
// intermissions (active and already-ended) into an ActivityGroup, then
// bucket by category — defaulting absent categories to "Uncategorized" —
// merging groups that collide on description, grounded on the
// aggregation-engine shape of the teacher's
// internal/reporting/work_analytics_engine.go and
// internal/reporting/analytics_calculator.go (fold records into
// summaries instead of returning raw rows).
//
// Spec §4.7 step 2 names ListActiveIntermissionsFor plus
// ListWithIntermissions as the source of "already-ended" intermissions;
// this builder instead pairs ListActiveIntermissionsFor with
// ListEndedIntermissionsFor, since ListWithIntermissions's value type
// (parent activities, grouped by parent id — spec §4.5) carries no
// intermission duration to fold in and would double-count the parent's
// own time as break time.
//
// Returns (nil, false, nil) when rng has no matching activities (spec
// §4.7 step 1 "returns none if empty").
func (f *Facade) Reflect(ctx context.Context, rng pacetime.TimeRange) (*domain.ReflectionSummary, bool, error) {
	activities, err := f.ListByTimeRange(ctx, rng)
	if err != nil {
		return nil, false, err
	}
	if len(activities) == 0 {
		return nil, false, nil
	}

	groups := make(map[domain.SummaryCategory]*domain.SummaryActivityGroup)

	for _, activity := range activities {
		active, err := f.ListActiveIntermissionsFor(ctx, activity.ID())
		if err != nil {
			return nil, false, err
		}
		ended, err := f.ListEndedIntermissionsFor(ctx, activity.ID())
		if err != nil {
			return nil, false, err
		}

		group := domain.NewActivityGroup(activity)
		group.AddMultipleIntermissions(active)
		group.AddMultipleIntermissions(ended)

		head, tail := activity.SplitCategory(f.categorySeparator)
		key := domain.SummaryCategory{Category: head, Subcategory: tail}

		if existing, ok := groups[key]; ok {
			existing.AddActivityGroup(group)
		} else {
			groups[key] = domain.NewSummaryActivityGroup(group)
		}
	}

	return domain.NewReflectionSummary(rng, groups), true, nil
}
