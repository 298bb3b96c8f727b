package facade_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/facade"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage"
	"github.com/pace-org/pace-go/internal/storage/memory"
)

func newFacade(t *testing.T, clock pacetime.Clock) *facade.Facade {
	t.Helper()
	backend := memory.New(memory.Config{Clock: clock})
	f, err := facade.New(context.Background(), facade.Config{Backend: backend})
	require.NoError(t, err)
	return f
}

func TestNewPopulatesStartDateCacheAtConstruction(t *testing.T) {
	base := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	clock := pacetime.FixedClock{At: base.Add(time.Hour)}
	backend := memory.New(memory.Config{Clock: clock})

	a, err := domain.NewActivity(domain.CreateConfig{
		Description: "write docs",
		Begin:       pacetime.FromTime(base),
	}, clock)
	require.NoError(t, err)
	_, err = backend.Create(context.Background(), a)
	require.NoError(t, err)

	f, err := facade.New(context.Background(), facade.Config{Backend: backend})
	require.NoError(t, err)

	activities, ok := f.ByStartDate(pacetime.DateFromTime(base))
	require.True(t, ok)
	assert.Len(t, activities, 1)
}

// Scenario 5 — reflect over a date range aggregates matching activities
// and skips the rest (spec §8).
func TestReflectAggregatesWithinRangeAndSkipsOutside(t *testing.T) {
	base := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	clock := pacetime.FixedClock{At: base.Add(24 * time.Hour)}
	f := newFacade(t, clock)
	ctx := context.Background()

	inRange, err := domain.NewActivity(domain.CreateConfig{
		Description: "write spec",
		Category:    "work::writing",
		Begin:       pacetime.FromTime(base),
	}, clock)
	require.NoError(t, err)
	_, err = f.Begin(ctx, inRange)
	require.NoError(t, err)

	_, intermission, err := f.Hold(ctx, inRange.ID(), storage.HoldOptions{
		Begin: pacetime.FromTime(base.Add(30 * time.Minute)),
	})
	require.NoError(t, err)
	require.NotNil(t, intermission)
	_, err = f.Resume(ctx, inRange.ID(), storage.ResumeOptions{
		Resume: pacetime.FromTime(base.Add(45 * time.Minute)),
	})
	require.NoError(t, err)
	_, err = f.End(ctx, inRange.ID(), domain.EndOptions{End: pacetime.FromTime(base.Add(2 * time.Hour))})
	require.NoError(t, err)

	outOfRange, err := domain.NewActivity(domain.CreateConfig{
		Description: "unrelated",
		Begin:       pacetime.FromTime(base.Add(20 * time.Hour)),
	}, clock)
	require.NoError(t, err)
	_, err = f.Begin(ctx, outOfRange)
	require.NoError(t, err)

	rng, err := pacetime.NewTimeRange(pacetime.FromTime(base), pacetime.FromTime(base.Add(time.Hour)))
	require.NoError(t, err)

	summary, ok, err := f.Reflect(ctx, rng)
	require.NoError(t, err)
	require.True(t, ok)

	key := domain.SummaryCategory{Category: "work", Subcategory: "writing"}
	group, present := summary.GroupsByCategory[key]
	require.True(t, present)
	assert.Equal(t, 1, group.Len())
	assert.Equal(t, int64(15*60), group.TotalBreakDuration().Seconds())
}

func TestReflectReturnsNoneWhenRangeHasNoActivities(t *testing.T) {
	base := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	clock := pacetime.FixedClock{At: base}
	f := newFacade(t, clock)

	rng, err := pacetime.NewTimeRange(pacetime.FromTime(base.Add(-time.Hour)), pacetime.FromTime(base))
	require.NoError(t, err)

	summary, ok, err := f.Reflect(context.Background(), rng)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, summary)
}

func TestListMostRecentFallsBackToDefaultCount(t *testing.T) {
	base := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	clock := pacetime.FixedClock{At: base}
	f := newFacade(t, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		a, err := domain.NewActivity(domain.CreateConfig{
			Description: "task",
			Begin:       pacetime.FromTime(base.Add(-time.Duration(i+1) * time.Hour)),
		}, clock)
		require.NoError(t, err)
		_, err = f.Create(ctx, a)
		require.NoError(t, err)
	}

	recent, err := f.ListMostRecent(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
