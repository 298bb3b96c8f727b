package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
)

func fixedClock(t *testing.T) pacetime.FixedClock {
	t.Helper()
	return pacetime.FixedClock{At: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
}

func newTestActivity(t *testing.T, clock pacetime.Clock, mutate func(*domain.CreateConfig)) *domain.Activity {
	t.Helper()
	begin := pacetime.FromTime(clock.Now().Add(-time.Hour))
	cfg := domain.CreateConfig{
		Description: "write quarterly report",
		Category:    "work::writing",
		Tags:        []string{"deep-work"},
		Begin:       begin,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := domain.NewActivity(cfg, clock)
	require.NoError(t, err)
	return a
}

func TestNewActivityRejectsEmptyDescription(t *testing.T) {
	clock := fixedClock(t)
	_, err := domain.NewActivity(domain.CreateConfig{
		Description: "   ",
		Begin:       pacetime.FromTime(clock.Now()),
	}, clock)
	assert.Error(t, err)
}

func TestNewActivityRejectsFutureBegin(t *testing.T) {
	clock := fixedClock(t)
	_, err := domain.NewActivity(domain.CreateConfig{
		Description: "time travel",
		Begin:       pacetime.FromTime(clock.Now().Add(time.Hour)),
	}, clock)
	require.ErrorIs(t, err, pacetime.ErrStartTimeInFuture)
}

func TestNewActivityIntermissionRequiresParent(t *testing.T) {
	clock := fixedClock(t)
	_, err := domain.NewActivity(domain.CreateConfig{
		Description: "coffee",
		Kind:        domain.ActivityKindIntermission,
		Begin:       pacetime.FromTime(clock.Now().Add(-time.Minute)),
	}, clock)
	require.ErrorIs(t, err, domain.ErrParentIDNotSet)
}

func TestActivityLifecyclePredicates(t *testing.T) {
	clock := fixedClock(t)
	a := newTestActivity(t, clock, nil)
	assert.True(t, a.IsCreated())

	a.BeginActivity()
	assert.True(t, a.IsInProgress())

	a.Pause()
	assert.True(t, a.IsPaused())
	assert.True(t, a.IsResumable())

	a.Resume()
	assert.True(t, a.IsInProgress())

	end := pacetime.FromTime(clock.Now())
	duration, err := pacetime.DurationBetween(a.Begin(), end)
	require.NoError(t, err)
	require.NoError(t, a.EndActivity(domain.EndOptions{End: end, Duration: duration}))
	assert.True(t, a.IsCompleted())

	require.NoError(t, a.Archive())
	assert.True(t, a.IsArchived())
	assert.False(t, a.IsResumable())

	require.NoError(t, a.Unarchive())
	assert.True(t, a.IsCompleted())
}

func TestEndActivityIsIdempotentButRejectsRegression(t *testing.T) {
	clock := fixedClock(t)
	a := newTestActivity(t, clock, nil)
	a.BeginActivity()

	end := pacetime.FromTime(clock.Now())
	duration, err := pacetime.DurationBetween(a.Begin(), end)
	require.NoError(t, err)
	opts := domain.EndOptions{End: end, Duration: duration}

	require.NoError(t, a.EndActivity(opts))
	require.NoError(t, a.EndActivity(opts))

	earlier := pacetime.FromTime(a.Begin().Time().Add(-time.Minute))
	err = a.EndActivity(domain.EndOptions{End: earlier})
	require.ErrorIs(t, err, pacetime.ErrNegativeDuration)
}

func TestArchiveRequiresCompleted(t *testing.T) {
	clock := fixedClock(t)
	a := newTestActivity(t, clock, nil)
	err := a.Archive()
	assert.Error(t, err)
}

func TestMergePreservesStructuralFieldsAndReturnsPreImage(t *testing.T) {
	clock := fixedClock(t)
	a := newTestActivity(t, clock, nil)
	originalID := a.ID()
	originalBegin := a.Begin()
	originalKind := a.Kind()

	other, err := domain.NewActivity(domain.CreateConfig{
		Description: "write quarterly report (revised)",
		Category:    "work::editing",
		Tags:        []string{"review"},
		Begin:       pacetime.FromTime(clock.Now()),
	}, clock)
	require.NoError(t, err)

	preImage := a.Merge(other, domain.UpdateOptions{})

	assert.Equal(t, "write quarterly report", preImage.Description())
	assert.Equal(t, "write quarterly report (revised)", a.Description())
	assert.Equal(t, "work::editing", a.Category())
	assert.ElementsMatch(t, []string{"deep-work", "review"}, a.Tags())
	assert.Equal(t, originalID, a.ID())
	assert.Equal(t, originalBegin, a.Begin())
	assert.Equal(t, originalKind, a.Kind())
}

func TestMergeReplaceTagsOverwritesInsteadOfUnioning(t *testing.T) {
	clock := fixedClock(t)
	a := newTestActivity(t, clock, nil)

	other, err := domain.NewActivity(domain.CreateConfig{
		Description: "write quarterly report",
		Tags:        []string{"final"},
		Begin:       pacetime.FromTime(clock.Now()),
	}, clock)
	require.NoError(t, err)

	a.Merge(other, domain.UpdateOptions{ReplaceTags: true})
	assert.Equal(t, []string{"final"}, a.Tags())
}

func TestSplitCategoryDefaultsToUncategorized(t *testing.T) {
	clock := fixedClock(t)
	a := newTestActivity(t, clock, func(cfg *domain.CreateConfig) { cfg.Category = "" })
	head, tail := a.SplitCategory("::")
	assert.Equal(t, "Uncategorized", head)
	assert.Empty(t, tail)

	withCategory := newTestActivity(t, clock, nil)
	head, tail = withCategory.SplitCategory("::")
	assert.Equal(t, "work", head)
	assert.Equal(t, "writing", tail)
}

func TestCloneIsIndependent(t *testing.T) {
	clock := fixedClock(t)
	a := newTestActivity(t, clock, nil)
	clone := a.Clone()
	a.BeginActivity()
	assert.False(t, clone.IsInProgress())
}
