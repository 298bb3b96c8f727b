package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage"
	"github.com/pace-org/pace-go/internal/storage/memory"
)

func newStore(clock pacetime.Clock) *memory.Store {
	return memory.New(memory.Config{Clock: clock})
}

func mustCreateActivity(t *testing.T, clock pacetime.Clock, description string, begin time.Time) *domain.Activity {
	t.Helper()
	a, err := domain.NewActivity(domain.CreateConfig{
		Description: description,
		Begin:       pacetime.FromTime(begin),
	}, clock)
	require.NoError(t, err)
	return a
}

// Scenario 1 — begin/end at explicit offsets (spec §8).
func TestScenarioBeginEndExplicitOffsets(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)}
	ctx := context.Background()
	s := newStore(clock)

	loc := time.FixedZone("+01:00", 1*60*60)
	begin := time.Date(2024, 2, 26, 9, 0, 0, 0, loc)
	a1 := mustCreateActivity(t, clock, "Our time zone", begin)

	stored, err := s.Begin(ctx, a1)
	require.NoError(t, err)
	require.True(t, stored.IsInProgress())

	endLoc := time.FixedZone("-02:00", -2*60*60)
	end := time.Date(2024, 2, 26, 9, 0, 0, 0, endLoc) // same instant as begin+3h, different offset
	ended, err := s.EndAll(ctx, domain.EndOptions{End: pacetime.FromTime(end)})
	require.NoError(t, err)
	require.Len(t, ended, 1)

	read, err := s.Read(ctx, a1.ID())
	require.NoError(t, err)
	assert.True(t, read.IsCompleted())
	endOpts, ok := read.EndOptions()
	require.True(t, ok)
	assert.Equal(t, int64(10800), endOpts.Duration.Seconds())
	assert.Equal(t, "+01:00", read.Begin().Time().Format("-07:00"))
}

// Scenario 2 — auto-cascade on new begin (spec §8).
func TestScenarioAutoCascadeOnNewBegin(t *testing.T) {
	t0 := time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(60 * time.Second)
	clock := pacetime.FixedClock{At: t1.Add(time.Hour)}
	ctx := context.Background()
	s := newStore(clock)

	a1 := mustCreateActivity(t, clock, "First", t0)
	_, err := s.Begin(ctx, a1)
	require.NoError(t, err)

	a2 := mustCreateActivity(t, clock, "Second", t1)
	_, err = s.Begin(ctx, a2)
	require.NoError(t, err)

	read1, err := s.Read(ctx, a1.ID())
	require.NoError(t, err)
	assert.True(t, read1.IsCompleted())
	endOpts, ok := read1.EndOptions()
	require.True(t, ok)
	assert.True(t, endOpts.End.Equal(pacetime.FromTime(t1)))

	read2, err := s.Read(ctx, a2.ID())
	require.NoError(t, err)
	assert.True(t, read2.IsInProgress())
	_, ok = read2.EndOptions()
	assert.False(t, ok)
}

// Scenario 3 — hold then resume (spec §8).
func TestScenarioHoldThenResume(t *testing.T) {
	t0 := time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)
	clock := pacetime.FixedClock{At: t0.Add(time.Hour)}
	ctx := context.Background()
	s := newStore(clock)

	a1 := mustCreateActivity(t, clock, "Deep work", t0)
	_, err := s.Begin(ctx, a1)
	require.NoError(t, err)

	parent, intermission, err := s.HoldMostRecentActive(ctx, storage.HoldOptions{
		Begin: pacetime.FromTime(t0.Add(30 * time.Second)),
	})
	require.NoError(t, err)
	require.NotNil(t, intermission)
	assert.True(t, parent.IsPaused())
	assert.Equal(t, "Deep work", intermission.Description())
	parentID, ok := intermission.ParentID()
	require.True(t, ok)
	assert.Equal(t, a1.ID(), parentID)
	assert.True(t, intermission.IsInProgress())
	assert.True(t, intermission.Begin().Equal(pacetime.FromTime(t0.Add(30*time.Second))))

	resumed, err := s.ResumeMostRecent(ctx, storage.ResumeOptions{
		Resume: pacetime.FromTime(t0.Add(90 * time.Second)),
	})
	require.NoError(t, err)
	require.NotNil(t, resumed)
	assert.True(t, resumed.IsInProgress())

	readIntermission, err := s.Read(ctx, intermission.ID())
	require.NoError(t, err)
	assert.True(t, readIntermission.IsCompleted())
	endOpts, ok := readIntermission.EndOptions()
	require.True(t, ok)
	assert.True(t, endOpts.End.Equal(pacetime.FromTime(t0.Add(90*time.Second))))
	assert.Equal(t, int64(60), endOpts.Duration.Seconds())
}

// Scenario 4 — resume fails gracefully when nothing to resume (spec §8).
func TestScenarioResumeMostRecentWithNothingToResume(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	ctx := context.Background()
	s := newStore(clock)

	resumed, err := s.ResumeMostRecent(ctx, storage.ResumeOptions{})
	require.NoError(t, err)
	assert.Nil(t, resumed)

	a := mustCreateActivity(t, clock, "done already", clock.At.Add(-time.Hour))
	_, err = s.Begin(ctx, a)
	require.NoError(t, err)
	_, err = s.End(ctx, a.ID(), domain.EndOptions{End: pacetime.FromTime(clock.At)})
	require.NoError(t, err)

	resumed, err = s.ResumeMostRecent(ctx, storage.ResumeOptions{})
	require.NoError(t, err)
	assert.Nil(t, resumed)
}

// Scenario 6 — update preserves immutable fields (spec §8).
func TestScenarioUpdatePreservesImmutableFields(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	ctx := context.Background()
	s := newStore(clock)

	a := mustCreateActivity(t, clock, "Original", clock.At.Add(-time.Hour))
	created, err := s.Create(ctx, a)
	require.NoError(t, err)

	newDescription := "Updated"
	preImage, err := s.Update(ctx, created.ID(), storage.ActivityPatch{
		Description: &newDescription,
		Tags:        []string{"bla", "test"},
	}, storage.UpdateOptions{ReplaceTags: true})
	require.NoError(t, err)

	assert.Equal(t, "Original", preImage.Description())

	read, err := s.Read(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), read.ID())
	assert.Equal(t, "Updated", read.Description())
	assert.ElementsMatch(t, []string{"bla", "test"}, read.Tags())
	assert.Equal(t, created.Begin(), read.Begin())
	assert.Equal(t, created.Kind(), read.Kind())
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	ctx := context.Background()
	s := newStore(clock)

	a := mustCreateActivity(t, clock, "once", clock.At.Add(-time.Minute))
	_, err := s.Create(ctx, a)
	require.NoError(t, err)

	_, err = s.Create(ctx, a)
	require.Error(t, err)
}

func TestGroupByKeywordsMatchesCaseInsensitiveSubstring(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	ctx := context.Background()
	s := newStore(clock)

	dev, err := domain.NewActivity(domain.CreateConfig{
		Description: "write code",
		Category:    "development::pace",
		Begin:       pacetime.FromTime(clock.At.Add(-time.Hour)),
	}, clock)
	require.NoError(t, err)
	_, err = s.Create(ctx, dev)
	require.NoError(t, err)

	personal, err := domain.NewActivity(domain.CreateConfig{
		Description: "walk the dog",
		Begin:       pacetime.FromTime(clock.At.Add(-30 * time.Minute)),
	}, clock)
	require.NoError(t, err)
	_, err = s.Create(ctx, personal)
	require.NoError(t, err)

	grouped, err := s.GroupByKeywords(ctx, storage.KeywordOptions{Category: "PACE"})
	require.NoError(t, err)
	require.Contains(t, grouped, "development::pace")
	assert.Len(t, grouped["development::pace"], 1)
	assert.NotContains(t, grouped, "Uncategorized")
}

func TestListMostRecentOrdersDescendingById(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	ctx := context.Background()
	s := newStore(clock)

	a1 := mustCreateActivity(t, clock, "first", clock.At.Add(-3*time.Hour))
	a2 := mustCreateActivity(t, clock, "second", clock.At.Add(-2*time.Hour))
	a3 := mustCreateActivity(t, clock, "third", clock.At.Add(-time.Hour))
	for _, a := range []*domain.Activity{a1, a2, a3} {
		_, err := s.Create(ctx, a)
		require.NoError(t, err)
	}

	recent, err := s.ListMostRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, a3.ID(), recent[0].ID())
	assert.Equal(t, a2.ID(), recent[1].ID())
}

func TestHoldExtendReturnsUnchangedWhenIntermissionAlreadyLinked(t *testing.T) {
	t0 := time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)
	clock := pacetime.FixedClock{At: t0.Add(2 * time.Hour)}
	ctx := context.Background()
	s := newStore(clock)

	a := mustCreateActivity(t, clock, "focus", t0)
	_, err := s.Begin(ctx, a)
	require.NoError(t, err)

	// An InProgress intermission is already linked to the still
	// InProgress parent, so HoldExtend returns the parent unchanged.
	firstIntermission, err := domain.NewActivity(domain.CreateConfig{
		Description: "coffee",
		Kind:        domain.ActivityKindIntermission,
		Status:      domain.StatusInProgress,
		Begin:       pacetime.FromTime(t0.Add(time.Minute)),
		KindOptions: &domain.KindOptions{ParentID: a.ID()},
	}, clock)
	require.NoError(t, err)
	_, err = s.Create(ctx, firstIntermission)
	require.NoError(t, err)

	parent, secondIntermission, err := s.Hold(ctx, a.ID(), storage.HoldOptions{
		Begin:  pacetime.FromTime(t0.Add(2 * time.Minute)),
		Action: storage.HoldExtend,
	})
	require.NoError(t, err)
	assert.Nil(t, secondIntermission)
	assert.NotNil(t, parent)
	assert.True(t, parent.IsInProgress())
}

func TestHoldExtendStartsNewIntermissionWhenPriorOneAlreadyEnded(t *testing.T) {
	t0 := time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)
	clock := pacetime.FixedClock{At: t0.Add(2 * time.Hour)}
	ctx := context.Background()
	s := newStore(clock)

	a := mustCreateActivity(t, clock, "focus", t0)
	_, err := s.Begin(ctx, a)
	require.NoError(t, err)

	_, firstIntermission, err := s.Hold(ctx, a.ID(), storage.HoldOptions{
		Begin: pacetime.FromTime(t0.Add(time.Minute)),
	})
	require.NoError(t, err)
	require.NotNil(t, firstIntermission)

	// Resuming ends the first intermission, so nothing active remains
	// linked to the parent.
	_, err = s.Resume(ctx, a.ID(), storage.ResumeOptions{Resume: pacetime.FromTime(t0.Add(5 * time.Minute))})
	require.NoError(t, err)

	parent, secondIntermission, err := s.Hold(ctx, a.ID(), storage.HoldOptions{
		Begin:  pacetime.FromTime(t0.Add(10 * time.Minute)),
		Action: storage.HoldExtend,
	})
	require.NoError(t, err)
	require.NotNil(t, secondIntermission)
	assert.NotEqual(t, firstIntermission.ID(), secondIntermission.ID())
	assert.True(t, secondIntermission.IsInProgress())
	assert.NotNil(t, parent)
}
