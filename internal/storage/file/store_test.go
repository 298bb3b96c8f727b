package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage/file"
)

func TestSetupCreatesParentDirAndEmptyDocument(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "activities.yaml")

	s, err := file.New(file.Config{Path: path, Clock: clock})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Setup(ctx))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestSyncPersistsAndReloadPreservesActivities(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	dir := t.TempDir()
	path := filepath.Join(dir, "activities.yaml")
	ctx := context.Background()

	s, err := file.New(file.Config{Path: path, Clock: clock})
	require.NoError(t, err)
	require.NoError(t, s.Setup(ctx))

	loc := time.FixedZone("+02:00", 2*60*60)
	begin := time.Date(2024, 2, 26, 8, 0, 0, 0, loc)
	a, err := domain.NewActivity(domain.CreateConfig{
		Description: "write the reflection pipeline",
		Category:    "work::pace",
		Tags:        []string{"focus"},
		Begin:       pacetime.FromTime(begin),
	}, clock)
	require.NoError(t, err)

	_, err = s.Begin(ctx, a)
	require.NoError(t, err)

	require.NoError(t, s.Sync(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "write the reflection pipeline")
	assert.Contains(t, string(data), "+02:00")

	reloaded, err := file.New(file.Config{Path: path, Clock: clock})
	require.NoError(t, err)

	read, err := reloaded.Read(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, "write the reflection pipeline", read.Description())
	assert.True(t, read.IsInProgress())
	assert.ElementsMatch(t, []string{"focus"}, read.Tags())
	assert.Equal(t, "+02:00", read.Begin().Time().Format("-07:00"))
}

func TestTeardownFlushesPendingChanges(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	dir := t.TempDir()
	path := filepath.Join(dir, "activities.yaml")
	ctx := context.Background()

	s, err := file.New(file.Config{Path: path, Clock: clock})
	require.NoError(t, err)
	require.NoError(t, s.Setup(ctx))

	a, err := domain.NewActivity(domain.CreateConfig{
		Description: "ship the file backend",
		Begin:       pacetime.FromTime(clock.At.Add(-time.Hour)),
	}, clock)
	require.NoError(t, err)
	_, err = s.Create(ctx, a)
	require.NoError(t, err)

	require.NoError(t, s.Teardown(ctx))

	reloaded, err := file.New(file.Config{Path: path, Clock: clock})
	require.NoError(t, err)
	read, err := reloaded.Read(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, "ship the file backend", read.Description())
}

func TestNewWithMissingFileStartsEmpty(t *testing.T) {
	clock := pacetime.FixedClock{At: time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)}
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.yaml")

	s, err := file.New(file.Config{Path: path, Clock: clock})
	require.NoError(t, err)

	list, err := s.List(context.Background(), domain.Filter{Kind: domain.FilterEverything})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())
}
