package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/pace-org/pace-go/internal/config"
)

// withTempConfig points configPath at a file-backed store under a fresh
// temp dir, so state written by one command (e.g. begin) is still there
// for the next (e.g. now) within the same test, the way two separate
// invocations of the pace binary against the same config would behave.
// A bare missing config path would instead fall back to in-memory
// storage, which forgets everything between openRuntime calls.
func withTempConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Kind = config.StorageKindFile
	cfg.Storage.Location = filepath.Join(dir, "activities.yaml")
	path := filepath.Join(dir, "pace.yaml")
	require.NoError(t, cfg.Save(path))

	previous := configPath
	configPath = path
	t.Cleanup(func() { configPath = previous })
}

func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestBeginNowEndLifecycle(t *testing.T) {
	withTempConfig(t)

	beginCategory, beginTags, beginAt, beginTimeZone, beginTimeZoneOffset = "work::writing", "doc,spec", "", "", 0
	require.NoError(t, runBegin(testCmd(), []string{"write the design doc"}))

	require.NoError(t, runNow(testCmd(), nil))

	endAt, endTimeZone, endTimeZoneOffset = "", "", 0
	require.NoError(t, runEnd(testCmd(), nil))

	// Ending again with nothing active or held is a no-op, not an error.
	require.NoError(t, runEnd(testCmd(), nil))
}

func TestHoldAndResumeLifecycle(t *testing.T) {
	withTempConfig(t)

	beginCategory, beginTags, beginAt, beginTimeZone, beginTimeZoneOffset = "", "", "", "", 0
	require.NoError(t, runBegin(testCmd(), []string{"review PR"}))

	holdAt, holdReason, holdNewIfExists, holdTimeZone, holdTimeZoneOffset = "", "coffee", false, "", 0
	require.NoError(t, runHold(testCmd(), nil))

	// Holding again while the break is open finds no in-progress activity
	// to hold, which is a no-op, not an error.
	require.NoError(t, runHold(testCmd(), nil))

	resumeAt, resumeList = "", false
	require.NoError(t, runResume(testCmd(), nil))

	// Resuming again with nothing held is a no-op, not an error.
	require.NoError(t, runResume(testCmd(), nil))
}

func TestAdjustWithNoActiveActivityIsNoop(t *testing.T) {
	withTempConfig(t)

	adjustCategory, adjustDescription, adjustTags, adjustOverrideTags = "personal", "", "", false
	require.NoError(t, runAdjust(testCmd(), nil))
}

func TestAdjustUpdatesTheActiveActivity(t *testing.T) {
	withTempConfig(t)

	beginCategory, beginTags, beginAt, beginTimeZone, beginTimeZoneOffset = "", "", "", "", 0
	require.NoError(t, runBegin(testCmd(), []string{"draft outline"}))

	adjustCategory, adjustDescription, adjustTags, adjustOverrideTags = "writing", "draft detailed outline", "", false
	require.NoError(t, runAdjust(testCmd(), nil))
}

func TestReflectWithNoActivityReportsEmpty(t *testing.T) {
	withTempConfig(t)

	reflectFrame, reflectFrom, reflectTo, reflectDate = "today", "", "", ""
	reflectCategory, reflectCaseSensitive = "", false
	require.NoError(t, runReflect(testCmd(), nil))
}

func TestReflectRejectsUnknownFrame(t *testing.T) {
	withTempConfig(t)

	reflectFrame, reflectFrom, reflectTo, reflectDate = "decade", "", "", ""
	reflectCategory, reflectCaseSensitive = "", false
	require.Error(t, runReflect(testCmd(), nil))
}

func TestReflectRejectsMalformedDate(t *testing.T) {
	withTempConfig(t)

	reflectFrame, reflectFrom, reflectTo, reflectDate = "", "", "", "not-a-date"
	reflectCategory, reflectCaseSensitive = "", false
	require.Error(t, runReflect(testCmd(), nil))
}

func TestSetupWritesDefaultConfigOnce(t *testing.T) {
	previous := configPath
	t.Cleanup(func() { configPath = previous })
	configPath = filepath.Join(t.TempDir(), "nested", "pace.yaml")

	require.NoError(t, runSetup(testCmd(), nil))
	require.FileExists(t, configPath)

	// A second run must not error out just because the file now exists.
	require.NoError(t, runSetup(testCmd(), nil))
}

func TestCategoryMatches(t *testing.T) {
	require.True(t, categoryMatches("work::writing", "", false))
	require.True(t, categoryMatches("work::writing", "WRITING", false))
	require.False(t, categoryMatches("work::writing", "WRITING", true))
	require.True(t, categoryMatches("work::writing", "writing", true))
}
