package pacelog_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pace-org/pace-go/internal/pacelog"
)

func TestLoggerFiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := pacelog.New("facade", pacelog.LevelWarn, &buf)

	l.Info("populated cache", "count", 3)
	assert.Empty(t, buf.String())

	l.Warn("cache stale", "reason", "backend error")
	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "[facade]")
	assert.Contains(t, out, "reason=backend error")
}

func TestWithNestsComponentName(t *testing.T) {
	var buf bytes.Buffer
	l := pacelog.New("pace", pacelog.LevelDebug, &buf)
	sub := l.With("storage/file")

	sub.Debug("synced document")
	assert.Contains(t, buf.String(), "[pace.storage/file]")
}

func TestParseLevelIsCaseInsensitiveAndDefaultsToInfo(t *testing.T) {
	assert.Equal(t, pacelog.LevelDebug, pacelog.ParseLevel("debug"))
	assert.Equal(t, pacelog.LevelWarn, pacelog.ParseLevel("WARNING"))
	assert.Equal(t, pacelog.LevelInfo, pacelog.ParseLevel("nonsense"))
}

func TestLevelStringRoundTrip(t *testing.T) {
	for _, lvl := range []pacelog.Level{pacelog.LevelDebug, pacelog.LevelInfo, pacelog.LevelWarn, pacelog.LevelError} {
		assert.Equal(t, lvl, pacelog.ParseLevel(lvl.String()))
	}
}
