package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/storage"
	"github.com/pace-org/pace-go/internal/storage/sqlite"
)

func TestSetupAppliesSchemaAndTeardownCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pace.db")
	s := sqlite.New(sqlite.Config{Path: path})
	ctx := context.Background()

	require.NoError(t, s.Setup(ctx))
	assert.Equal(t, "sqlite:"+path, s.Identify())
	require.NoError(t, s.Sync(ctx))
	require.NoError(t, s.Teardown(ctx))
}

func TestDataOperationsReturnMigrationFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pace.db")
	s := sqlite.New(sqlite.Config{Path: path})
	ctx := context.Background()
	require.NoError(t, s.Setup(ctx))
	defer s.Teardown(ctx)

	_, err := s.Read(ctx, domain.ActivityID{})
	assert.True(t, errors.Is(err, domain.ErrMigrationFailed))

	_, _, err = s.Hold(ctx, domain.ActivityID{}, storage.HoldOptions{})
	assert.True(t, errors.Is(err, domain.ErrMigrationFailed))
}
