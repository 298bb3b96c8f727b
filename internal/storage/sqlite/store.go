// Package sqlite is the draft SQL backend named in spec §4.5/Non-goals
// ("a fully working SQL backend" is explicitly out of scope). It wires
// github.com/mattn/go-sqlite3 for connection lifecycle and schema
// migration only; every data operation beyond that returns
// ErrMigrationFailed, matching the Non-goal's "contract in scope, full
// adapter out of scope." Grounded on the teacher's connection lifecycle
// in internal/database/sqlite/connection.go (embed + setup/teardown,
// directory creation, a single guarded *sql.DB handle).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store is the draft sqlite-backed activity store.
type Store struct {
	mu   sync.Mutex
	path string
	db   *sql.DB
}

// Config configures a new Store.
type Config struct {
	Path string
}

// New constructs a Store; it does not open a connection until Setup is
// called.
func New(cfg Config) *Store {
	return &Store{path: cfg.Path}
}

// Identify returns a human-readable backend label for logs and the
// status server.
func (s *Store) Identify() string { return "sqlite:" + s.path }

// Setup opens the database connection and applies the draft schema
// (spec §6.1 "database" storage kind, sqlite only).
func (s *Store) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.WrapParentDirNotFound(err)
		}
	}

	db, err := sql.Open("sqlite3", s.path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return domain.ErrConnectionFailed
	}
	if err := db.PingContext(ctx); err != nil {
		return domain.ErrConnectionFailed
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("sqlite: reading embedded schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return domain.ErrMigrationFailed
	}

	s.db = db
	return nil
}

// Teardown closes the connection.
func (s *Store) Teardown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Sync is a no-op: every write already commits through the connection's
// autocommit mode.
func (s *Store) Sync(ctx context.Context) error { return nil }

// draftErr is the sentinel every unimplemented data operation returns.
var draftErr = fmt.Errorf("sqlite: %w: data operations are not implemented, only setup/teardown/sync", domain.ErrMigrationFailed)

func (s *Store) Read(ctx context.Context, id domain.ActivityID) (*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) List(ctx context.Context, filter domain.Filter) (domain.FilteredActivities, error) {
	return domain.FilteredActivities{}, draftErr
}
func (s *Store) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) Update(ctx context.Context, id domain.ActivityID, patch storage.ActivityPatch, opts storage.UpdateOptions) (domain.Activity, error) {
	return domain.Activity{}, draftErr
}
func (s *Store) Delete(ctx context.Context, id domain.ActivityID, opts storage.DeleteOptions) (*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) Begin(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) End(ctx context.Context, id domain.ActivityID, opts domain.EndOptions) (*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) EndAll(ctx context.Context, opts domain.EndOptions) ([]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) EndLastUnfinished(ctx context.Context, opts domain.EndOptions) (*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) Hold(ctx context.Context, id domain.ActivityID, opts storage.HoldOptions) (*domain.Activity, *domain.Activity, error) {
	return nil, nil, draftErr
}
func (s *Store) HoldMostRecentActive(ctx context.Context, opts storage.HoldOptions) (*domain.Activity, *domain.Activity, error) {
	return nil, nil, draftErr
}
func (s *Store) EndAllActiveIntermissions(ctx context.Context, opts domain.EndOptions) ([]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) Resume(ctx context.Context, id domain.ActivityID, opts storage.ResumeOptions) (*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) ResumeMostRecent(ctx context.Context, opts storage.ResumeOptions) (*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) ListByID(ctx context.Context, ids []domain.ActivityID) ([]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) GroupByStartDate(ctx context.Context) (map[pacetime.Date][]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) GroupByKind(ctx context.Context) (map[domain.ActivityKind][]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) GroupByStatus(ctx context.Context) (map[domain.Status][]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) GroupByKeywords(ctx context.Context, opts storage.KeywordOptions) (map[string][]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) ListWithIntermissions(ctx context.Context) (map[domain.ActivityID][]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) ListByTimeRange(ctx context.Context, rng pacetime.TimeRange) ([]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) MostRecentActiveActivity(ctx context.Context) (*domain.Activity, bool, error) {
	return nil, false, draftErr
}
func (s *Store) MostRecentHeldActivity(ctx context.Context) (*domain.Activity, bool, error) {
	return nil, false, draftErr
}
func (s *Store) ListActiveIntermissions(ctx context.Context) ([]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) ListActiveIntermissionsFor(ctx context.Context, parentID domain.ActivityID) ([]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) ListEndedIntermissionsFor(ctx context.Context, parentID domain.ActivityID) ([]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) ListMostRecent(ctx context.Context, n int) ([]*domain.Activity, error) {
	return nil, draftErr
}
func (s *Store) IsActive(ctx context.Context, id domain.ActivityID) (bool, error) {
	return false, draftErr
}

var _ storage.Store = (*Store)(nil)
