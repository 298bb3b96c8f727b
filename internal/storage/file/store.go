// Package file implements the file-backed activity store (spec §4.8): a
// thin YAML-document persistence layer composed over the in-memory store,
// grounded on the teacher's SQLite connection lifecycle in
// internal/database/sqlite/connection.go (directory creation at setup,
// a single guarded handle, explicit teardown) adapted from a SQL
// connection lifecycle to a flat-file read-at-construction,
// write-at-sync lifecycle.
package file

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage"
	"github.com/pace-org/pace-go/internal/storage/memory"
)

// ActivityLog is the on-disk document format: a self-describing sequence
// of activity records with stable field names (spec §4.8). It is
// consumed only by this store — no external reader is a contract target.
type ActivityLog struct {
	Activities []domain.ActivityRecord `yaml:"activities"`
}

// Store wraps an in-memory Store, seeding it from path at construction
// and flushing back to path on Sync/Teardown (spec §4.8: "Composition
// over §4.6 — it contains an in-memory store").
type Store struct {
	*memory.Store

	path string
}

// Config configures a new file-backed Store.
type Config struct {
	Path              string
	Clock             pacetime.Clock
	CategorySeparator string
}

// New reads the document at cfg.Path (if it exists) and seeds a fresh
// in-memory store with its activities. A missing file is not an error
// here — Setup is responsible for creating it; New only loads what is
// already there.
func New(cfg Config) (*Store, error) {
	inner := memory.New(memory.Config{Clock: cfg.Clock, CategorySeparator: cfg.CategorySeparator})

	s := &Store{Store: inner, path: cfg.Path}

	log, err := readLog(cfg.Path)
	if err != nil {
		return nil, err
	}
	for _, record := range log.Activities {
		if _, err := inner.Create(context.Background(), domain.ActivityFromRecord(record)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func readLog(path string) (ActivityLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ActivityLog{}, nil
		}
		return ActivityLog{}, err
	}
	if len(data) == 0 {
		return ActivityLog{}, nil
	}
	var log ActivityLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return ActivityLog{}, err
	}
	return log, nil
}

// Identify overrides the embedded in-memory store's label.
func (s *Store) Identify() string { return "file:" + s.path }

// Setup creates the parent directory and an empty document if path does
// not yet exist (spec §4.8 "create parent directories and an empty
// file; fail with ParentDirNotFound if the parent cannot be located").
func (s *Store) Setup(ctx context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.WrapParentDirNotFound(err)
	}
	return s.Sync(ctx)
}

// Teardown is defined as Sync (spec §4.8).
func (s *Store) Teardown(ctx context.Context) error {
	return s.Sync(ctx)
}

// Sync serializes the current in-memory log and atomically overwrites
// path: write to a temp file in the same directory, then rename, so a
// crash mid-write never leaves a truncated document (spec §4.8
// "Atomicity is best-effort: write-then-rename when the platform
// permits").
func (s *Store) Sync(ctx context.Context) error {
	all, err := s.Store.List(ctx, domain.Filter{Kind: domain.FilterEverything})
	if err != nil {
		return err
	}

	log := ActivityLog{Activities: make([]domain.ActivityRecord, 0, len(all.Activities))}
	for _, a := range all.Activities {
		log.Activities = append(log.Activities, a.ToRecord())
	}

	data, err := yaml.Marshal(log)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".pace-log-*.tmp")
	if err != nil {
		// Some platforms/filesystems don't support a sibling temp file;
		// fall back to a direct write rather than failing sync outright.
		return os.WriteFile(s.path, data, 0o644)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}

var _ storage.Store = (*Store)(nil)
