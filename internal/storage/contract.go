// Package storage defines the backend-agnostic contract every activity
// store implements: a set of independent capability interfaces (spec
// §4.3) so a caller — or a test double — can compose exactly the
// operations it needs, grounded on the capability-segregated repository
// interfaces in the teacher's
// internal/usecases/repositories/session_repository.go.
package storage

import (
	"context"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
)

// Lifecycle is implemented by every backend: setup/teardown hooks plus a
// human-readable label for logs and the status server.
type Lifecycle interface {
	Setup(ctx context.Context) error
	Teardown(ctx context.Context) error
	Identify() string
}

// SyncStorage flushes any in-memory deltas to durable storage. Backends
// that are inherently durable (e.g. a SQL connection with autocommit)
// implement it as a no-op.
type SyncStorage interface {
	Sync(ctx context.Context) error
}

// ReadOps is the read-only surface: fetch by id, or list by filter.
type ReadOps interface {
	Read(ctx context.Context, id domain.ActivityID) (*domain.Activity, error)
	List(ctx context.Context, filter domain.Filter) (domain.FilteredActivities, error)
}

// ActivityPatch is the set of descriptive fields Update can change.
type ActivityPatch = domain.ActivityPatch

// DeleteOptions controls a delete call; currently empty but kept as a
// distinct type so the storage contract can grow options without
// breaking callers (mirrors the teacher's *Options structs throughout
// internal/usecases/repositories).
type DeleteOptions struct{}

// WriteOps is the mutating, non-lifecycle surface.
type WriteOps interface {
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	// Update merges patch onto the stored activity per domain.Activity.MergePatch
	// and returns the pre-image (spec §4.3 "update merges per 4.2 and
	// returns the pre-image").
	Update(ctx context.Context, id domain.ActivityID, patch ActivityPatch, opts UpdateOptions) (domain.Activity, error)
	// Delete removes the activity and returns the removed record.
	Delete(ctx context.Context, id domain.ActivityID, opts DeleteOptions) (*domain.Activity, error)
}

// UpdateOptions controls Update's merge policy (spec §4.2, §9).
type UpdateOptions = domain.UpdateOptions

// HoldAction controls whether hold reuses an already-linked intermission
// or always starts a new one (spec §4.4.3, CLI `--new-if-exists`).
type HoldAction int

const (
	// HoldExtend returns the parent unchanged when an intermission is
	// already linked to it (the default).
	HoldExtend HoldAction = iota
	// HoldNew always creates a fresh intermission.
	HoldNew
)

// HoldOptions carries the parameters for a hold/hold_most_recent_active
// call.
type HoldOptions struct {
	Begin  pacetime.DateTime
	Reason string
	Action HoldAction
}

// ResumeOptions carries the parameters for a resume/resume_most_recent
// call.
type ResumeOptions struct {
	Resume pacetime.DateTime
}

// StateManagement is the lifecycle-transition surface (spec §4.4). The
// "most recent" selectors (EndLastUnfinished, HoldMostRecentActive,
// ResumeMostRecent) return (nil, nil) rather than an error when there is
// nothing to select — spec §8 scenario 4: "returns success with none".
type StateManagement interface {
	Begin(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	End(ctx context.Context, id domain.ActivityID, opts domain.EndOptions) (*domain.Activity, error)
	EndAll(ctx context.Context, opts domain.EndOptions) ([]*domain.Activity, error)
	EndLastUnfinished(ctx context.Context, opts domain.EndOptions) (*domain.Activity, error)
	Hold(ctx context.Context, id domain.ActivityID, opts HoldOptions) (parent *domain.Activity, intermission *domain.Activity, err error)
	HoldMostRecentActive(ctx context.Context, opts HoldOptions) (parent *domain.Activity, intermission *domain.Activity, err error)
	EndAllActiveIntermissions(ctx context.Context, opts domain.EndOptions) ([]*domain.Activity, error)
	Resume(ctx context.Context, id domain.ActivityID, opts ResumeOptions) (*domain.Activity, error)
	ResumeMostRecent(ctx context.Context, opts ResumeOptions) (*domain.Activity, error)
}

// KeywordOptions controls group_by_keywords (spec §4.5): an optional
// category pattern, matched as a case-insensitive substring unless
// CaseSensitive is set.
type KeywordOptions struct {
	Category      string
	CaseSensitive bool
}

// Querying is the read-model / reporting surface (spec §4.5).
type Querying interface {
	ListByID(ctx context.Context, ids []domain.ActivityID) ([]*domain.Activity, error)
	GroupByStartDate(ctx context.Context) (map[pacetime.Date][]*domain.Activity, error)
	GroupByKind(ctx context.Context) (map[domain.ActivityKind][]*domain.Activity, error)
	GroupByStatus(ctx context.Context) (map[domain.Status][]*domain.Activity, error)
	GroupByKeywords(ctx context.Context, opts KeywordOptions) (map[string][]*domain.Activity, error)
	ListWithIntermissions(ctx context.Context) (map[domain.ActivityID][]*domain.Activity, error)
	ListByTimeRange(ctx context.Context, rng pacetime.TimeRange) ([]*domain.Activity, error)
	MostRecentActiveActivity(ctx context.Context) (*domain.Activity, bool, error)
	MostRecentHeldActivity(ctx context.Context) (*domain.Activity, bool, error)
	ListActiveIntermissions(ctx context.Context) ([]*domain.Activity, error)
	ListActiveIntermissionsFor(ctx context.Context, parentID domain.ActivityID) ([]*domain.Activity, error)
	// ListEndedIntermissionsFor returns every Completed intermission
	// linked to parentID — the façade's reflection builder's other half
	// of "linked intermissions" alongside ListActiveIntermissionsFor
	// (spec §4.7 step 2); kept distinct from ListWithIntermissions, whose
	// grouped-by-parent shape serves a different read model (spec §4.5).
	ListEndedIntermissionsFor(ctx context.Context, parentID domain.ActivityID) ([]*domain.Activity, error)
	ListMostRecent(ctx context.Context, n int) ([]*domain.Activity, error)
	IsActive(ctx context.Context, id domain.ActivityID) (bool, error)
}

// Store is the full capability set a backend offers; the façade holds
// one of these (spec §4.7 "The façade owns one backend").
type Store interface {
	Lifecycle
	SyncStorage
	ReadOps
	WriteOps
	StateManagement
	Querying
}
