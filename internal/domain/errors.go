package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain Error by the taxonomy in spec §7. It lets
// callers (and tests) branch on the category of failure without string
// matching, the same role the teacher's typed *SessionRepositoryError /
// *WorkblockRepositoryError play around
// internal/usecases/repositories/session_repository.go.
type ErrorKind string

const (
	// Identity
	KindActivityNotFound        ErrorKind = "activity_not_found"
	KindActivityIDAlreadyInUse  ErrorKind = "activity_id_already_in_use"

	// State
	KindNoActiveActivityFound   ErrorKind = "no_active_activity_found"
	KindActiveActivityFound     ErrorKind = "active_activity_found"
	KindNoHeldActivityFound     ErrorKind = "no_held_activity_found"
	KindActivityAlreadyEnded    ErrorKind = "activity_already_ended"
	KindActivityAlreadyArchived ErrorKind = "activity_already_archived"
	KindActivityNotEnded        ErrorKind = "activity_not_ended"

	// Structural
	KindActivityKindOptionsNotFound ErrorKind = "activity_kind_options_not_found"
	KindParentIDNotSet              ErrorKind = "parent_id_not_set"
	KindCategoryNotSet               ErrorKind = "category_not_set"

	// Storage
	KindParentDirNotFound         ErrorKind = "parent_dir_not_found"
	KindConnectionFailed          ErrorKind = "connection_failed"
	KindUnsupportedDatabaseEngine ErrorKind = "unsupported_database_engine"
	KindMigrationFailed           ErrorKind = "migration_failed"

	// Aggregation
	KindPopulatingCache         ErrorKind = "populating_cache"
	KindListActivitiesByRange   ErrorKind = "list_activities_by_time_range"
	KindGroupByKeywords         ErrorKind = "group_by_keywords"
)

// Error is the structured error type every domain and storage operation
// returns: a kind, a human message, and an optional wrapped cause, so
// nothing loses its cause chain (spec §7 "Propagation policy").
type Error struct {
	Kind    ErrorKind
	Message string
	ID      ActivityID // zero value if not id-keyed
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pace: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("pace: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match on Kind alone, so callers can write
// errors.Is(err, &domain.Error{Kind: domain.KindActivityNotFound}).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

func newErr(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapErr(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NotFound builds an ActivityNotFound(id) error (spec §4.3: "Every
// id-keyed lookup failing to find the id reports ActivityNotFound(id)").
func NotFound(id ActivityID) *Error {
	return &Error{Kind: KindActivityNotFound, Message: "activity not found", ID: id}
}

// AlreadyInUse builds an ActivityIdAlreadyInUse(id) error.
func AlreadyInUse(id ActivityID) *Error {
	return &Error{Kind: KindActivityIDAlreadyInUse, Message: "activity id already in use", ID: id}
}

var (
	ErrNoActiveActivityFound   = newErr(KindNoActiveActivityFound, "no active activity found")
	ErrActiveActivityFound     = newErr(KindActiveActivityFound, "an activity is already active")
	ErrNoHeldActivityFound     = newErr(KindNoHeldActivityFound, "no held activity found")
	ErrActivityAlreadyEnded    = newErr(KindActivityAlreadyEnded, "activity is already ended")
	ErrActivityAlreadyArchived = newErr(KindActivityAlreadyArchived, "activity is already archived")
	ErrActivityNotEnded        = newErr(KindActivityNotEnded, "not all selected activities were ended")

	ErrActivityKindOptionsNotFound = newErr(KindActivityKindOptionsNotFound, "activity has no kind options")
	ErrParentIDNotSet              = newErr(KindParentIDNotSet, "intermission has no parent id set")
	ErrCategoryNotSet               = newErr(KindCategoryNotSet, "category is not set")

	ErrParentDirNotFound         = newErr(KindParentDirNotFound, "parent directory not found")
	ErrConnectionFailed          = newErr(KindConnectionFailed, "storage connection failed")
	ErrUnsupportedDatabaseEngine = newErr(KindUnsupportedDatabaseEngine, "unsupported database engine")
	ErrMigrationFailed           = newErr(KindMigrationFailed, "storage migration failed")
)

// WrapPopulatingCache wraps a lower-level cause as a cache-population
// aggregation error (spec §7 "Aggregation").
func WrapPopulatingCache(cause error) *Error {
	return wrapErr(KindPopulatingCache, "failed to populate start-date cache", cause)
}

// WrapListActivitiesByTimeRange wraps a lower-level cause from the
// time-range listing query.
func WrapListActivitiesByTimeRange(cause error) *Error {
	return wrapErr(KindListActivitiesByRange, "failed to list activities by time range", cause)
}

// WrapGroupByKeywords wraps a lower-level cause from a keyword grouping
// query.
func WrapGroupByKeywords(cause error) *Error {
	return wrapErr(KindGroupByKeywords, "failed to group activities by keywords", cause)
}

// WrapParentDirNotFound wraps a filesystem error encountered while
// locating or creating the file-backed store's parent directory (spec
// §4.8 "fail with ParentDirNotFound if the parent cannot be located").
func WrapParentDirNotFound(cause error) *Error {
	return wrapErr(KindParentDirNotFound, "parent directory not found", cause)
}

// PossibleNewActivityFromResume reports whether err represents a
// recoverable resume failure the caller can offer the user an
// alternative for: starting a fresh activity with the same content
// (spec §7 "Propagation policy").
func PossibleNewActivityFromResume(err error) bool {
	return errors.Is(err, ErrNoHeldActivityFound)
}
