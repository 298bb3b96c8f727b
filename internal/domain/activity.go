// Package domain implements the activity data model and its state
// machine (spec §3): the Activity entity, its lifecycle transitions, the
// paired Intermission concept, filters, and the reflection summary types.
package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pace-org/pace-go/internal/pacetime"
)

// ActivityKind distinguishes plain activities from tasks, intermissions,
// and pomodoro work/break cycles (spec §3.1).
type ActivityKind int

const (
	ActivityKindActivity ActivityKind = iota
	ActivityKindTask
	ActivityKindIntermission
	ActivityKindPomodoroWork
	ActivityKindPomodoroIntermission
)

var activityKindNames = map[ActivityKind]string{
	ActivityKindActivity:             "activity",
	ActivityKindTask:                 "task",
	ActivityKindIntermission:         "intermission",
	ActivityKindPomodoroWork:         "pomodoro_work",
	ActivityKindPomodoroIntermission: "pomodoro_intermission",
}

// MarshalYAML renders the kind as its stable string name rather than its
// integer ordinal, so the on-disk document format (spec §4.8) stays
// readable and forward-compatible with reordering this iota.
func (k ActivityKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML parses the kind back from its stable string name.
func (k *ActivityKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for kind, name := range activityKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("domain: unknown activity kind %q", s)
}

func (k ActivityKind) String() string {
	switch k {
	case ActivityKindActivity:
		return "activity"
	case ActivityKindTask:
		return "task"
	case ActivityKindIntermission:
		return "intermission"
	case ActivityKindPomodoroWork:
		return "pomodoro_work"
	case ActivityKindPomodoroIntermission:
		return "pomodoro_intermission"
	default:
		return "unknown"
	}
}

// Status is the activity's position in the lifecycle described by spec
// §3.3.
type Status int

const (
	// StatusUnset is the zero value, used only to mean "not specified" in
	// a CreateConfig or update Activity — never a status a stored
	// Activity actually carries.
	StatusUnset Status = iota
	StatusCreated
	StatusScheduled
	StatusInProgress
	StatusPaused
	StatusCompleted
	StatusArchived
	StatusUnarchived
)

var statusNames = map[Status]string{
	StatusCreated:    "created",
	StatusScheduled:  "scheduled",
	StatusInProgress: "in_progress",
	StatusPaused:     "paused",
	StatusCompleted:  "completed",
	StatusArchived:   "archived",
	StatusUnarchived: "unarchived",
}

// MarshalYAML renders the status as its stable string name. StatusUnset
// never reaches here: it only ever appears transiently in a CreateConfig
// or patch, never on a stored Activity.
func (s Status) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML parses the status back from its stable string name.
func (s *Status) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	for status, name := range statusNames {
		if name == raw {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("domain: unknown status %q", raw)
}

func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "unset"
	case StatusCreated:
		return "created"
	case StatusScheduled:
		return "scheduled"
	case StatusInProgress:
		return "in_progress"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	case StatusArchived:
		return "archived"
	case StatusUnarchived:
		return "unarchived"
	default:
		return "unknown"
	}
}

// EndOptions carries the terminal timing data present iff status is
// Completed or Archived (spec §3.1).
type EndOptions struct {
	End      pacetime.DateTime
	Duration pacetime.Duration
}

// KindOptions carries kind-specific data, present iff Kind ==
// ActivityKindIntermission (spec §3.1).
type KindOptions struct {
	ParentID ActivityID
}

// Activity is the central record of the time-tracking domain (spec
// §3.1). Fields are private; callers use the constructor and the
// accessor/mutation methods below, mirroring the teacher's
// private-field-plus-getters shape (internal/entities/session.go).
type Activity struct {
	id          ActivityID
	description string
	category    string
	tags        map[string]struct{}
	kind        ActivityKind
	status      Status
	begin       pacetime.DateTime
	endOptions  *EndOptions
	kindOptions *KindOptions
}

// CreateConfig holds the fields a caller supplies when creating a new
// Activity; Status defaults to Created and Kind to ActivityKindActivity
// when left zero-valued in the normal case, but callers that need a
// non-default starting status (e.g. a store's Hold creating an
// Intermission directly in InProgress) set Status/Kind explicitly.
type CreateConfig struct {
	Description string
	Category    string
	Tags        []string
	Kind        ActivityKind
	Status      Status
	Begin       pacetime.DateTime
	KindOptions *KindOptions
}

// NewActivity validates and constructs a new Activity, assigning it a
// fresh, time-ordered id (spec §3.3 "Creation assigns id ...").
func NewActivity(cfg CreateConfig, clock pacetime.Clock) (*Activity, error) {
	if strings.TrimSpace(cfg.Description) == "" {
		return nil, wrapErr(KindCategoryNotSet, "description must not be empty", nil)
	}
	if err := cfg.Begin.Validate(clock); err != nil {
		return nil, err
	}
	if cfg.Kind == ActivityKindIntermission && cfg.KindOptions == nil {
		return nil, ErrParentIDNotSet
	}

	id, err := NewActivityID()
	if err != nil {
		return nil, err
	}

	status := cfg.Status
	if status == StatusUnset {
		status = StatusCreated
	}

	return &Activity{
		id:          id,
		description: cfg.Description,
		category:    cfg.Category,
		tags:        newTagSet(cfg.Tags),
		kind:        cfg.Kind,
		status:      status,
		begin:       cfg.Begin,
		kindOptions: cfg.KindOptions,
	}, nil
}

func newTagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// Getters (read-only access, spec §4.2).

func (a *Activity) ID() ActivityID       { return a.id }
func (a *Activity) Description() string  { return a.description }
func (a *Activity) Category() string     { return a.category }
func (a *Activity) Kind() ActivityKind   { return a.kind }
func (a *Activity) Status() Status       { return a.status }
func (a *Activity) Begin() pacetime.DateTime { return a.begin }

// Tags returns the tag set as a sorted slice for deterministic output.
func (a *Activity) Tags() []string {
	tags := make([]string, 0, len(a.tags))
	for t := range a.tags {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// EndOptions returns the terminal timing data and whether it is present.
func (a *Activity) EndOptions() (EndOptions, bool) {
	if a.endOptions == nil {
		return EndOptions{}, false
	}
	return *a.endOptions, true
}

// KindOptions returns the kind-specific data and whether it is present.
func (a *Activity) KindOptions() (KindOptions, bool) {
	if a.kindOptions == nil {
		return KindOptions{}, false
	}
	return *a.kindOptions, true
}

// ParentID returns the parent id of an intermission, or the zero id and
// false if a is not an intermission or has no parent set.
func (a *Activity) ParentID() (ActivityID, bool) {
	if a.kindOptions == nil {
		return ActivityID{}, false
	}
	return a.kindOptions.ParentID, true
}

// SplitCategory splits the stored category on sep into a head and tail,
// defaulting to ("Uncategorized", "") when no category is set (spec
// §3.1, §4.5 "Uncategorized").
func (a *Activity) SplitCategory(sep string) (head, tail string) {
	if a.category == "" {
		return "Uncategorized", ""
	}
	if sep == "" {
		sep = "::"
	}
	parts := strings.SplitN(a.category, sep, 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// Predicates (spec §4.2).

func (a *Activity) IsInProgress() bool { return a.status == StatusInProgress }
func (a *Activity) IsPaused() bool     { return a.status == StatusPaused }
func (a *Activity) IsCompleted() bool  { return a.status == StatusCompleted }
func (a *Activity) IsArchived() bool   { return a.status == StatusArchived }
func (a *Activity) IsCreated() bool    { return a.status == StatusCreated }

// IsActiveIntermission reports whether a is an in-progress intermission.
func (a *Activity) IsActiveIntermission() bool {
	return a.kind == ActivityKindIntermission && a.status == StatusInProgress
}

// IsResumable reports whether a is eligible for resume — paused and not
// archived (archived activities never re-enter the active/resumable sets,
// spec §3.2 invariant 7).
func (a *Activity) IsResumable() bool {
	return a.status == StatusPaused
}

// EndActivity transitions the activity to Completed and installs the end
// options (spec §4.2). It is idempotent when the activity is already
// Completed with identical end options, and fails if the new end
// regresses before begin.
func (a *Activity) EndActivity(opts EndOptions) error {
	if a.status == StatusCompleted && a.endOptions != nil &&
		a.endOptions.End.Equal(opts.End) && a.endOptions.Duration.Seconds() == opts.Duration.Seconds() {
		return nil
	}
	if opts.End.Before(a.begin) {
		return fmt.Errorf("pace: end regresses before begin: %w", pacetime.ErrNegativeDuration)
	}
	a.status = StatusCompleted
	endCopy := opts
	a.endOptions = &endCopy
	return nil
}

// Archive transitions a Completed activity to Archived, a pure status
// flip that never discards the end options (spec §9 open-question
// decision 3 in SPEC_FULL.md).
func (a *Activity) Archive() error {
	if a.status != StatusCompleted {
		return wrapErr(KindActivityAlreadyArchived, "only completed activities can be archived", nil)
	}
	a.status = StatusArchived
	return nil
}

// Unarchive transitions an Archived activity back to Completed,
// restoring the prior end options unchanged.
func (a *Activity) Unarchive() error {
	if a.status != StatusArchived {
		return ErrActivityAlreadyArchived
	}
	a.status = StatusCompleted
	return nil
}

// BeginActivity transitions Created to InProgress (called by the storage
// layer as part of begin_activity, spec §4.4.1).
func (a *Activity) BeginActivity() {
	a.status = StatusInProgress
}

// Pause transitions InProgress to Paused (spec §4.4.3 step 4); it does
// not touch end options.
func (a *Activity) Pause() {
	a.status = StatusPaused
}

// Resume transitions Paused back to InProgress (spec §4.4.4 step 2).
func (a *Activity) Resume() {
	a.status = StatusInProgress
}

// UpdateOptions controls the merge policy applied by Merge (spec §4.2,
// §9 "Merge semantics vs structural update").
type UpdateOptions struct {
	// ReplaceTags, when true, replaces the tag set wholesale instead of
	// unioning it — grounded on the original `pace` CLI's
	// `adjust --override-tags` flag (SPEC_FULL.md §3.x supplement).
	ReplaceTags bool
}

// Merge overlays the non-skipped fields of other onto a, returning the
// pre-image (the receiver's state before the merge) as required by
// spec §4.3 "update merges per 4.2 and returns the pre-image". The
// structural fields id, begin, and kind are never overwritten (spec §9),
// and status is left untouched here too — it only ever changes through
// the dedicated lifecycle transitions above, never through a descriptive
// update.
func (a *Activity) Merge(other *Activity, opts UpdateOptions) Activity {
	preImage := a.clone()

	if other.description != "" {
		a.description = other.description
	}
	if other.category != "" {
		a.category = other.category
	}
	if len(other.tags) > 0 {
		if opts.ReplaceTags {
			a.tags = cloneTagSet(other.tags)
		} else {
			for t := range other.tags {
				a.tags[t] = struct{}{}
			}
		}
	}
	if other.endOptions != nil {
		endCopy := *other.endOptions
		a.endOptions = &endCopy
	}
	if other.kindOptions != nil {
		koCopy := *other.kindOptions
		a.kindOptions = &koCopy
	}

	return preImage
}

// ActivityPatch is the set of descriptive fields a storage-layer update
// can change. Structural fields (id, begin, kind) and status are never
// part of a patch — status only ever changes through the dedicated
// lifecycle transitions above (SPEC_FULL.md §9 decision on merge vs.
// structural update).
type ActivityPatch struct {
	Description *string
	Category    *string
	Tags        []string
	EndOptions  *EndOptions
	KindOptions *KindOptions
}

// MergePatch applies patch to a in place, returning the pre-image. Unlike
// Merge, it never needs a throwaway Activity to carry the new values:
// unset pointer fields are left alone rather than compared against a
// zero value.
func (a *Activity) MergePatch(patch ActivityPatch, opts UpdateOptions) Activity {
	preImage := a.clone()

	if patch.Description != nil && *patch.Description != "" {
		a.description = *patch.Description
	}
	if patch.Category != nil {
		a.category = *patch.Category
	}
	if len(patch.Tags) > 0 {
		if opts.ReplaceTags {
			a.tags = newTagSet(patch.Tags)
		} else {
			for t := range newTagSet(patch.Tags) {
				a.tags[t] = struct{}{}
			}
		}
	}
	if patch.EndOptions != nil {
		endCopy := *patch.EndOptions
		a.endOptions = &endCopy
	}
	if patch.KindOptions != nil {
		koCopy := *patch.KindOptions
		a.kindOptions = &koCopy
	}

	return preImage
}

func cloneTagSet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}

// clone returns a deep copy of a, used to produce pre-images for update
// and delete operations (spec §4.3).
func (a *Activity) clone() Activity {
	var endCopy *EndOptions
	if a.endOptions != nil {
		e := *a.endOptions
		endCopy = &e
	}
	var kindCopy *KindOptions
	if a.kindOptions != nil {
		k := *a.kindOptions
		kindCopy = &k
	}
	return Activity{
		id:          a.id,
		description: a.description,
		category:    a.category,
		tags:        cloneTagSet(a.tags),
		kind:        a.kind,
		status:      a.status,
		begin:       a.begin,
		endOptions:  endCopy,
		kindOptions: kindCopy,
	}
}

// Clone returns a deep, independent copy of the activity. Stores return
// clones from read operations so callers can't mutate internal state
// through an aliased pointer.
func (a *Activity) Clone() *Activity {
	c := a.clone()
	return &c
}

// ActivityRecord is the self-describing, stable-field-name serialized form
// of an Activity (spec §4.8 "on-disk document format"). It exists because
// Activity's fields are private, and a durable document must not couple
// its shape to the entity's internal representation.
type ActivityRecord struct {
	ID          ActivityID   `yaml:"id"`
	Description string       `yaml:"description"`
	Category    string       `yaml:"category,omitempty"`
	Tags        []string     `yaml:"tags,omitempty"`
	Kind        ActivityKind `yaml:"kind"`
	Status      Status       `yaml:"status"`
	Begin       pacetime.DateTime `yaml:"begin"`
	EndOptions  *EndOptions  `yaml:"end_options,omitempty"`
	KindOptions *KindOptions `yaml:"kind_options,omitempty"`
}

// ToRecord converts a to its serializable form.
func (a *Activity) ToRecord() ActivityRecord {
	var endOptions *EndOptions
	if eo, ok := a.EndOptions(); ok {
		endOptions = &eo
	}
	var kindOptions *KindOptions
	if ko, ok := a.KindOptions(); ok {
		kindOptions = &ko
	}
	return ActivityRecord{
		ID:          a.id,
		Description: a.description,
		Category:    a.category,
		Tags:        a.Tags(),
		Kind:        a.kind,
		Status:      a.status,
		Begin:       a.begin,
		EndOptions:  endOptions,
		KindOptions: kindOptions,
	}
}

// ActivityFromRecord reconstructs an Activity from its serialized form,
// trusting the record's id and status as given rather than re-deriving
// them — unlike NewActivity, this is deserialization of a previously
// valid entity, not creation of a new one.
func ActivityFromRecord(r ActivityRecord) *Activity {
	return &Activity{
		id:          r.ID,
		description: r.Description,
		category:    r.Category,
		tags:        newTagSet(r.Tags),
		kind:        r.Kind,
		status:      r.Status,
		begin:       r.Begin,
		endOptions:  r.EndOptions,
		kindOptions: r.KindOptions,
	}
}
