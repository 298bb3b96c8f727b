package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ActivityID is an opaque 128-bit identifier, time-ordered (monotonically
// increasing under normal clock conditions) and lexicographically
// sortable (spec §3.1). It is backed by a UUIDv7, which encodes a
// millisecond timestamp in its leading bits, unlike the v4 ids the
// teacher uses for Session/Workblock identifiers
// (internal/entities/session.go's uuid.New()) — v7 is required here
// because §3.1 and §8 invariant 6 demand that ids sort the same way
// creation order does.
type ActivityID struct {
	inner uuid.UUID
}

// NewActivityID mints a fresh, time-ordered id.
func NewActivityID() (ActivityID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return ActivityID{}, fmt.Errorf("domain: failed to mint activity id: %w", err)
	}
	return ActivityID{inner: id}, nil
}

// ParseActivityID parses a string form of an ActivityID.
func ParseActivityID(s string) (ActivityID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ActivityID{}, fmt.Errorf("domain: invalid activity id %q: %w", s, err)
	}
	return ActivityID{inner: id}, nil
}

// IsZero reports whether the id is the zero value (never assigned).
func (id ActivityID) IsZero() bool { return id.inner == uuid.Nil }

// String renders the id in canonical UUID form.
func (id ActivityID) String() string { return id.inner.String() }

// Less reports whether id sorts strictly before other — the deterministic
// ascending order §3.2 invariant 8 requires stores to enumerate in.
func (id ActivityID) Less(other ActivityID) bool {
	return id.String() < other.String()
}

// MarshalYAML renders the id as its canonical string form.
func (id ActivityID) MarshalYAML() (interface{}, error) {
	return id.inner.String(), nil
}

// UnmarshalYAML parses the id back from its canonical string form.
func (id *ActivityID) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseActivityID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
