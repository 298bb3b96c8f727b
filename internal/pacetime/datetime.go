package pacetime

import (
	"fmt"
	"time"
)

// DateTime is a date-time with a fixed UTC offset, truncated to whole
// seconds (spec §4.1). All activity begin/end timestamps are DateTime
// values so that the offset the user recorded the event in survives a
// round trip through storage, rather than being normalised to UTC.
type DateTime struct {
	t time.Time
}

// Now returns the current wall time, rounded down to the second, as a
// DateTime in the local fixed offset. Pass clock in tests instead of
// relying on the package-level DefaultClock for determinism.
func Now(clock Clock) DateTime {
	if clock == nil {
		clock = DefaultClock
	}
	return DateTime{t: clock.Now().Truncate(time.Second)}
}

// NewDateTime builds a DateTime from a date, a time-of-day, and a time
// zone kind. The offset is the one tz resolves to at the clock's current
// instant (see TimeZoneKind.Location), not the one in force on date, and
// the wall clock is built at that fixed offset. Wall times that fall in a
// DST gap or overlap of a named zone are not detected or rejected.
func NewDateTime(date Date, tod Time, tz TimeZoneKind, clock Clock) (DateTime, error) {
	if clock == nil {
		clock = DefaultClock
	}
	loc, err := tz.Location(clock.Now())
	if err != nil {
		return DateTime{}, err
	}

	wall := time.Date(date.year, date.month, date.day, tod.hour, tod.minute, tod.second, 0, loc)

	// Round-trip the constructed instant back through its own offset and
	// compare the wall-clock components the caller asked for. At the fixed
	// offsets Location returns every wall clock exists exactly once, so
	// this check does not catch DST gaps or overlaps.
	y, m, d := wall.Date()
	hh, mm, ss := wall.Clock()
	if y != date.year || m != date.month || d != date.day ||
		hh != tod.hour || mm != tod.minute || ss != tod.second {
		return DateTime{}, ErrAmbiguousConversionResult
	}

	return DateTime{t: wall.Truncate(time.Second)}, nil
}

// FromTime wraps an existing time.Time, truncating to whole seconds and
// preserving its offset verbatim.
func FromTime(t time.Time) DateTime {
	return DateTime{t: t.Truncate(time.Second)}
}

// ParseRFC3339 parses an RFC 3339 timestamp into a DateTime, preserving
// its offset.
func ParseRFC3339(s string) (DateTime, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("pacetime: %w", err)
	}
	return FromTime(t), nil
}

// Time returns the underlying time.Time value.
func (dt DateTime) Time() time.Time { return dt.t }

// IsZero reports whether dt is the zero value.
func (dt DateTime) IsZero() bool { return dt.t.IsZero() }

// Before reports whether dt is strictly earlier than other.
func (dt DateTime) Before(other DateTime) bool { return dt.t.Before(other.t) }

// After reports whether dt is strictly later than other.
func (dt DateTime) After(other DateTime) bool { return dt.t.After(other.t) }

// Equal reports whether dt and other refer to the same instant
// (offsets may differ).
func (dt DateTime) Equal(other DateTime) bool { return dt.t.Equal(other.t) }

// Add returns dt shifted by d.
func (dt DateTime) Add(d Duration) DateTime {
	return DateTime{t: dt.t.Add(d.Duration())}
}

// Date returns the calendar date of dt in its own offset.
func (dt DateTime) Date() Date { return DateFromTime(dt.t) }

// Validate fails with ErrStartTimeInFuture if dt is later than now
// (spec §4.1, invariant 6 in §3.2 and §8).
func (dt DateTime) Validate(clock Clock) error {
	if clock == nil {
		clock = DefaultClock
	}
	if dt.t.After(clock.Now()) {
		return ErrStartTimeInFuture
	}
	return nil
}

// String renders dt as RFC 3339 with seconds precision, preserving its
// original offset.
func (dt DateTime) String() string {
	return dt.t.Format(time.RFC3339)
}

// MarshalYAML renders dt as an RFC 3339 string for the file-backed store.
func (dt DateTime) MarshalYAML() (interface{}, error) {
	return dt.t.Format(time.RFC3339), nil
}

// UnmarshalYAML parses dt back from an RFC 3339 string.
func (dt *DateTime) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseRFC3339(s)
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}
