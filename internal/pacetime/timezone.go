package pacetime

import (
	"fmt"
	"time"
)

// TimeZoneKindTag discriminates the variants of TimeZoneKind.
type TimeZoneKindTag int

const (
	// TimeZoneNotSet means "use the local offset at the moment of parse."
	TimeZoneNotSet TimeZoneKindTag = iota
	// TimeZoneNamed carries an IANA zone name (e.g. "Europe/Berlin").
	TimeZoneNamed
	// TimeZoneOffset carries a fixed offset from UTC, in minutes.
	TimeZoneOffset
)

// TimeZoneKind is a tagged union over "not set", a named IANA zone, or a
// fixed UTC offset in minutes, mirroring the three ways a caller can tell
// pace which offset to resolve a wall-clock time against.
type TimeZoneKind struct {
	tag          TimeZoneKindTag
	name         string
	offsetMinute int
}

// NotSetTimeZone returns the "use local offset" variant.
func NotSetTimeZone() TimeZoneKind { return TimeZoneKind{tag: TimeZoneNotSet} }

// NamedTimeZone returns a TimeZoneKind referring to an IANA zone name.
func NamedTimeZone(name string) TimeZoneKind {
	return TimeZoneKind{tag: TimeZoneNamed, name: name}
}

// OffsetTimeZone returns a TimeZoneKind carrying a fixed offset in minutes.
func OffsetTimeZone(minutes int) TimeZoneKind {
	return TimeZoneKind{tag: TimeZoneOffset, offsetMinute: minutes}
}

// IsNotSet reports whether the kind is the "not set" variant.
func (k TimeZoneKind) IsNotSet() bool { return k.tag == TimeZoneNotSet }

// Location resolves the kind to a fixed-offset *time.Location, using now
// to resolve named zones (DST-aware) and the current local offset for the
// "not set" variant.
func (k TimeZoneKind) Location(now time.Time) (*time.Location, error) {
	switch k.tag {
	case TimeZoneNotSet:
		_, offset := now.Local().Zone()
		return time.FixedZone(fmt.Sprintf("UTC%+03d:00", offset/3600), offset), nil
	case TimeZoneOffset:
		seconds := k.offsetMinute * 60
		return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", k.offsetMinute/60, abs(k.offsetMinute%60)), seconds), nil
	case TimeZoneNamed:
		loc, err := time.LoadLocation(k.name)
		if err != nil {
			return nil, fmt.Errorf("pacetime: unknown time zone %q: %w", k.name, err)
		}
		_, offset := now.In(loc).Zone()
		return time.FixedZone(loc.String(), offset), nil
	default:
		return nil, fmt.Errorf("pacetime: unhandled time zone kind %d", k.tag)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
