package pacetime

import "time"

// Duration is a non-negative integer number of seconds (spec §4.1).
type Duration struct {
	seconds int64
}

// NewDuration validates and constructs a Duration from a count of seconds.
func NewDuration(seconds int64) (Duration, error) {
	if seconds < 0 {
		return Duration{}, ErrNegativeDuration
	}
	return Duration{seconds: seconds}, nil
}

// DurationBetween computes the duration between a and b, failing if b is
// earlier than a (spec §4.1 "Duration::between(a, b) fails if b < a").
func DurationBetween(a, b DateTime) (Duration, error) {
	if b.Before(a) {
		return Duration{}, ErrNegativeDuration
	}
	return Duration{seconds: int64(b.t.Sub(a.t).Seconds())}, nil
}

// Seconds returns the duration in whole seconds.
func (d Duration) Seconds() int64 { return d.seconds }

// Add returns the sum of d and other, used by the reflection pipeline to
// accumulate durations across activities and intermissions.
func (d Duration) Add(other Duration) Duration {
	return Duration{seconds: d.seconds + other.seconds}
}

// Duration converts to a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d.seconds) * time.Second
}

// String renders the duration as Go's standard duration format.
func (d Duration) String() string {
	return d.Duration().String()
}

// MarshalYAML renders the duration as a whole count of seconds, matching
// the on-disk field name in spec §3.1.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.seconds, nil
}

// UnmarshalYAML parses the duration back from a count of seconds.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var seconds int64
	if err := unmarshal(&seconds); err != nil {
		return err
	}
	parsed, err := NewDuration(seconds)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
