// Package pacetime provides validated value types for dates, times, and
// durations used by the activity engine. Every constructor that can fail
// returns one of the sentinel errors below so callers can match with
// errors.Is.
package pacetime

import "errors"

// Sentinel errors for the temporal error taxonomy (spec §7 "Temporal").
var (
	ErrStartTimeInFuture         = errors.New("pacetime: start time is in the future")
	ErrInvalidTimeRange          = errors.New("pacetime: invalid time range")
	ErrInvalidDate               = errors.New("pacetime: invalid date")
	ErrAmbiguousConversionResult = errors.New("pacetime: ambiguous local time conversion")
	ErrParsingDurationFailed     = errors.New("pacetime: failed to parse duration")
	ErrNegativeDuration          = errors.New("pacetime: duration between times is negative")
)
