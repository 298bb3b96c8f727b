package pacetime

import "time"

// Clock abstracts wall-clock access so tests can inject a fixed or
// scripted time source instead of depending on time.Now directly.
// Grounded on the Clock abstraction used for deadline-based engines
// elsewhere in the retrieved pack (ezchuang-GoPomodoro's internal/core
// engine), adapted here for validation rather than timer scheduling.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DefaultClock is the Clock used when no override is supplied.
var DefaultClock Clock = systemClock{}

// FixedClock is a Clock that always returns the same instant. Useful in
// tests that need a deterministic "now".
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time { return f.At }
