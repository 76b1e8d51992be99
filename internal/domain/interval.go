package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval is returned for malformed or non-positive intervals.
var ErrInvalidInterval = errors.New("invalid time interval")

// TimeInterval is a half-open time range [Start, End).
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval builds a validated interval.
func NewInterval(start, end time.Time) (TimeInterval, error) {
	i := TimeInterval{Start: start, End: end}
	if err := i.Validate(); err != nil {
		return TimeInterval{}, err
	}
	return i, nil
}

// Validate rejects zero-duration and inverted intervals.
func (i TimeInterval) Validate() error {
	if i.Start.IsZero() || i.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInterval)
	}
	if !i.Start.Before(i.End) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInterval)
	}
	return nil
}

// Overlaps reports whether the two intervals share at least one instant.
// Equal boundaries do not overlap, so back-to-back bookings are legal.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether t falls inside the interval.
func (i TimeInterval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i TimeInterval) Hours() float64 {
	return i.Duration().Hours()
}

// EndedBefore reports whether the interval lies fully in the past relative to now.
func (i TimeInterval) EndedBefore(now time.Time) bool {
	return !i.End.After(now)
}

func (i TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
