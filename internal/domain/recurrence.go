package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRecurrence = errors.New("invalid recurrence pattern")

type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
)

// maxOccurrences bounds the expansion of a single pattern.
const maxOccurrences = 100

// RecurrencePattern describes how a reservation repeats. Until is an
// inclusive bound on occurrence start times.
type RecurrencePattern struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"` // every N days/weeks/months, 0 means 1
	Weekdays []time.Weekday `json:"weekdays,omitempty"`
	Until    time.Time      `json:"until"`
}

func (p RecurrencePattern) Validate() error {
	switch p.Type {
	case RecurDaily, RecurWeekly, RecurMonthly:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRecurrence, p.Type)
	}
	if p.Interval < 0 {
		return fmt.Errorf("%w: interval must not be negative", ErrInvalidRecurrence)
	}
	if p.Until.IsZero() {
		return fmt.Errorf("%w: until date is required", ErrInvalidRecurrence)
	}
	return nil
}

// Occurrences expands the pattern into concrete intervals, starting from
// base. Every occurrence keeps the base duration. The base interval itself
// is the first occurrence when it matches the pattern.
func (p RecurrencePattern) Occurrences(base TimeInterval) []TimeInterval {
	dur := base.Duration()
	step := p.Interval
	if step < 1 {
		step = 1
	}

	out := make([]TimeInterval, 0)
	switch p.Type {
	case RecurDaily:
		for s := base.Start; !s.After(p.Until) && len(out) < maxOccurrences; s = s.AddDate(0, 0, step) {
			out = append(out, TimeInterval{Start: s, End: s.Add(dur)})
		}

	case RecurWeekly:
		set := make(map[time.Weekday]bool, len(p.Weekdays))
		for _, d := range p.Weekdays {
			set[d] = true
		}
		if len(set) == 0 {
			set[base.Start.Weekday()] = true
		}
		days := 0
		for s := base.Start; !s.After(p.Until) && len(out) < maxOccurrences; s = s.AddDate(0, 0, 1) {
			if set[s.Weekday()] && (days/7)%step == 0 {
				out = append(out, TimeInterval{Start: s, End: s.Add(dur)})
			}
			days++
		}

	case RecurMonthly:
		for s := base.Start; !s.After(p.Until) && len(out) < maxOccurrences; s = s.AddDate(0, step, 0) {
			out = append(out, TimeInterval{Start: s, End: s.Add(dur)})
		}
	}
	return out
}
