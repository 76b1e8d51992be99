package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func iv(t *testing.T, start, end string) TimeInterval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("bad start %q: %v", start, err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("bad end %q: %v", end, err)
	}
	return TimeInterval{Start: s, End: e}
}

func TestIntervalValidate(t *testing.T) {
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, TimeInterval{Start: base, End: base.Add(time.Hour)}.Validate())

	err := TimeInterval{Start: base, End: base}.Validate()
	assert.ErrorIs(t, err, ErrInvalidInterval, "zero-duration interval must be invalid")

	err = TimeInterval{Start: base.Add(time.Hour), End: base}.Validate()
	assert.ErrorIs(t, err, ErrInvalidInterval)

	err = TimeInterval{End: base}.Validate()
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestIntervalOverlaps(t *testing.T) {
	a := iv(t, "2024-06-01T09:00:00Z", "2024-06-01T10:00:00Z")

	tests := []struct {
		name string
		b    TimeInterval
		want bool
	}{
		{"identical", a, true},
		{"contained", iv(t, "2024-06-01T09:15:00Z", "2024-06-01T09:45:00Z"), true},
		{"straddles start", iv(t, "2024-06-01T08:30:00Z", "2024-06-01T09:30:00Z"), true},
		{"straddles end", iv(t, "2024-06-01T09:30:00Z", "2024-06-01T10:30:00Z"), true},
		{"covers", iv(t, "2024-06-01T08:00:00Z", "2024-06-01T11:00:00Z"), true},
		{"back-to-back after", iv(t, "2024-06-01T10:00:00Z", "2024-06-01T11:00:00Z"), false},
		{"back-to-back before", iv(t, "2024-06-01T08:00:00Z", "2024-06-01T09:00:00Z"), false},
		{"disjoint", iv(t, "2024-06-01T12:00:00Z", "2024-06-01T13:00:00Z"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.b.Overlaps(a))
		})
	}
}

func TestIntervalContains(t *testing.T) {
	a := iv(t, "2024-06-01T09:00:00Z", "2024-06-01T10:00:00Z")

	assert.True(t, a.Contains(a.Start), "start boundary is inside")
	assert.False(t, a.Contains(a.End), "end boundary is outside under half-open semantics")
	assert.True(t, a.Contains(a.Start.Add(30*time.Minute)))
}

func TestIntervalEndedBefore(t *testing.T) {
	a := iv(t, "2024-06-01T09:00:00Z", "2024-06-01T10:00:00Z")

	assert.True(t, a.EndedBefore(a.End))
	assert.True(t, a.EndedBefore(a.End.Add(time.Minute)))
	assert.False(t, a.EndedBefore(a.Start))
}
