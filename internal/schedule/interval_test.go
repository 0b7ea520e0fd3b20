package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, s string) int {
	t.Helper()
	m, err := ParseClock(s)
	require.NoError(t, err)
	return m
}

func iv(t *testing.T, start, end string) Interval {
	t.Helper()
	return Interval{Start: mustClock(t, start), End: mustClock(t, end)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", Interval{600, 660}, Interval{600, 660}, true},
		{"contained", Interval{600, 720}, Interval{630, 660}, true},
		{"partial left", Interval{600, 690}, Interval{660, 720}, true},
		{"touching end-to-start", Interval{600, 660}, Interval{660, 720}, false},
		{"touching start-to-end", Interval{660, 720}, Interval{600, 660}, false},
		{"disjoint", Interval{600, 660}, Interval{720, 780}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			// symmetry holds for every pair
			assert.Equal(t, Overlaps(tt.a, tt.b), Overlaps(tt.b, tt.a))
		})
	}
}

func TestOverlapsTouchingBoundaries(t *testing.T) {
	// Back-to-back bookings with zero gap are legal.
	assert.False(t, Overlaps(iv(t, "10:00", "11:00"), iv(t, "11:00", "12:00")))
	assert.True(t, Overlaps(iv(t, "10:00", "11:30"), iv(t, "11:00", "12:00")))
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, m)

	m, err = ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	for _, bad := range []string{"24:00", "12:60", "9:00", "banana", "12-30", ""} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrMalformedInput, "input %q", bad)
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "08:05", "13:30", "23:59"} {
		assert.Equal(t, s, FormatClock(mustClock(t, s)))
	}
}

func TestWeekdayIndex(t *testing.T) {
	// 2024-03-04 is a Monday.
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayIndex(monday))
	assert.Equal(t, 6, WeekdayIndex(monday.AddDate(0, 0, 6))) // Sunday
	assert.Equal(t, 0, WeekdayIndex(monday.AddDate(0, 0, 7)))
}
