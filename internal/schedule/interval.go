// Package schedule implements the slot-availability and overlap-resolution
// engine.  Given a court's operating hours, a target date and the three
// occupancy sources (one-off bookings, recurring bookings with per-date
// releases, tournament blackouts) it computes which fixed-duration slots
// are free, which are taken and by what kind of commitment, and performs
// the authoritative create-if-still-free admission of new bookings.
//
// All times inside the engine are minute-of-day offsets on a single date.
// Intervals are half-open: [start, end).  The package performs no I/O of
// its own; storage access happens only through the Source and Store
// interfaces so every computation stays deterministic and testable.
package schedule

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End) expressed in minutes
// since midnight of a single date.  End must be greater than Start for
// the interval to be meaningful.
type Interval struct {
	Start int // inclusive, minutes since midnight
	End   int // exclusive, minutes since midnight
}

// Overlaps reports whether two half-open intervals on the same date
// share at least one minute.  Touching endpoints (a.End == b.Start or
// a.Start == b.End) are NOT an overlap; back-to-back bookings with zero
// gap are legal.  Every occupancy comparison in the engine and in the
// admission path must go through this predicate so that boundary
// handling stays in exactly one place.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// ParseClock converts an "HH:MM" wall-clock string to minutes since
// midnight.  It accepts 00:00 through 23:59 and rejects everything
// else, including "24:00".
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedInput, s)
	}
	if len(s) != 5 || s[2] != ':' || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q is not a valid time of day", ErrMalformedInput, s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight back to "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseDate converts a "YYYY-MM-DD" string into a UTC midnight time.Time.
// Dates carry no clock component inside the engine.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrMalformedInput, s)
	}
	return t.UTC(), nil
}

// WeekdayIndex maps a date to the recurring-booking weekday numbering,
// 0=Monday .. 6=Sunday.  Go's time.Weekday starts the week on Sunday,
// recurring rows do not.
func WeekdayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
