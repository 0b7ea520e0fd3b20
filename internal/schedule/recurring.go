package schedule

import "time"

// RecurringRule is the engine's view of a weekly recurring booking: the
// weekday it repeats on (0=Monday .. 6=Sunday), its time interval and
// its validity window.  ValidUntil nil means open-ended.
type RecurringRule struct {
	ID         uint64
	Weekday    int
	Interval   Interval
	ValidFrom  time.Time
	ValidUntil *time.Time
	Active     bool
	PriceCents *uint32
}

// OccupiesOn reports whether the rule projects an occupied interval onto
// the given date, before considering releases.  The rule must be
// active, the weekday must match and the validity window must contain
// the date.  Recomputed on demand per (rule, date); no calendar of
// future occurrences is ever materialized, so there is nothing to keep
// in sync when the rule changes.
func OccupiesOn(r RecurringRule, date time.Time) bool {
	if !r.Active {
		return false
	}
	if WeekdayIndex(date) != r.Weekday {
		return false
	}
	if date.Before(r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && date.After(*r.ValidUntil) {
		return false
	}
	return true
}
