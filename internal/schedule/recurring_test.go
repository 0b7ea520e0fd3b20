package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccupiesOn(t *testing.T) {
	mondayRule := RecurringRule{
		Weekday:   0, // Monday
		Interval:  Interval{18 * 60, 19 * 60},
		ValidFrom: date(2024, 1, 1),
		Active:    true,
	}

	tests := []struct {
		name string
		rule RecurringRule
		on   time.Time
		want bool
	}{
		{"matching monday", mondayRule, date(2024, 3, 4), true},
		{"wrong weekday", mondayRule, date(2024, 3, 5), false},
		{"before validity window", mondayRule, date(2023, 12, 25), false},
		{"first valid occurrence", mondayRule, date(2024, 1, 1), true},
		{
			name: "inactive rule",
			rule: func() RecurringRule { r := mondayRule; r.Active = false; return r }(),
			on:   date(2024, 3, 4),
			want: false,
		},
		{
			name: "after closed validity window",
			rule: func() RecurringRule {
				r := mondayRule
				until := date(2024, 2, 29)
				r.ValidUntil = &until
				return r
			}(),
			on:   date(2024, 3, 4),
			want: false,
		},
		{
			name: "last day of validity window",
			rule: func() RecurringRule {
				r := mondayRule
				until := date(2024, 3, 4)
				r.ValidUntil = &until
				return r
			}(),
			on:   date(2024, 3, 4),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OccupiesOn(tt.rule, tt.on))
		})
	}
}
