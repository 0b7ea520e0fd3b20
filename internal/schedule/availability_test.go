package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource returns a fixed list of occupations for any court/date.
type stubSource []Occupation

func (s stubSource) Occupations(_ context.Context, _ uint64, _ time.Time) ([]Occupation, error) {
	return s, nil
}

// recurringStub resolves rules the way the storage adapter does: active
// rules projected onto the date via OccupiesOn, minus released dates.
type recurringStub struct {
	rules    []RecurringRule
	released map[string]bool // "id|YYYY-MM-DD"
}

func (s recurringStub) Occupations(_ context.Context, _ uint64, date time.Time) ([]Occupation, error) {
	var occs []Occupation
	for _, r := range s.rules {
		if !OccupiesOn(r, date) {
			continue
		}
		if s.released[releaseKey(r.ID, date)] {
			continue
		}
		occs = append(occs, Occupation{Interval: r.Interval, Kind: KindRecurring, RefID: r.ID, PriceCents: r.PriceCents})
	}
	return occs, nil
}

func releaseKey(id uint64, date time.Time) string {
	return fmt.Sprintf("%d|%s", id, date.Format("2006-01-02"))
}

func testCourt() CourtConfig {
	return CourtConfig{CourtID: 1, OpenMin: 8 * 60, CloseMin: 22 * 60, SlotMinutes: 60, PriceCents: 12000}
}

func slotAt(t *testing.T, slots []Slot, start string) Slot {
	t.Helper()
	for _, s := range slots {
		if s.StartLabel == start {
			return s
		}
	}
	t.Fatalf("no slot starting at %s", start)
	return Slot{}
}

func TestAvailabilityAllFree(t *testing.T) {
	r := &Resolver{}
	slots, err := AvailabilityForDate(context.Background(), r, testCourt(), date(2024, 6, 1))
	require.NoError(t, err)
	require.Len(t, slots, 14)
	for _, s := range slots {
		assert.False(t, s.Occupied)
		assert.Equal(t, KindNone, s.Kind)
		assert.Equal(t, uint32(12000), s.PriceCents)
	}
}

func TestAvailabilityRecurringWithRelease(t *testing.T) {
	rule := RecurringRule{
		ID:        7,
		Weekday:   0, // every Monday
		Interval:  Interval{18 * 60, 19 * 60},
		ValidFrom: date(2024, 1, 1),
		Active:    true,
	}
	src := recurringStub{
		rules:    []RecurringRule{rule},
		released: map[string]bool{releaseKey(7, date(2024, 3, 4)): true},
	}
	r := &Resolver{Recurring: src}

	// 2024-03-04 is a Monday with a release: the slot is free.
	released, err := AvailabilityForDate(context.Background(), r, testCourt(), date(2024, 3, 4))
	require.NoError(t, err)
	s := slotAt(t, released, "18:00")
	assert.False(t, s.Occupied)
	assert.Equal(t, KindNone, s.Kind)

	// 2024-03-11 is the next Monday, no release: occupied by the rule.
	blocked, err := AvailabilityForDate(context.Background(), r, testCourt(), date(2024, 3, 11))
	require.NoError(t, err)
	s = slotAt(t, blocked, "18:00")
	assert.True(t, s.Occupied)
	assert.Equal(t, KindRecurring, s.Kind)
	assert.Equal(t, uint64(7), s.RefID)
}

func TestAvailabilityPrecedence(t *testing.T) {
	blackout := stubSource{{Interval: Interval{10 * 60, 12 * 60}, Kind: KindBlackout, RefID: 3}}

	// Blackout alone reports BLACKOUT.
	r := &Resolver{Blackout: blackout}
	slots, err := AvailabilityForDate(context.Background(), r, testCourt(), date(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, KindBlackout, slotAt(t, slots, "10:00").Kind)
	assert.Equal(t, KindBlackout, slotAt(t, slots, "11:00").Kind)
	assert.Equal(t, KindNone, slotAt(t, slots, "12:00").Kind)

	// One-off covering the same slot wins over the blackout.
	oneOff := stubSource{{Interval: Interval{10 * 60, 11 * 60}, Kind: KindOneOff, RefID: 42}}
	r = &Resolver{OneOff: oneOff, Blackout: blackout}
	slots, err = AvailabilityForDate(context.Background(), r, testCourt(), date(2024, 6, 1))
	require.NoError(t, err)
	got := slotAt(t, slots, "10:00")
	assert.Equal(t, KindOneOff, got.Kind)
	assert.Equal(t, uint64(42), got.RefID)
	// The adjacent slot only the blackout touches keeps its kind.
	assert.Equal(t, KindBlackout, slotAt(t, slots, "11:00").Kind)
}

func TestAvailabilityEffectivePrice(t *testing.T) {
	price := uint32(9000)
	oneOff := stubSource{{Interval: Interval{9 * 60, 10 * 60}, Kind: KindOneOff, RefID: 5, PriceCents: &price}}
	r := &Resolver{OneOff: oneOff}
	slots, err := AvailabilityForDate(context.Background(), r, testCourt(), date(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, uint32(9000), slotAt(t, slots, "09:00").PriceCents)
	assert.Equal(t, uint32(12000), slotAt(t, slots, "10:00").PriceCents)
}

func TestAvailabilityMisconfiguredCourt(t *testing.T) {
	cfg := testCourt()
	cfg.SlotMinutes = 0
	_, err := AvailabilityForDate(context.Background(), &Resolver{}, cfg, date(2024, 6, 1))
	assert.ErrorIs(t, err, ErrCourtMisconfigured)
}
