package schedule

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// memStore is an in-memory Store enforcing the (court, date, start)
// uniqueness constraint under a mutex, mirroring the database unique
// key.  Created bookings also feed back into the one-off source so the
// resolver sees them on the next collection.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[string]*NewBooking
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]*NewBooking)}
}

func (s *memStore) CreateIfFree(_ context.Context, b *NewBooking) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%d", b.CourtID, b.Date.Format("2006-01-02"), b.Interval.Start)
	if _, taken := s.rows[key]; taken {
		return 0, ErrDuplicateSlot
	}
	s.nextID++
	s.rows[key] = b
	return s.nextID, nil
}

func (s *memStore) Occupations(_ context.Context, courtID uint64, date time.Time) ([]Occupation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var occs []Occupation
	for _, b := range s.rows {
		if b.CourtID == courtID && b.Date.Equal(date) {
			occs = append(occs, Occupation{Interval: b.Interval, Kind: KindOneOff})
		}
	}
	return occs, nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newTestAdmitter(store *memStore, now time.Time, extra ...Source) *Admitter {
	r := &Resolver{OneOff: store}
	if len(extra) > 0 {
		r.Recurring = extra[0]
	}
	if len(extra) > 1 {
		r.Blackout = extra[1]
	}
	return &Admitter{Resolver: r, Store: store, Now: fixedClock(now)}
}

func TestAdmitCreatesPendingBooking(t *testing.T) {
	store := newMemStore()
	a := newTestAdmitter(store, date(2024, 5, 31))

	got, err := a.Admit(context.Background(), testCourt(), AdmissionRequest{
		Date:         "2024-06-01",
		Start:        "10:00",
		CustomerName: "Walk-in",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.BookingID)
	assert.False(t, got.Confirmed)
	assert.Equal(t, Interval{10 * 60, 11 * 60}, got.Interval)
	assert.Equal(t, uint32(12000), got.PriceCents)
}

func TestAdmitOperatorIsConfirmed(t *testing.T) {
	a := newTestAdmitter(newMemStore(), date(2024, 5, 31))
	got, err := a.Admit(context.Background(), testCourt(), AdmissionRequest{
		Date: "2024-06-01", Start: "10:00", ByOperator: true,
	})
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
}

func TestAdmitRejectsPastSlots(t *testing.T) {
	// Clock fixed at 2024-06-01 12:30 UTC.
	now := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	a := newTestAdmitter(newMemStore(), now)

	// Yesterday is always rejected, occupancy never consulted.
	_, err := a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-05-31", Start: "10:00"})
	assert.ErrorIs(t, err, ErrPastSlot)

	// Today before the current time as well.
	_, err = a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-06-01", Start: "12:00"})
	assert.ErrorIs(t, err, ErrPastSlot)

	// Today later on is fine.
	_, err = a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-06-01", Start: "13:00"})
	assert.NoError(t, err)
}

func TestAdmitValidation(t *testing.T) {
	a := newTestAdmitter(newMemStore(), date(2024, 5, 31))

	_, err := a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "junk", Start: "10:00"})
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-06-01", Start: "25:99"})
	assert.ErrorIs(t, err, ErrMalformedInput)

	// 10:30 does not start any slot on a 60-minute grid opening at 08:00.
	_, err = a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-06-01", Start: "10:30"})
	assert.ErrorIs(t, err, ErrOffGrid)

	bad := testCourt()
	bad.OpenMin, bad.CloseMin = bad.CloseMin, bad.OpenMin
	_, err = a.Admit(context.Background(), bad, AdmissionRequest{Date: "2024-06-01", Start: "10:00"})
	assert.ErrorIs(t, err, ErrCourtMisconfigured)
}

func TestAdmitConflictReasons(t *testing.T) {
	recurring := stubSource{{Interval: Interval{18 * 60, 19 * 60}, Kind: KindRecurring, RefID: 7}}
	blackout := stubSource{{Interval: Interval{10 * 60, 12 * 60}, Kind: KindBlackout, RefID: 3}}
	store := newMemStore()
	a := newTestAdmitter(store, date(2024, 5, 31), recurring, blackout)

	_, err := a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-06-03", Start: "18:00"})
	ce, ok := AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, ReasonRecurringActive, ce.Reason)
	assert.Equal(t, uint64(7), ce.RefID)

	_, err = a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-06-03", Start: "11:00"})
	ce, ok = AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, ReasonBlackoutActive, ce.Reason)

	// Occupy 14:00 with a one-off, then try to take it again.
	_, err = a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-06-03", Start: "14:00"})
	require.NoError(t, err)
	_, err = a.Admit(context.Background(), testCourt(), AdmissionRequest{Date: "2024-06-03", Start: "14:00"})
	ce, ok = AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, ReasonOneOffExists, ce.Reason)
}

func TestAdmitRaceExactlyOneWins(t *testing.T) {
	// The resolver sees an empty snapshot for both attempts, as happens
	// when two clients query availability and then admit concurrently.
	// The uniqueness constraint in the store must let exactly one
	// through; the loser is told the slot is taken.
	store := newMemStore()
	a := &Admitter{
		Resolver: &Resolver{OneOff: stubSource{}},
		Store:    store,
		Now:      fixedClock(date(2024, 5, 31)),
	}
	req := AdmissionRequest{Date: "2024-06-01", Start: "10:00"}

	var mu sync.Mutex
	var wins, losses int
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := a.Admit(context.Background(), testCourt(), req)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				return nil
			}
			ce, ok := AsConflict(err)
			if !ok {
				return err
			}
			assert.Equal(t, ReasonOneOffExists, ce.Reason)
			assert.True(t, ce.RaceLost)
			losses++
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Len(t, store.rows, 1, "no duplicate booking rows")
}
