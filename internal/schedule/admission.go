package schedule

import (
	"context"
	"errors"
	"time"
)

// Clock supplies the current time for past-slot checks.  Injected so
// the admission controller stays deterministic under test; production
// wiring passes time.Now.
type Clock func() time.Time

// ErrDuplicateSlot is returned by Store implementations when the
// storage-level uniqueness constraint on (court, date, start) rejects
// the insert.  The admitter translates it into a race-lost conflict.
var ErrDuplicateSlot = errors.New("duplicate slot")

// NewBooking is the commitment the admitter asks the store to create.
// Interval is frozen at admission time; it is never recomputed if the
// court's slot duration changes later.
type NewBooking struct {
	CourtID       uint64
	Date          time.Time
	Interval      Interval
	PriceCents    uint32
	Confirmed     bool // operator bookings are confirmed immediately
	PlayerID      *uint64
	CustomerName  string
	CustomerPhone string
	Notes         string
}

// Store performs the create-if-still-free transition.  Implementations
// must rely on a uniqueness constraint on (court, date, start) for
// pending/confirmed bookings, or an equivalent transactional
// check-then-insert, so that two concurrent admissions for the same
// slot cannot both succeed.
type Store interface {
	CreateIfFree(ctx context.Context, b *NewBooking) (uint64, error)
}

// AdmissionRequest is a proposed booking as received from a caller.
// Date and Start are the raw request strings; parsing failures are
// validation errors, a category distinct from occupancy conflicts.
type AdmissionRequest struct {
	Date          string
	Start         string
	ByOperator    bool
	PlayerID      *uint64
	CustomerName  string
	CustomerPhone string
	Notes         string
}

// Admitted describes a successfully created booking.
type Admitted struct {
	BookingID  uint64
	Date       time.Time
	Interval   Interval
	Confirmed  bool
	PriceCents uint32
}

// Admitter is the booking admission controller.  It shares the Resolver
// with the availability query so the advisory and authoritative answers
// can never disagree.
type Admitter struct {
	Resolver *Resolver
	Store    Store
	Now      Clock
}

// Admit validates a proposed booking, re-runs the full occupancy
// resolution for the target slot and either creates the commitment or
// rejects it with a specific reason.  The occupancy check is always
// re-executed here even if the caller queried availability moments
// earlier: availability is a snapshot, admission is authoritative.
//
// Rejections: ErrMalformedInput (wrapped) for unparseable fields,
// ErrCourtMisconfigured, ErrOffGrid, ErrPastSlot, and *ConflictError
// for occupied slots including lost races.  Nothing is partially
// committed; a failed admission leaves no rows behind.
func (a *Admitter) Admit(ctx context.Context, cfg CourtConfig, req AdmissionRequest) (*Admitted, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	startMin, err := ParseClock(req.Start)
	if err != nil {
		return nil, err
	}

	grid, err := Grid(cfg)
	if err != nil {
		return nil, err
	}
	var slot *Interval
	for i := range grid {
		if grid[i].Start == startMin {
			slot = &grid[i]
			break
		}
	}
	if slot == nil {
		return nil, ErrOffGrid
	}

	now := a.Now().UTC()
	slotStart := date.Add(time.Duration(slot.Start) * time.Minute)
	if !slotStart.After(now) {
		return nil, ErrPastSlot
	}

	occs, err := a.Resolver.Collect(ctx, cfg.CourtID, date)
	if err != nil {
		return nil, err
	}
	if c := conflictFor(*slot, occs); c != nil {
		return nil, &ConflictError{Reason: reasonFor(c.Kind), Kind: c.Kind, RefID: c.RefID}
	}

	nb := &NewBooking{
		CourtID:       cfg.CourtID,
		Date:          date,
		Interval:      *slot,
		PriceCents:    cfg.PriceCents,
		Confirmed:     req.ByOperator,
		PlayerID:      req.PlayerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	}
	id, err := a.Store.CreateIfFree(ctx, nb)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlot) {
			// Lost the race to a concurrent admission for the same
			// slot.  Reported like any other one-off conflict.
			return nil, &ConflictError{Reason: ReasonOneOffExists, Kind: KindOneOff, RaceLost: true}
		}
		return nil, err
	}
	return &Admitted{
		BookingID:  id,
		Date:       date,
		Interval:   *slot,
		Confirmed:  nb.Confirmed,
		PriceCents: nb.PriceCents,
	}, nil
}

func reasonFor(k Kind) Reason {
	switch k {
	case KindRecurring:
		return ReasonRecurringActive
	case KindBlackout:
		return ReasonBlackoutActive
	default:
		return ReasonOneOffExists
	}
}
