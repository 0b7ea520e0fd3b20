package schedule

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine.  Handlers translate them into
// HTTP status codes; none of them are retried automatically.
var (
	// ErrMalformedInput marks unparseable dates, times or otherwise
	// invalid request fields.  Distinct from occupancy conflicts.
	ErrMalformedInput = errors.New("malformed input")

	// ErrCourtMisconfigured is returned when a court's operating window
	// or slot duration cannot produce a grid (open >= close or a
	// non-positive duration).  Surfaced as a configuration error, never
	// silently defaulted.
	ErrCourtMisconfigured = errors.New("court misconfigured")

	// ErrPastSlot is returned when the requested slot is not in the
	// future relative to the injected clock.
	ErrPastSlot = errors.New("slot is in the past")

	// ErrOffGrid is returned when a requested start time does not match
	// any generated grid slot for the court.
	ErrOffGrid = errors.New("start time is not a bookable slot")
)

// Reason identifies which occupancy source rejected an admission.
type Reason string

const (
	ReasonOneOffExists    Reason = "ONE_OFF_EXISTS"
	ReasonRecurringActive Reason = "RECURRING_ACTIVE"
	ReasonBlackoutActive  Reason = "BLACKOUT_ACTIVE"
)

// ConflictError reports that a proposed booking overlaps an existing
// commitment.  RefID identifies the occupying entity when known.  A lost
// admission race surfaces as ReasonOneOffExists with RaceLost set; the
// caller must re-query availability and pick again, there is no
// retry-and-succeed path.
type ConflictError struct {
	Reason   Reason
	Kind     Kind
	RefID    uint64
	RaceLost bool
}

func (e *ConflictError) Error() string {
	if e.RaceLost {
		return fmt.Sprintf("slot conflict: %s (lost admission race)", e.Reason)
	}
	return fmt.Sprintf("slot conflict: %s", e.Reason)
}

// AsConflict unwraps err into a *ConflictError when possible.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
