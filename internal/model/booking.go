package model

import "time"

// Booking statuses.  Only PENDING and CONFIRMED occupy a slot; the
// other states are historical and never deleted by the engine.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingNoShow    = "NO_SHOW"
	BookingCompleted = "COMPLETED"
)

// Booking is a one-off, single-slot commitment on a court.  StartMin
// and EndMin are minute-of-day offsets frozen at admission time; they
// are never recomputed if the court's slot duration changes later.
// The (court_id, date, start_min) triple carries a unique key so
// concurrent admissions for the same slot cannot both commit.
//
// Fields:
//  ID            – primary key identifier.
//  CourtID       – court the booking occupies.
//  Date          – calendar date of the slot (UTC midnight).
//  StartMin      – slot start, minutes since midnight.
//  EndMin        – slot end, minutes since midnight.
//  PriceCents    – price agreed at admission time.
//  Status        – one of the Booking* constants.
//  Paid          – whether the booking has been paid.
//  PlayerID      – booking player's user ID (null for walk-ins).
//  CustomerName  – walk-in customer name when PlayerID is null.
//  CustomerPhone – walk-in customer phone.
//  Notes         – free-form operator notes.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Booking struct {
	ID            uint64    // bookings.id
	CourtID       uint64    // bookings.court_id
	Date          time.Time // bookings.date
	StartMin      int       // bookings.start_min
	EndMin        int       // bookings.end_min
	PriceCents    uint32    // bookings.price_cents
	Status        string    // bookings.status
	Paid          bool      // bookings.paid
	PlayerID      *uint64   // bookings.player_id (nullable)
	CustomerName  string    // bookings.customer_name
	CustomerPhone string    // bookings.customer_phone
	Notes         string    // bookings.notes
	CreatedAt     time.Time // bookings.created_at
	UpdatedAt     time.Time // bookings.updated_at
}

// Occupies reports whether the booking blocks its slot.  Cancelled,
// no-show and completed bookings remain as rows but free the slot.
func (b *Booking) Occupies() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
