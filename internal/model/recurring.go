package model

import "time"

// Recurring booking statuses.  Only ACTIVE rows project occupancy.
const (
	RecurringActive    = "ACTIVE"
	RecurringPaused    = "PAUSED"
	RecurringCancelled = "CANCELLED"
)

// RecurringBooking is a weekly-repeating commitment on a court.  It
// occupies every date on or after ValidFrom (and on or before
// ValidUntil when set) whose weekday matches, unless a Release exists
// for that exact date.  Weekday uses 0=Monday .. 6=Sunday.
//
// Fields:
//  ID            – primary key identifier.
//  CourtID       – court the recurrence occupies.
//  Weekday       – weekday index, 0=Monday.
//  StartMin      – occurrence start, minutes since midnight.
//  EndMin        – occurrence end, minutes since midnight.
//  ValidFrom     – first date the recurrence applies.
//  ValidUntil    – last date it applies (null = open-ended).
//  PriceCents    – per-occurrence price.
//  Status        – one of the Recurring* constants.
//  PlayerID      – assigned player (null for clients without accounts).
//  CustomerName  – client name when PlayerID is null.
//  CustomerPhone – client contact phone.
//  Notes         – free-form notes.
//  CreatedBy     – owner user ID who created the recurrence.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type RecurringBooking struct {
	ID            uint64     // recurring_bookings.id
	CourtID       uint64     // recurring_bookings.court_id
	Weekday       int        // recurring_bookings.weekday
	StartMin      int        // recurring_bookings.start_min
	EndMin        int        // recurring_bookings.end_min
	ValidFrom     time.Time  // recurring_bookings.valid_from
	ValidUntil    *time.Time // recurring_bookings.valid_until (nullable)
	PriceCents    uint32     // recurring_bookings.price_cents
	Status        string     // recurring_bookings.status
	PlayerID      *uint64    // recurring_bookings.player_id (nullable)
	CustomerName  string     // recurring_bookings.customer_name
	CustomerPhone string     // recurring_bookings.customer_phone
	Notes         string     // recurring_bookings.notes
	CreatedBy     uint64     // recurring_bookings.created_by
	CreatedAt     time.Time  // recurring_bookings.created_at
	UpdatedAt     time.Time  // recurring_bookings.updated_at
}

// Release frees one specific date of a recurring booking without
// cancelling the recurrence.  At most one release may exist per
// (recurring booking, date) pair; the table enforces it with a unique
// key.
//
// Fields:
//  ID          – primary key identifier.
//  RecurringID – the recurrence being released.
//  Date        – the single occurrence date freed.
//  Reason      – optional operator-supplied reason.
//  CreatedAt   – creation timestamp.
type Release struct {
	ID          uint64    // recurring_releases.id
	RecurringID uint64    // recurring_releases.recurring_id
	Date        time.Time // recurring_releases.date
	Reason      string    // recurring_releases.reason
	CreatedAt   time.Time // recurring_releases.created_at
}
