package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

// BookingRepo provides access to the 'bookings' table.  It doubles as
// the engine's one-off occupancy source and its admission store: the
// unique key on (court_id, date, start_min, occupying) is what turns
// two concurrent admissions for the same slot into exactly one winner.
//
// The 'occupying' column is 1 while the booking holds its slot and
// NULL otherwise.  MySQL treats NULLs in a unique key as distinct, so
// cancelled rows never block a re-booking of the same slot.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = "id, court_id, date, start_min, end_min, price_cents, status, paid, player_id, customer_name, customer_phone, notes, created_at, updated_at"

func scanBooking(row interface{ Scan(...interface{}) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.CourtID, &b.Date, &b.StartMin, &b.EndMin, &b.PriceCents, &b.Status, &b.Paid, &b.PlayerID, &b.CustomerName, &b.CustomerPhone, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
}

// CreateIfFree inserts a booking row for an admitted request.  A
// duplicate-key error means another request took the slot between the
// advisory check and this insert; it maps to schedule.ErrDuplicateSlot
// so the engine can report the loss as a race.
func (r *BookingRepo) CreateIfFree(ctx context.Context, b *schedule.NewBooking) (uint64, error) {
	status := model.BookingPending
	if b.Confirmed {
		status = model.BookingConfirmed
	}
	const q = `INSERT INTO bookings
	           (court_id, date, start_min, end_min, price_cents, status, occupying, player_id, customer_name, customer_phone, notes)
	           VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.CourtID, b.Date.Format("2006-01-02"), b.Interval.Start, b.Interval.End,
		b.PriceCents, status, b.PlayerID, b.CustomerName, b.CustomerPhone, b.Notes)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, schedule.ErrDuplicateSlot
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Occupations returns the occupied intervals from one-off bookings for
// a court on a date.  Only PENDING and CONFIRMED rows count; their
// agreed price rides along so availability can show it.
func (r *BookingRepo) Occupations(ctx context.Context, courtID uint64, date time.Time) ([]schedule.Occupation, error) {
	const q = `SELECT id, start_min, end_min, price_cents
	           FROM bookings
	           WHERE court_id = ? AND date = ? AND status IN (?, ?)
	           ORDER BY start_min`
	rows, err := r.db.QueryContext(ctx, q, courtID, date.Format("2006-01-02"), model.BookingPending, model.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.Occupation, 0)
	for rows.Next() {
		var (
			occ   schedule.Occupation
			price uint32
		)
		if err := rows.Scan(&occ.RefID, &occ.Start, &occ.End, &price); err != nil {
			return nil, err
		}
		occ.Kind = schedule.KindOneOff
		p := price
		occ.PriceCents = &p
		out = append(out, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a booking by id.  Returns ErrBookingNotFound when no
// row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE id = ?"
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByPlayer returns a player's bookings, newest date first.
func (r *BookingRepo) ListByPlayer(ctx context.Context, playerID uint64) ([]*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE player_id = ? ORDER BY date DESC, start_min DESC"
	rows, err := r.db.QueryContext(ctx, q, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Booking, 0)
	for rows.Next() {
		b := new(model.Booking)
		if err := scanBooking(rows, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCourtAndDate returns all bookings of a court on a date for the
// owner's day view, including non-occupying historical rows.
func (r *BookingRepo) ListByCourtAndDate(ctx context.Context, courtID uint64, date time.Time) ([]*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE court_id = ? AND date = ? ORDER BY start_min"
	rows, err := r.db.QueryContext(ctx, q, courtID, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Booking, 0)
	for rows.Next() {
		b := new(model.Booking)
		if err := scanBooking(rows, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel frees a booking's slot.  Paid bookings and bookings whose
// slot has already started cannot be cancelled; already-terminal rows
// map to ErrConflict.  The occupying flag is cleared so the slot
// becomes bookable again.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64, now time.Time) error {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !b.Occupies() {
		return ErrConflict
	}
	if b.Paid {
		return ErrConflict
	}
	slotStart := b.Date.Add(time.Duration(b.StartMin) * time.Minute)
	if !slotStart.After(now.UTC()) {
		return ErrConflict
	}
	const q = `UPDATE bookings
	           SET status = ?, occupying = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status IN (?, ?)`
	res, err := r.db.ExecContext(ctx, q, model.BookingCancelled, id, model.BookingPending, model.BookingConfirmed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Confirm marks a pending booking as paid and confirmed.  Only the
// owner path calls this; confirming anything but a PENDING row is a
// conflict.
func (r *BookingRepo) Confirm(ctx context.Context, id uint64) error {
	const q = `UPDATE bookings
	           SET status = ?, paid = 1, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.BookingConfirmed, id, model.BookingPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return ErrConflict
	}
	return nil
}

// MarkOutcome records a NO_SHOW or COMPLETED outcome on an occupying
// booking and clears its slot hold.
func (r *BookingRepo) MarkOutcome(ctx context.Context, id uint64, status string) error {
	if status != model.BookingNoShow && status != model.BookingCompleted {
		return ErrConflict
	}
	const q = `UPDATE bookings
	           SET status = ?, occupying = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status IN (?, ?)`
	res, err := r.db.ExecContext(ctx, q, status, id, model.BookingPending, model.BookingConfirmed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return ErrConflict
	}
	return nil
}
