package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

// RecurringRepo provides access to the 'recurring_bookings' and
// 'recurring_releases' tables.  It also serves as the engine's
// recurring occupancy source: for a given date it projects the active
// recurrences onto concrete intervals, skipping any occurrence that
// has been released for that exact date.
type RecurringRepo struct {
	db *sql.DB
}

// NewRecurringRepo constructs a RecurringRepo with the given DB handle.
func NewRecurringRepo(db *sql.DB) *RecurringRepo {
	return &RecurringRepo{db: db}
}

const recurringColumns = "id, court_id, weekday, start_min, end_min, valid_from, valid_until, price_cents, status, player_id, customer_name, customer_phone, notes, created_by, created_at, updated_at"

func scanRecurring(row interface{ Scan(...interface{}) error }, rb *model.RecurringBooking) error {
	return row.Scan(&rb.ID, &rb.CourtID, &rb.Weekday, &rb.StartMin, &rb.EndMin, &rb.ValidFrom, &rb.ValidUntil, &rb.PriceCents, &rb.Status, &rb.PlayerID, &rb.CustomerName, &rb.CustomerPhone, &rb.Notes, &rb.CreatedBy, &rb.CreatedAt, &rb.UpdatedAt)
}

// Create inserts a recurring booking.  Before inserting it rejects any
// overlap with an existing ACTIVE recurrence on the same court and
// weekday, so two weekly commitments cannot claim the same window.
func (r *RecurringRepo) Create(ctx context.Context, rb *model.RecurringBooking) error {
	const qCheck = `SELECT COUNT(*)
	                FROM recurring_bookings
	                WHERE court_id = ? AND weekday = ? AND status = ?
	                  AND start_min < ? AND end_min > ?`
	var n int
	if err := r.db.QueryRowContext(ctx, qCheck, rb.CourtID, rb.Weekday, model.RecurringActive, rb.EndMin, rb.StartMin).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}

	const qInsert = `INSERT INTO recurring_bookings
	                 (court_id, weekday, start_min, end_min, valid_from, valid_until, price_cents, status, player_id, customer_name, customer_phone, notes, created_by)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var validUntil interface{}
	if rb.ValidUntil != nil {
		validUntil = rb.ValidUntil.Format("2006-01-02")
	}
	res, err := r.db.ExecContext(ctx, qInsert,
		rb.CourtID, rb.Weekday, rb.StartMin, rb.EndMin,
		rb.ValidFrom.Format("2006-01-02"), validUntil,
		rb.PriceCents, model.RecurringActive,
		rb.PlayerID, rb.CustomerName, rb.CustomerPhone, rb.Notes, rb.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rb.ID = uint64(id)

	const qSelect = "SELECT " + recurringColumns + " FROM recurring_bookings WHERE id = ?"
	return scanRecurring(r.db.QueryRowContext(ctx, qSelect, rb.ID), rb)
}

// GetByID fetches a recurring booking by id.
func (r *RecurringRepo) GetByID(ctx context.Context, id uint64) (*model.RecurringBooking, error) {
	const q = "SELECT " + recurringColumns + " FROM recurring_bookings WHERE id = ?"
	var rb model.RecurringBooking
	if err := scanRecurring(r.db.QueryRowContext(ctx, q, id), &rb); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecurringNotFound
		}
		return nil, err
	}
	return &rb, nil
}

// ListByCourt returns all recurrences of a court regardless of status,
// ordered by weekday and start time.
func (r *RecurringRepo) ListByCourt(ctx context.Context, courtID uint64) ([]*model.RecurringBooking, error) {
	const q = "SELECT " + recurringColumns + " FROM recurring_bookings WHERE court_id = ? ORDER BY weekday, start_min"
	rows, err := r.db.QueryContext(ctx, q, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.RecurringBooking, 0)
	for rows.Next() {
		rb := new(model.RecurringBooking)
		if err := scanRecurring(rows, rb); err != nil {
			return nil, err
		}
		out = append(out, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus transitions a recurrence between ACTIVE, PAUSED and
// CANCELLED.  Reactivating re-runs the overlap check so a recurrence
// paused while a competing one was created cannot come back on top of
// it.
func (r *RecurringRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	rb, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rb.Status == model.RecurringCancelled {
		return ErrConflict
	}
	if status == model.RecurringActive && rb.Status != model.RecurringActive {
		const qCheck = `SELECT COUNT(*)
		                FROM recurring_bookings
		                WHERE court_id = ? AND weekday = ? AND status = ? AND id <> ?
		                  AND start_min < ? AND end_min > ?`
		var n int
		if err := r.db.QueryRowContext(ctx, qCheck, rb.CourtID, rb.Weekday, model.RecurringActive, rb.ID, rb.EndMin, rb.StartMin).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
	}
	const q = "UPDATE recurring_bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err = r.db.ExecContext(ctx, q, status, id)
	return err
}

// Occupations projects the active recurrences of a court onto a single
// date.  The LEFT JOIN excludes occurrences released for that date;
// the validity window and weekday match are checked in one place, the
// engine's rule predicate.
func (r *RecurringRepo) Occupations(ctx context.Context, courtID uint64, date time.Time) ([]schedule.Occupation, error) {
	const q = `SELECT rb.id, rb.weekday, rb.start_min, rb.end_min, rb.valid_from, rb.valid_until, rb.price_cents
	           FROM recurring_bookings rb
	           LEFT JOIN recurring_releases rl ON rl.recurring_id = rb.id AND rl.date = ?
	           WHERE rb.court_id = ? AND rb.status = ? AND rl.id IS NULL
	           ORDER BY rb.start_min`
	rows, err := r.db.QueryContext(ctx, q, date.Format("2006-01-02"), courtID, model.RecurringActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.Occupation, 0)
	for rows.Next() {
		var (
			rule  schedule.RecurringRule
			price uint32
		)
		if err := rows.Scan(&rule.ID, &rule.Weekday, &rule.Interval.Start, &rule.Interval.End, &rule.ValidFrom, &rule.ValidUntil, &price); err != nil {
			return nil, err
		}
		rule.Active = true
		if !schedule.OccupiesOn(rule, date) {
			continue
		}
		p := price
		out = append(out, schedule.Occupation{
			Interval:   rule.Interval,
			Kind:       schedule.KindRecurring,
			RefID:      rule.ID,
			PriceCents: &p,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRelease frees one occurrence date of a recurrence.  The date
// must actually be an occupied occurrence; a second release for the
// same date hits the unique key and maps to ErrConflict.
func (r *RecurringRepo) CreateRelease(ctx context.Context, rel *model.Release) error {
	rb, err := r.GetByID(ctx, rel.RecurringID)
	if err != nil {
		return err
	}
	rule := schedule.RecurringRule{
		ID:         rb.ID,
		Weekday:    rb.Weekday,
		Interval:   schedule.Interval{Start: rb.StartMin, End: rb.EndMin},
		ValidFrom:  rb.ValidFrom,
		ValidUntil: rb.ValidUntil,
		Active:     rb.Status == model.RecurringActive,
	}
	if !schedule.OccupiesOn(rule, rel.Date) {
		return ErrConflict
	}

	const q = "INSERT INTO recurring_releases (recurring_id, date, reason) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, rel.RecurringID, rel.Date.Format("2006-01-02"), rel.Reason)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rel.ID = uint64(id)
	return nil
}

// GetReleaseByID fetches a release by id.
func (r *RecurringRepo) GetReleaseByID(ctx context.Context, id uint64) (*model.Release, error) {
	const q = "SELECT id, recurring_id, date, reason, created_at FROM recurring_releases WHERE id = ?"
	var rel model.Release
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&rel.ID, &rel.RecurringID, &rel.Date, &rel.Reason, &rel.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReleaseNotFound
		}
		return nil, err
	}
	return &rel, nil
}

// ListReleases returns all releases of a recurrence, newest date first.
func (r *RecurringRepo) ListReleases(ctx context.Context, recurringID uint64) ([]*model.Release, error) {
	const q = "SELECT id, recurring_id, date, reason, created_at FROM recurring_releases WHERE recurring_id = ? ORDER BY date DESC"
	rows, err := r.db.QueryContext(ctx, q, recurringID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Release, 0)
	for rows.Next() {
		rel := new(model.Release)
		if err := rows.Scan(&rel.ID, &rel.RecurringID, &rel.Date, &rel.Reason, &rel.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRelease revokes a release, putting the occurrence back on the
// schedule.  A one-off booked into the freed slot in the meantime wins
// by precedence; the recurrence simply reappears underneath it.
func (r *RecurringRepo) DeleteRelease(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM recurring_releases WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReleaseNotFound
	}
	return nil
}
