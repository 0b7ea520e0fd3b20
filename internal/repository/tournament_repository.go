package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

// TournamentRepo provides access to the 'tournaments' and
// 'tournament_blackouts' tables.  Scheduling a tournament materializes
// one blackout row per court per date; cancelling removes them all.
// The blackout table is the engine's third occupancy source.
type TournamentRepo struct {
	db *sql.DB
}

// NewTournamentRepo constructs a TournamentRepo with the given DB handle.
func NewTournamentRepo(db *sql.DB) *TournamentRepo {
	return &TournamentRepo{db: db}
}

const tournamentColumns = "id, complex_id, name, starts_on, ends_on, status, category, created_by, created_at, updated_at"

func scanTournament(row interface{ Scan(...interface{}) error }, t *model.Tournament) error {
	return row.Scan(&t.ID, &t.ComplexID, &t.Name, &t.StartsOn, &t.EndsOn, &t.Status, &t.Category, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
}

// BlackoutWindow is one court/time-range pair to black out on every
// tournament date.  When the caller provides none, the whole operating
// window of each court in the complex is blacked out instead.
type BlackoutWindow struct {
	CourtID  uint64
	StartMin int
	EndMin   int
}

// Create inserts the tournament row and its blackout rows in one
// transaction, one blackout per (window, date) pair across the
// inclusive date range.  Either everything lands or nothing does.
func (r *TournamentRepo) Create(ctx context.Context, t *model.Tournament, windows []BlackoutWindow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qInsert = `INSERT INTO tournaments (complex_id, name, starts_on, ends_on, status, category, created_by)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		t.ComplexID, t.Name, t.StartsOn.Format("2006-01-02"), t.EndsOn.Format("2006-01-02"),
		model.TournamentScheduled, t.Category, t.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	t.Status = model.TournamentScheduled

	const qBlackout = `INSERT INTO tournament_blackouts (tournament_id, court_id, date, start_min, end_min)
	                   VALUES (?, ?, ?, ?, ?)`
	for date := t.StartsOn; !date.After(t.EndsOn); date = date.AddDate(0, 0, 1) {
		for _, w := range windows {
			if _, err := tx.ExecContext(ctx, qBlackout, t.ID, w.CourtID, date.Format("2006-01-02"), w.StartMin, w.EndMin); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a tournament by id.
func (r *TournamentRepo) GetByID(ctx context.Context, id uint64) (*model.Tournament, error) {
	const q = "SELECT " + tournamentColumns + " FROM tournaments WHERE id = ?"
	var t model.Tournament
	if err := scanTournament(r.db.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByComplex returns a complex's tournaments, newest first.
func (r *TournamentRepo) ListByComplex(ctx context.Context, complexID uint64) ([]*model.Tournament, error) {
	const q = "SELECT " + tournamentColumns + " FROM tournaments WHERE complex_id = ? ORDER BY starts_on DESC"
	rows, err := r.db.QueryContext(ctx, q, complexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Tournament, 0)
	for rows.Next() {
		t := new(model.Tournament)
		if err := scanTournament(rows, t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus transitions a tournament through its lifecycle.  Finished
// and cancelled tournaments are terminal.
func (r *TournamentRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Status == model.TournamentFinished || t.Status == model.TournamentCancelled {
		return ErrConflict
	}
	const q = "UPDATE tournaments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err = r.db.ExecContext(ctx, q, status, id)
	return err
}

// Cancel marks the tournament CANCELLED and deletes its blackout rows
// in one transaction, freeing every blocked slot at once.
func (r *TournamentRepo) Cancel(ctx context.Context, id uint64) error {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Status == model.TournamentFinished || t.Status == model.TournamentCancelled {
		return ErrConflict
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "UPDATE tournaments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", model.TournamentCancelled, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tournament_blackouts WHERE tournament_id = ?", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListBlackouts returns a tournament's blackout rows ordered by date
// and court.
func (r *TournamentRepo) ListBlackouts(ctx context.Context, tournamentID uint64) ([]*model.TournamentBlackout, error) {
	const q = `SELECT id, tournament_id, court_id, date, start_min, end_min, created_at
	           FROM tournament_blackouts WHERE tournament_id = ? ORDER BY date, court_id, start_min`
	rows, err := r.db.QueryContext(ctx, q, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.TournamentBlackout, 0)
	for rows.Next() {
		b := new(model.TournamentBlackout)
		if err := rows.Scan(&b.ID, &b.TournamentID, &b.CourtID, &b.Date, &b.StartMin, &b.EndMin, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Occupations returns the blacked-out intervals for a court on a date.
// Blackouts of cancelled tournaments no longer exist, so no status
// filter is needed here.
func (r *TournamentRepo) Occupations(ctx context.Context, courtID uint64, date time.Time) ([]schedule.Occupation, error) {
	const q = `SELECT id, start_min, end_min
	           FROM tournament_blackouts
	           WHERE court_id = ? AND date = ?
	           ORDER BY start_min`
	rows, err := r.db.QueryContext(ctx, q, courtID, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.Occupation, 0)
	for rows.Next() {
		var occ schedule.Occupation
		if err := rows.Scan(&occ.RefID, &occ.Start, &occ.End); err != nil {
			return nil, err
		}
		occ.Kind = schedule.KindBlackout
		out = append(out, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
