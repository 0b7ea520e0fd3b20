package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

// CourtRepo provides methods to create and retrieve courts.  Ownership
// is always resolved through the court's complex; courts do not carry
// their own owner column.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo constructs a CourtRepo with the given DB handle.
func NewCourtRepo(db *sql.DB) *CourtRepo {
	return &CourtRepo{db: db}
}

const courtColumns = "id, complex_id, name, sport, open_time, close_time, slot_minutes, price_cents, is_active, created_at, updated_at"

func scanCourt(row interface{ Scan(...interface{}) error }, c *model.Court) error {
	return row.Scan(&c.ID, &c.ComplexID, &c.Name, &c.Sport, &c.OpenTime, &c.CloseTime, &c.SlotMinutes, &c.PriceCents, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a new court and reads the row back so timestamp and
// default fields are populated.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
	const qInsert = `INSERT INTO courts (complex_id, name, sport, open_time, close_time, slot_minutes, price_cents)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, c.ComplexID, c.Name, c.Sport, c.OpenTime, c.CloseTime, c.SlotMinutes, c.PriceCents)
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
	c.ID = uint64(id)

	const qSelect = "SELECT " + courtColumns + " FROM courts WHERE id = ?"
	return scanCourt(r.db.QueryRowContext(ctx, qSelect, c.ID), c)
}

// GetByID retrieves a court by its ID regardless of owner.  Returns
// ErrCourtNotFound when no row is found.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (*model.Court, error) {
	const q = "SELECT " + courtColumns + " FROM courts WHERE id = ?"
	var c model.Court
	if err := scanCourt(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByComplex returns all active courts of a complex ordered by name.
func (r *CourtRepo) ListByComplex(ctx context.Context, complexID uint64) ([]*model.Court, error) {
	const q = "SELECT " + courtColumns + " FROM courts WHERE complex_id = ? AND is_active = 1 ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q, complexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Court, 0)
	for rows.Next() {
		c := new(model.Court)
		if err := scanCourt(rows, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerOf resolves the owning user of a court by joining through its
// complex.  Returns ErrCourtNotFound when the court does not exist.
func (r *CourtRepo) OwnerOf(ctx context.Context, courtID uint64) (uint64, error) {
	const q = `SELECT cx.owner_id
	           FROM courts c
	           JOIN complexes cx ON cx.id = c.complex_id
	           WHERE c.id = ?`
	var ownerID uint64
	if err := r.db.QueryRowContext(ctx, q, courtID).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCourtNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

// Update adjusts a court's configuration after verifying that the
// caller owns the containing complex.  Returns ErrCourtNotFound when
// the court does not exist and ErrForbidden when it belongs to a
// different owner.
func (r *CourtRepo) Update(ctx context.Context, c *model.Court, ownerID uint64) error {
	actual, err := r.OwnerOf(ctx, c.ID)
	if err != nil {
		return err
	}
	if actual != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE courts
	           SET name = ?, sport = ?, open_time = ?, close_time = ?, slot_minutes = ?, price_cents = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, c.Name, c.Sport, c.OpenTime, c.CloseTime, c.SlotMinutes, c.PriceCents, c.IsActive, c.ID)
	return err
}

// Config converts a court row into the engine's CourtConfig.  Operating
// times that fail to parse surface as a misconfigured court, the same
// category as an inverted window; the engine never silently defaults
// them.
func (r *CourtRepo) Config(ctx context.Context, courtID uint64) (schedule.CourtConfig, error) {
	c, err := r.GetByID(ctx, courtID)
	if err != nil {
		return schedule.CourtConfig{}, err
	}
	return CourtConfigOf(c)
}

// CourtConfigOf maps a model.Court onto schedule.CourtConfig.
func CourtConfigOf(c *model.Court) (schedule.CourtConfig, error) {
	openMin, err := schedule.ParseClock(c.OpenTime)
	if err != nil {
		return schedule.CourtConfig{}, schedule.ErrCourtMisconfigured
	}
	closeMin, err := schedule.ParseClock(c.CloseTime)
	if err != nil {
		return schedule.CourtConfig{}, schedule.ErrCourtMisconfigured
	}
	return schedule.CourtConfig{
		CourtID:     c.ID,
		OpenMin:     openMin,
		CloseMin:    closeMin,
		SlotMinutes: c.SlotMinutes,
		PriceCents:  c.PriceCents,
	}, nil
}
