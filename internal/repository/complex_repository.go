package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchpoint/court-reservation/internal/model"
)

// ComplexRepo encapsulates all database queries related to sports
// complexes.  A complex belongs to a single owner and contains
// multiple courts.
type ComplexRepo struct {
	db *sql.DB
}

// NewComplexRepo constructs a ComplexRepo with the provided DB handle.
func NewComplexRepo(db *sql.DB) *ComplexRepo {
	return &ComplexRepo{db: db}
}

const complexColumns = "id, owner_id, name, address, city, phone, slug, is_active, created_at, updated_at"

func scanComplex(row interface{ Scan(...interface{}) error }, c *model.Complex) error {
	return row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Address, &c.City, &c.Phone, &c.Slug, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a new complex.  On success the ID field is populated
// and a follow-up SELECT fills the timestamp defaults.  A duplicate
// slug maps to ErrConflict.
func (r *ComplexRepo) Create(ctx context.Context, c *model.Complex) error {
	const qInsert = "INSERT INTO complexes (owner_id, name, address, city, phone, slug) VALUES (?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.OwnerID, c.Name, c.Address, c.City, c.Phone, c.Slug)
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

	const qSelect = "SELECT " + complexColumns + " FROM complexes WHERE id = ?"
	return scanComplex(r.db.QueryRowContext(ctx, qSelect, c.ID), c)
}

// GetByID fetches a complex regardless of owner.  Returns
// ErrComplexNotFound when no row exists.
func (r *ComplexRepo) GetByID(ctx context.Context, id uint64) (*model.Complex, error) {
	const q = "SELECT " + complexColumns + " FROM complexes WHERE id = ?"
	var c model.Complex
	if err := scanComplex(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrComplexNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByIDAndOwner fetches a complex only if it belongs to the given
// owner.  Not found and not owned both map to ErrComplexNotFound so
// existence is not leaked to other owners.
func (r *ComplexRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Complex, error) {
	const q = "SELECT " + complexColumns + " FROM complexes WHERE id = ? AND owner_id = ?"
	var c model.Complex
	if err := scanComplex(r.db.QueryRowContext(ctx, q, id, ownerID), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrComplexNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns all complexes for a specific owner ordered by id.
func (r *ComplexRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Complex, error) {
	const q = "SELECT " + complexColumns + " FROM complexes WHERE owner_id = ? ORDER BY id"
	return r.list(ctx, q, ownerID)
}

// ListActive returns all active complexes for public browsing.
func (r *ComplexRepo) ListActive(ctx context.Context) ([]*model.Complex, error) {
	const q = "SELECT " + complexColumns + " FROM complexes WHERE is_active = 1 ORDER BY name"
	return r.list(ctx, q)
}

func (r *ComplexRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Complex, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Complex, 0)
	for rows.Next() {
		c := new(model.Complex)
		if err := scanComplex(rows, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
