package schedule

import (
	"context"
	"time"
)

// Kind labels what sort of commitment occupies a slot.  A slot is
// binary occupied, but callers benefit from knowing why.
type Kind string

const (
	KindNone      Kind = "NONE"
	KindOneOff    Kind = "ONE_OFF"
	KindRecurring Kind = "RECURRING"
	KindBlackout  Kind = "BLACKOUT"
)

// Occupation is one occupied interval reported by a source, tagged with
// its kind and a reference to the occupying entity.  PriceCents is the
// source-specific price when the occupier carries one; nil means the
// court's base price applies.
type Occupation struct {
	Interval
	Kind       Kind
	RefID      uint64
	PriceCents *uint32
}

// Source answers, for a (court, date): which intervals are taken.
// Sources are independent views; they never resolve conflicts between
// each other.  Implementations are the only blocking points in the
// engine (storage reads) and must be safe for concurrent use across
// different (court, date) pairs.
type Source interface {
	Occupations(ctx context.Context, courtID uint64, date time.Time) ([]Occupation, error)
}

// Resolver bundles the three occupancy sources in their fixed
// precedence order.  The same resolver instance backs both the
// advisory availability query and the authoritative admission check so
// the two can never diverge.
type Resolver struct {
	OneOff    Source
	Recurring Source
	Blackout  Source
}

// Collect queries every source for the given court day and returns the
// combined occupations ordered by precedence: one-off bookings first,
// then recurring occurrences, then tournament blackouts.  The first
// matching occupation in this order decides a slot's reported kind.
func (r *Resolver) Collect(ctx context.Context, courtID uint64, date time.Time) ([]Occupation, error) {
	var all []Occupation
	for _, src := range []Source{r.OneOff, r.Recurring, r.Blackout} {
		if src == nil {
			continue
		}
		occs, err := src.Occupations(ctx, courtID, date)
		if err != nil {
			return nil, err
		}
		all = append(all, occs...)
	}
	return all, nil
}
