package schedule

import (
	"context"
	"time"
)

// Slot is one entry of the per-day availability response.  PriceCents is
// the effective price: the occupier's price when it carries one,
// otherwise the court's current base price.
type Slot struct {
	Start      int    `json:"-"`
	End        int    `json:"-"`
	StartLabel string `json:"start"`
	EndLabel   string `json:"end"`
	Occupied   bool   `json:"occupied"`
	Kind       Kind   `json:"kind"`
	RefID      uint64 `json:"ref_id,omitempty"`
	PriceCents uint32 `json:"price_cents"`
}

// Availability combines a court's slot grid with the collected
// occupations into a per-slot verdict.  Occupations must already be in
// precedence order (Resolver.Collect); the first one overlapping a slot
// decides its reported kind.  A slot no occupation touches is free at
// the court's base price.
func Availability(cfg CourtConfig, occs []Occupation) ([]Slot, error) {
	grid, err := Grid(cfg)
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, len(grid))
	for _, iv := range grid {
		s := Slot{
			Start:      iv.Start,
			End:        iv.End,
			StartLabel: FormatClock(iv.Start),
			EndLabel:   FormatClock(iv.End),
			Kind:       KindNone,
			PriceCents: cfg.PriceCents,
		}
		for _, occ := range occs {
			if !Overlaps(iv, occ.Interval) {
				continue
			}
			s.Occupied = true
			s.Kind = occ.Kind
			s.RefID = occ.RefID
			if occ.PriceCents != nil {
				s.PriceCents = *occ.PriceCents
			}
			break
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// AvailabilityForDate runs the full resolution path: collect occupancy
// from every source, then aggregate against the grid.  This is the
// advisory snapshot consumed by booking UIs; admission re-runs the same
// collection at write time.
func AvailabilityForDate(ctx context.Context, r *Resolver, cfg CourtConfig, date time.Time) ([]Slot, error) {
	occs, err := r.Collect(ctx, cfg.CourtID, date)
	if err != nil {
		return nil, err
	}
	return Availability(cfg, occs)
}

// conflictFor returns the first occupation overlapping the candidate
// interval, honoring precedence order, or nil when the interval is
// free.  Shared by the admission path.
func conflictFor(candidate Interval, occs []Occupation) *Occupation {
	for i := range occs {
		if Overlaps(candidate, occs[i].Interval) {
			return &occs[i]
		}
	}
	return nil
}
