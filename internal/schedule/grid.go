package schedule

// CourtConfig is the slice of court configuration the engine needs: the
// operating window, the fixed slot duration and the base price.  It is
// immutable for the duration of a single availability computation;
// facility management mutates the underlying row elsewhere.
type CourtConfig struct {
	CourtID     uint64
	OpenMin     int // operating window start, minutes since midnight
	CloseMin    int // operating window end, minutes since midnight
	SlotMinutes int
	PriceCents  uint32
}

// Grid derives the ordered sequence of candidate slots for one court
// day.  Each slot is [start, start+SlotMinutes) and must end at or
// before closing time; the trailing partial slot is dropped, not
// rounded.  A window that cannot produce slots (open >= close or
// non-positive duration) is a configuration error.
//
// Pure function of its inputs: same config always yields the same
// sequence.
func Grid(cfg CourtConfig) ([]Interval, error) {
	if cfg.SlotMinutes <= 0 || cfg.OpenMin >= cfg.CloseMin {
		return nil, ErrCourtMisconfigured
	}
	slots := make([]Interval, 0, (cfg.CloseMin-cfg.OpenMin)/cfg.SlotMinutes)
	for start := cfg.OpenMin; start+cfg.SlotMinutes <= cfg.CloseMin; start += cfg.SlotMinutes {
		slots = append(slots, Interval{Start: start, End: start + cfg.SlotMinutes})
	}
	return slots, nil
}
