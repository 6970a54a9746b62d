package schedule

import "context"

// HallInterval pairs a stored showtime's ID with its scheduled interval.
type HallInterval struct {
	ShowtimeID uint64
	Interval   Interval
}

// ShowtimeSource lists the scheduled intervals of one hall whose date ranges
// may touch the candidate's date range. Implementations are free to
// prefilter by date in SQL; the checker re-applies the full overlap test on
// whatever comes back.
type ShowtimeSource interface {
	IntervalsByHall(ctx context.Context, hallID uint64, cand Interval) ([]HallInterval, error)
}

// Checker answers whether a candidate interval collides with any existing
// showtime in a hall. It performs a pure read; nothing is written.
type Checker struct {
	src ShowtimeSource
}

// NewChecker constructs a Checker over the given source.
func NewChecker(src ShowtimeSource) *Checker {
	if src == nil {
		panic("nil ShowtimeSource passed to NewChecker")
	}
	return &Checker{src: src}
}

// Overlaps reports whether at least one showtime in the hall conflicts with
// cand. excludeID skips one stored showtime from the comparison (pass the
// showtime's own ID when editing, zero otherwise), so a show never conflicts
// with itself.
func (c *Checker) Overlaps(ctx context.Context, hallID uint64, cand Interval, excludeID uint64) (bool, error) {
	existing, err := c.src.IntervalsByHall(ctx, hallID, cand)
	if err != nil {
		return false, err
	}
	for _, hi := range existing {
		if excludeID != 0 && hi.ShowtimeID == excludeID {
			continue
		}
		if cand.ConflictsWith(hi.Interval) {
			return true, nil
		}
	}
	return false, nil
}
