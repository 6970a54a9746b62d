package schedule

import "context"

// HallGuard gates hall modifications. A hall becomes immutable as soon as a
// ticket has been purchased for any of its showtimes.
type HallGuard struct {
	sales SalesSource
}

// NewHallGuard constructs a HallGuard over the given sales source.
func NewHallGuard(sales SalesSource) *HallGuard {
	if sales == nil {
		panic("nil SalesSource passed to NewHallGuard")
	}
	return &HallGuard{sales: sales}
}

// CanModify reports whether the hall may still be edited.
func (g *HallGuard) CanModify(ctx context.Context, hallID uint64) (bool, error) {
	sold, err := g.sales.HallHasTickets(ctx, hallID)
	if err != nil {
		return false, err
	}
	return !sold, nil
}
