package schedule

import (
	"context"
	"fmt"

	"github.com/kinozal/ticket-office/internal/clock"
)

// SalesSource reports whether purchased tickets exist for a showtime or for
// any showtime of a hall. It backs the "locked once sold" rules.
type SalesSource interface {
	ShowtimeHasTickets(ctx context.Context, showtimeID uint64) (bool, error)
	HallHasTickets(ctx context.Context, hallID uint64) (bool, error)
}

// Candidate is a showtime as proposed by a create or update request.
type Candidate struct {
	HallID   uint64
	Interval Interval
}

// Validator applies the full rule set for creating or editing a showtime.
// The create and update entry points both call ValidateShowtime, so they
// accept and reject identically for identical inputs.
type Validator struct {
	clk     clock.Clock
	checker *Checker
	sales   SalesSource
}

// NewValidator constructs a Validator. All dependencies must be non-nil.
func NewValidator(clk clock.Clock, src ShowtimeSource, sales SalesSource) *Validator {
	if clk == nil || src == nil || sales == nil {
		panic("nil dependency passed to NewValidator")
	}
	return &Validator{clk: clk, checker: NewChecker(src), sales: sales}
}

// ValidateShowtime checks a candidate against the calendar rules, the sales
// lock and the hall schedule, in that order, and returns the first failure.
// existingID is the ID of the showtime being edited, or zero on create. A
// nil return means the caller may persist the candidate.
func (v *Validator) ValidateShowtime(ctx context.Context, cand Candidate, existingID uint64) error {
	iv := cand.Interval
	now := v.clk.Now()
	today := DateOnly(now)

	if iv.FinishDate.Before(iv.StartDate) {
		return fmt.Errorf("%w: finish date is before start date", ErrInvalidInterval)
	}
	if iv.StartDate.Equal(iv.FinishDate) && iv.StartTime >= iv.FinishTime {
		return fmt.Errorf("%w: start time must be before finish time", ErrInvalidInterval)
	}
	if iv.StartDate.Before(today) {
		return fmt.Errorf("%w: cannot schedule a showtime in the past", ErrPastSchedule)
	}
	if iv.StartDate.Equal(today) && iv.StartTime < TimeOfDayOf(now) {
		return fmt.Errorf("%w: start time has already passed today", ErrPastSchedule)
	}
	if existingID != 0 {
		sold, err := v.sales.ShowtimeHasTickets(ctx, existingID)
		if err != nil {
			return err
		}
		if sold {
			return fmt.Errorf("%w: cannot modify a showtime with sales", ErrLockedForEditing)
		}
	}
	conflict, err := v.checker.Overlaps(ctx, cand.HallID, iv, existingID)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("%w: overlaps another showtime in this hall", ErrScheduleConflict)
	}
	return nil
}
