// Package booking implements the ticket purchase accountant: it validates a
// purchase against seat availability and the sales cutoff, then records the
// ticket and the buyer's cumulative spend in a single transaction.
package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kinozal/ticket-office/internal/clock"
	"github.com/kinozal/ticket-office/internal/schedule"
)

// ErrInvalidQuantity is returned when a purchase requests zero or a negative
// number of tickets.
var ErrInvalidQuantity = errors.New("invalid quantity")

// ErrInsufficientCapacity is returned when a purchase requests more tickets
// than remain for the showtime on the purchase date.
var ErrInsufficientCapacity = errors.New("insufficient capacity")

// Showtime carries the fields of a stored showtime the accountant needs.
type Showtime struct {
	ID         uint64
	HallID     uint64
	StartTime  schedule.TimeOfDay
	PriceCents uint32
}

// Ticket is a completed purchase. AmountCents is always price x quantity.
type Ticket struct {
	ID           uint64
	UserID       uint64
	ShowtimeID   uint64
	PurchaseDate time.Time
	Quantity     uint32
	AmountCents  uint64
}

// Store is the persistence surface of the accountant. All methods called
// inside the function passed to WithTx must observe and join the same
// transaction; ShowtimeForUpdate must additionally lock the showtime row so
// that concurrent purchases against the same showtime serialise on it.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ShowtimeForUpdate(ctx context.Context, id uint64) (*Showtime, error)
	HallCapacity(ctx context.Context, hallID uint64) (uint32, error)
	SoldQuantity(ctx context.Context, showtimeID uint64, day time.Time) (uint32, error)
	InsertTicket(ctx context.Context, t *Ticket) error
	AddSpent(ctx context.Context, userID uint64, amountCents uint64) error
}

// Accountant validates and records ticket purchases.
type Accountant struct {
	store Store
	clk   clock.Clock
}

// NewAccountant constructs an Accountant. Both dependencies must be non-nil.
func NewAccountant(store Store, clk clock.Clock) *Accountant {
	if store == nil || clk == nil {
		panic("nil dependency passed to NewAccountant")
	}
	return &Accountant{store: store, clk: clk}
}

// Purchase buys quantity tickets for the showtime on purchaseDate for the
// given user. A zero purchaseDate means today. Validation happens strictly
// before any write; on success the ticket insert and the user's money_spent
// update commit together or not at all, and the returned ticket carries the
// charged amount.
func (a *Accountant) Purchase(ctx context.Context, userID, showtimeID uint64, purchaseDate time.Time, quantity int) (*Ticket, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidQuantity)
	}
	// Quantity is stored as uint32; without this bound a huge request would
	// truncate in the capacity comparison below and slip through as zero.
	if quantity > math.MaxInt32 {
		return nil, fmt.Errorf("%w: quantity too large", ErrInvalidQuantity)
	}
	now := a.clk.Now()
	today := schedule.DateOnly(now)
	if purchaseDate.IsZero() {
		purchaseDate = today
	} else {
		purchaseDate = schedule.DateOnly(purchaseDate)
	}

	var ticket *Ticket
	err := a.store.WithTx(ctx, func(ctx context.Context) error {
		st, err := a.store.ShowtimeForUpdate(ctx, showtimeID)
		if err != nil {
			return err
		}
		capacity, err := a.store.HallCapacity(ctx, st.HallID)
		if err != nil {
			return err
		}
		sold, err := a.store.SoldQuantity(ctx, showtimeID, purchaseDate)
		if err != nil {
			return err
		}
		remaining := uint32(0)
		if capacity > sold {
			remaining = capacity - sold
		}
		if uint32(quantity) > remaining {
			return fmt.Errorf("%w: only %d seats left", ErrInsufficientCapacity, remaining)
		}
		if purchaseDate.Equal(today) && st.StartTime < schedule.TimeOfDayOf(now) {
			return fmt.Errorf("%w: sales closed for today's show", schedule.ErrPastSchedule)
		}
		if purchaseDate.Before(today) {
			return fmt.Errorf("%w: showtime already concluded", schedule.ErrPastSchedule)
		}
		t := &Ticket{
			UserID:       userID,
			ShowtimeID:   showtimeID,
			PurchaseDate: purchaseDate,
			Quantity:     uint32(quantity),
			AmountCents:  uint64(st.PriceCents) * uint64(quantity),
		}
		if err := a.store.InsertTicket(ctx, t); err != nil {
			return err
		}
		if err := a.store.AddSpent(ctx, userID, t.AmountCents); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
