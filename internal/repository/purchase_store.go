// purchase_store.go adapts the repositories into the booking.Store surface
// used by the purchase accountant. The accountant runs its whole check-and-
// write sequence inside Store.WithTx; ShowtimeForUpdate locks the showtime
// row so concurrent purchases against the same showtime serialise instead of
// overselling seats.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kinozal/ticket-office/internal/booking"
	"github.com/kinozal/ticket-office/internal/schedule"
)

// PurchaseStore implements booking.Store over the MySQL schema.
type PurchaseStore struct {
	store   *Store
	halls   *HallRepo
	tickets *TicketRepo
	users   *UserRepo
}

// NewPurchaseStore composes the repositories the accountant writes through.
func NewPurchaseStore(store *Store, halls *HallRepo, tickets *TicketRepo, users *UserRepo) *PurchaseStore {
	if store == nil || halls == nil || tickets == nil || users == nil {
		panic("nil dependency passed to NewPurchaseStore")
	}
	return &PurchaseStore{store: store, halls: halls, tickets: tickets, users: users}
}

// WithTx runs fn inside one transaction shared by every repository call
// made within it.
func (p *PurchaseStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return p.store.WithTx(ctx, fn)
}

// ShowtimeForUpdate loads the fields the accountant needs and locks the
// showtime row for the duration of the surrounding transaction.
func (p *PurchaseStore) ShowtimeForUpdate(ctx context.Context, id uint64) (*booking.Showtime, error) {
	const q = `SELECT id, hall_id, start_time, price_cents FROM showtimes WHERE id = ? FOR UPDATE`
	var (
		st     booking.Showtime
		startT []byte
	)
	err := p.store.conn(ctx).QueryRowContext(ctx, q, id).
		Scan(&st.ID, &st.HallID, &startT, &st.PriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	tod, err := schedule.ParseTimeOfDay(string(startT))
	if err != nil {
		return nil, err
	}
	st.StartTime = tod
	return &st, nil
}

// HallCapacity returns the hall's seat capacity.
func (p *PurchaseStore) HallCapacity(ctx context.Context, hallID uint64) (uint32, error) {
	return p.halls.Capacity(ctx, hallID)
}

// SoldQuantity returns tickets already sold for (showtime, date).
func (p *PurchaseStore) SoldQuantity(ctx context.Context, showtimeID uint64, day time.Time) (uint32, error) {
	return p.tickets.SoldQuantity(ctx, showtimeID, day)
}

// InsertTicket persists the purchase and copies the generated ID back.
func (p *PurchaseStore) InsertTicket(ctx context.Context, t *booking.Ticket) error {
	row := &Ticket{
		UserID:       t.UserID,
		ShowtimeID:   t.ShowtimeID,
		PurchaseDate: t.PurchaseDate,
		Quantity:     t.Quantity,
		AmountCents:  t.AmountCents,
	}
	if err := p.tickets.Create(ctx, row); err != nil {
		return err
	}
	t.ID = row.ID
	return nil
}

// AddSpent adds the charged amount to the user's running total.
func (p *PurchaseStore) AddSpent(ctx context.Context, userID uint64, amountCents uint64) error {
	return p.users.AddSpent(ctx, userID, amountCents)
}
