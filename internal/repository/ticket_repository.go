// ticket_repository.go contains data access logic for purchased tickets.
// It also answers the "has anything been sold" questions that gate hall and
// showtime edits (schedule.SalesSource).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kinozal/ticket-office/internal/schedule"
)

// Ticket records one purchase: a user bought quantity tickets for a showtime
// on a specific date. AmountCents is denormalized (price x quantity at the
// time of purchase).
type Ticket struct {
	ID           uint64
	UserID       uint64
	ShowtimeID   uint64
	PurchaseDate time.Time
	Quantity     uint32
	AmountCents  uint64
	CreatedAt    time.Time
}

// TicketDetail is a Ticket joined with its showtime and hall for listings.
type TicketDetail struct {
	Ticket
	Title     string
	HallName  string
	StartTime schedule.TimeOfDay
}

// ErrTicketNotFound indicates that a ticket was not located in the DB.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepo manages persistence for purchased tickets.
type TicketRepo struct {
	store *Store
}

// NewTicketRepo constructs a TicketRepo over the given store.
func NewTicketRepo(store *Store) *TicketRepo {
	return &TicketRepo{store: store}
}

// Create inserts a ticket and assigns the generated ID and creation time
// back to the struct.
func (r *TicketRepo) Create(ctx context.Context, t *Ticket) error {
	const q = `INSERT INTO tickets (user_id, showtime_id, purchase_date, quantity, amount_cents)
               VALUES (?, ?, ?, ?, ?)`
	res, err := r.store.conn(ctx).ExecContext(ctx, q,
		t.UserID, t.ShowtimeID, t.PurchaseDate.Format(dateFormat), t.Quantity, t.AmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at FROM tickets WHERE id = ?`
	return r.store.conn(ctx).QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt)
}

// SoldQuantity returns the total number of tickets already sold for the
// showtime on the given date.
func (r *TicketRepo) SoldQuantity(ctx context.Context, showtimeID uint64, day time.Time) (uint32, error) {
	const q = `SELECT IFNULL(SUM(quantity), 0) FROM tickets WHERE showtime_id = ? AND purchase_date = ?`
	var n uint32
	err := r.store.conn(ctx).QueryRowContext(ctx, q, showtimeID, day.Format(dateFormat)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ShowtimeHasTickets reports whether any ticket was ever purchased for the
// showtime. Part of schedule.SalesSource.
func (r *TicketRepo) ShowtimeHasTickets(ctx context.Context, showtimeID uint64) (bool, error) {
	const q = `SELECT 1 FROM tickets WHERE showtime_id = ? LIMIT 1`
	var one int
	err := r.store.conn(ctx).QueryRowContext(ctx, q, showtimeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HallHasTickets reports whether any ticket was ever purchased for any
// showtime of the hall. Part of schedule.SalesSource.
func (r *TicketRepo) HallHasTickets(ctx context.Context, hallID uint64) (bool, error) {
	const q = `SELECT 1
               FROM tickets t
               JOIN showtimes s ON s.id = t.showtime_id
               WHERE s.hall_id = ?
               LIMIT 1`
	var one int
	err := r.store.conn(ctx).QueryRowContext(ctx, q, hallID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser returns the user's purchases newest first, joined with showtime
// and hall details, paginated.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]TicketDetail, error) {
	const q = `SELECT t.id, t.user_id, t.showtime_id, t.purchase_date, t.quantity, t.amount_cents, t.created_at,
                      s.title, h.name, s.start_time
               FROM tickets t
               JOIN showtimes s ON s.id = t.showtime_id
               JOIN halls h ON h.id = s.hall_id
               WHERE t.user_id = ?
               ORDER BY t.created_at DESC, t.id DESC
               LIMIT ? OFFSET ?`
	rows, err := r.store.conn(ctx).QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TicketDetail
	for rows.Next() {
		var (
			d      TicketDetail
			startT []byte
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.ShowtimeID, &d.PurchaseDate, &d.Quantity,
			&d.AmountCents, &d.CreatedAt, &d.Title, &d.HallName, &startT); err != nil {
			return nil, err
		}
		st, err := schedule.ParseTimeOfDay(string(startT))
		if err != nil {
			return nil, err
		}
		d.StartTime = st
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByUser returns how many purchases the user has made.
func (r *TicketRepo) CountByUser(ctx context.Context, userID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM tickets WHERE user_id = ?`
	var n int
	if err := r.store.conn(ctx).QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
