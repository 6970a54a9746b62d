// showtime_repository.go contains data access logic for showtimes. A
// Showtime is a scheduled screening in a hall: an inclusive calendar date
// range plus a daily time-of-day range (which may wrap past midnight) and a
// ticket price in cents.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kinozal/ticket-office/internal/schedule"
)

// Showtime represents a scheduled screening of a movie in a particular hall.
// Dates are DATE columns (midnight UTC when scanned), times are TIME columns
// carried as schedule.TimeOfDay.
type Showtime struct {
	ID         uint64
	HallID     uint64
	Title      string
	StartDate  time.Time
	FinishDate time.Time
	StartTime  schedule.TimeOfDay
	FinishTime schedule.TimeOfDay
	PriceCents uint32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Interval returns the showtime's scheduled slot as a schedule.Interval.
func (s *Showtime) Interval() schedule.Interval {
	return schedule.Interval{
		StartDate:  schedule.DateOnly(s.StartDate),
		FinishDate: schedule.DateOnly(s.FinishDate),
		StartTime:  s.StartTime,
		FinishTime: s.FinishTime,
	}
}

// ShowtimeListing is a Showtime joined with its hall name and the remaining
// ticket count for a specific date, used by the public browse endpoints.
type ShowtimeListing struct {
	Showtime
	HallName    string
	TicketsLeft int64
}

// ErrShowtimeNotFound indicates that a showtime was not located in the DB.
var ErrShowtimeNotFound = errors.New("showtime not found")

const dateFormat = "2006-01-02"

// ShowtimeRepo manages persistence for showtimes. It implements
// schedule.ShowtimeSource for the overlap checker.
type ShowtimeRepo struct {
	store *Store
}

// NewShowtimeRepo constructs a ShowtimeRepo over the given store.
func NewShowtimeRepo(store *Store) *ShowtimeRepo {
	return &ShowtimeRepo{store: store}
}

// scanShowtime reads one showtime row. TIME columns arrive as raw bytes and
// are parsed into schedule.TimeOfDay.
func scanShowtime(row interface{ Scan(dest ...any) error }, s *Showtime) error {
	var startT, finishT []byte
	if err := row.Scan(&s.ID, &s.HallID, &s.Title, &s.StartDate, &s.FinishDate,
		&startT, &finishT, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	return parseTimes(startT, finishT, s)
}

func parseTimes(startT, finishT []byte, s *Showtime) error {
	st, err := schedule.ParseTimeOfDay(string(startT))
	if err != nil {
		return fmt.Errorf("stored start_time: %w", err)
	}
	ft, err := schedule.ParseTimeOfDay(string(finishT))
	if err != nil {
		return fmt.Errorf("stored finish_time: %w", err)
	}
	s.StartTime = st
	s.FinishTime = ft
	return nil
}

// Create inserts a new showtime and assigns the generated ID and timestamp
// fields back to the struct.
func (r *ShowtimeRepo) Create(ctx context.Context, s *Showtime) error {
	const q = `INSERT INTO showtimes (hall_id, title, start_date, finish_date, start_time, finish_time, price_cents)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.store.conn(ctx).ExecContext(ctx, q,
		s.HallID, s.Title,
		s.StartDate.Format(dateFormat), s.FinishDate.Format(dateFormat),
		s.StartTime.String(), s.FinishTime.String(),
		s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT id, hall_id, title, start_date, finish_date, start_time, finish_time, price_cents, created_at, updated_at
                 FROM showtimes WHERE id = ?`
	return scanShowtime(r.store.conn(ctx).QueryRowContext(ctx, sel, s.ID), s)
}

// GetByID retrieves a showtime by its ID. It returns ErrShowtimeNotFound if
// there is no matching row.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*Showtime, error) {
	const q = `SELECT id, hall_id, title, start_date, finish_date, start_time, finish_time, price_cents, created_at, updated_at
               FROM showtimes WHERE id = ?`
	var s Showtime
	if err := scanShowtime(r.store.conn(ctx).QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// IntervalsByHall returns the scheduled intervals of every showtime in the
// hall whose date range may touch the candidate's. The SQL prefilters by
// date only; the checker applies the full time-of-day overlap test. This
// implements schedule.ShowtimeSource.
func (r *ShowtimeRepo) IntervalsByHall(ctx context.Context, hallID uint64, cand schedule.Interval) ([]schedule.HallInterval, error) {
	const q = `SELECT id, start_date, finish_date, start_time, finish_time
               FROM showtimes
               WHERE hall_id = ? AND NOT (finish_date < ? OR start_date > ?)`
	rows, err := r.store.conn(ctx).QueryContext(ctx, q, hallID,
		cand.StartDate.Format(dateFormat), cand.FinishDate.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schedule.HallInterval
	for rows.Next() {
		var (
			hi             schedule.HallInterval
			startT, finshT []byte
			s              Showtime
		)
		if err := rows.Scan(&hi.ShowtimeID, &s.StartDate, &s.FinishDate, &startT, &finshT); err != nil {
			return nil, err
		}
		if err := parseTimes(startT, finshT, &s); err != nil {
			return nil, err
		}
		hi.Interval = s.Interval()
		out = append(out, hi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByHall returns all showtimes for a given hall ordered by start date
// and time ascending.
func (r *ShowtimeRepo) ListByHall(ctx context.Context, hallID uint64) ([]Showtime, error) {
	const q = `SELECT id, hall_id, title, start_date, finish_date, start_time, finish_time, price_cents, created_at, updated_at
               FROM showtimes
               WHERE hall_id = ?
               ORDER BY start_date ASC, start_time ASC`
	rows, err := r.store.conn(ctx).QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Showtime
	for rows.Next() {
		var s Showtime
		if err := scanShowtime(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Listing sort orders accepted by ListOnDate. The values are whitelisted
// into ORDER BY clauses; anything else falls back to SortByStartTime.
const (
	SortByStartTime = "start_time"
	SortByPriceAsc  = "price_asc"
	SortByPriceDesc = "price_desc"
)

func orderClause(sort string) string {
	switch sort {
	case SortByPriceAsc:
		return "s.price_cents ASC, s.start_time ASC"
	case SortByPriceDesc:
		return "s.price_cents DESC, s.start_time ASC"
	default:
		return "s.start_time ASC, s.price_cents ASC"
	}
}

// ListOnDate returns showtimes running on the given date together with the
// hall name and the remaining ticket count for that date, paginated.
func (r *ShowtimeRepo) ListOnDate(ctx context.Context, day time.Time, sort string, limit, offset int) ([]ShowtimeListing, error) {
	q := `SELECT s.id, s.hall_id, s.title, s.start_date, s.finish_date, s.start_time, s.finish_time, s.price_cents, s.created_at, s.updated_at,
                 h.name,
                 h.capacity - IFNULL((SELECT SUM(t.quantity) FROM tickets t
                                      WHERE t.showtime_id = s.id AND t.purchase_date = ?), 0) AS tickets_left
          FROM showtimes s
          JOIN halls h ON h.id = s.hall_id
          WHERE s.start_date <= ? AND s.finish_date >= ?
          ORDER BY ` + orderClause(sort) + `
          LIMIT ? OFFSET ?`
	d := day.Format(dateFormat)
	rows, err := r.store.conn(ctx).QueryContext(ctx, q, d, d, d, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ShowtimeListing
	for rows.Next() {
		var (
			l              ShowtimeListing
			startT, finshT []byte
		)
		if err := rows.Scan(&l.ID, &l.HallID, &l.Title, &l.StartDate, &l.FinishDate,
			&startT, &finshT, &l.PriceCents, &l.CreatedAt, &l.UpdatedAt,
			&l.HallName, &l.TicketsLeft); err != nil {
			return nil, err
		}
		if err := parseTimes(startT, finshT, &l.Showtime); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountOnDate returns how many showtimes run on the given date.
func (r *ShowtimeRepo) CountOnDate(ctx context.Context, day time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM showtimes WHERE start_date <= ? AND finish_date >= ?`
	d := day.Format(dateFormat)
	var n int
	if err := r.store.conn(ctx).QueryRowContext(ctx, q, d, d).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update persists new attributes for a showtime. It only performs the
// UPDATE when at least one field differs; otherwise it returns ErrNoChange.
// When no row matches the ID it returns sql.ErrNoRows.
func (r *ShowtimeRepo) Update(ctx context.Context, s *Showtime) error {
	const q = `UPDATE showtimes
               SET hall_id = ?, title = ?, start_date = ?, finish_date = ?, start_time = ?, finish_time = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?
                 AND (hall_id <> ? OR title <> ? OR start_date <> ? OR finish_date <> ? OR start_time <> ? OR finish_time <> ? OR price_cents <> ?)`
	sd := s.StartDate.Format(dateFormat)
	fd := s.FinishDate.Format(dateFormat)
	st := s.StartTime.String()
	ft := s.FinishTime.String()
	res, err := r.store.conn(ctx).ExecContext(ctx, q,
		s.HallID, s.Title, sd, fd, st, ft, s.PriceCents, // SET
		s.ID, // WHERE
		s.HallID, s.Title, sd, fd, st, ft, s.PriceCents, // only if at least one field differs
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Determine whether it's "not found" or simply "no change".
	var one int
	if err := r.store.conn(ctx).QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ? LIMIT 1`, s.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	return ErrNoChange
}
