package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Hall represents a cinema hall with a fixed seat capacity.
type Hall struct {
	ID        uint64    // ID is the primary key of the hall
	Name      string    // Name is a human readable label, unique across halls
	Capacity  uint32    // Capacity is the number of seats, always > 0
	CreatedAt time.Time // CreatedAt records row creation time
	UpdatedAt time.Time // UpdatedAt records last update time
}

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// ErrHallNameExists is returned when a hall name collides with an existing row.
var ErrHallNameExists = errors.New("hall name already exists")

// HallRepo provides methods to create and retrieve halls.
type HallRepo struct {
	store *Store
}

// NewHallRepo constructs a HallRepo over the given store.
func NewHallRepo(store *Store) *HallRepo {
	return &HallRepo{store: store}
}

// Create inserts a new hall and populates its ID and timestamp fields from
// the stored row.
func (r *HallRepo) Create(ctx context.Context, h *Hall) error {
	const qInsert = `INSERT INTO halls (name, capacity) VALUES (?, ?)`
	res, err := r.store.conn(ctx).ExecContext(ctx, qInsert, h.Name, h.Capacity)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrHallNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	const qSelect = `SELECT id, name, capacity, created_at, updated_at FROM halls WHERE id = ?`
	return r.store.conn(ctx).QueryRowContext(ctx, qSelect, h.ID).
		Scan(&h.ID, &h.Name, &h.Capacity, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID retrieves a hall by its ID. It returns ErrHallNotFound when no
// row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*Hall, error) {
	const q = `SELECT id, name, capacity, created_at, updated_at FROM halls WHERE id = ?`
	var h Hall
	err := r.store.conn(ctx).QueryRowContext(ctx, q, id).
		Scan(&h.ID, &h.Name, &h.Capacity, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// Capacity returns the seat capacity of a hall.
func (r *HallRepo) Capacity(ctx context.Context, id uint64) (uint32, error) {
	const q = `SELECT capacity FROM halls WHERE id = ?`
	var cap uint32
	err := r.store.conn(ctx).QueryRowContext(ctx, q, id).Scan(&cap)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrHallNotFound
		}
		return 0, err
	}
	return cap, nil
}

// ListAll returns every hall ordered by ID. When no halls exist it returns
// an empty slice and nil error.
func (r *HallRepo) ListAll(ctx context.Context) ([]*Hall, error) {
	const q = `SELECT id, name, capacity, created_at, updated_at FROM halls ORDER BY id`
	rows, err := r.store.conn(ctx).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Hall
	for rows.Next() {
		h := new(Hall)
		if err := rows.Scan(&h.ID, &h.Name, &h.Capacity, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes a hall's name and capacity. Returns sql.ErrNoRows when the
// hall does not exist. Callers are responsible for checking the sales lock
// before calling Update.
func (r *HallRepo) Update(ctx context.Context, h *Hall) error {
	const q = `UPDATE halls
               SET name = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.store.conn(ctx).ExecContext(ctx, q, h.Name, h.Capacity, h.ID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrHallNameExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero affected rows for identical values as well;
		// distinguish missing rows from no-op updates.
		var one int
		if err := r.store.conn(ctx).QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ? LIMIT 1`, h.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sql.ErrNoRows
			}
			return err
		}
	}
	return nil
}
