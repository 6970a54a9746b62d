package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/kinozal/ticket-office/internal/utils"
)

// User mirrors the 'users' table. MoneySpentCents is a denormalized running
// total of everything the user has paid for tickets.
type User struct {
	ID              uint64
	Email           string
	PasswordHash    string
	Role            string
	MoneySpentCents uint64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserRepo manages persistence for users.
type UserRepo struct {
	store *Store
}

// NewUserRepo constructs a UserRepo over the given store.
func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.store.conn(ctx).ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail loads a user by email. Returns sql.ErrNoRows when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT id, email, password_hash, role, money_spent_cents, is_active, created_at, updated_at
               FROM users WHERE email = ? LIMIT 1`
	var u User
	err := r.store.conn(ctx).QueryRowContext(ctx, q, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.MoneySpentCents, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ID. Returns sql.ErrNoRows when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*User, error) {
	const q = `SELECT id, email, password_hash, role, money_spent_cents, is_active, created_at, updated_at
               FROM users WHERE id = ? LIMIT 1`
	var u User
	err := r.store.conn(ctx).QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.MoneySpentCents, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AddSpent increases the user's cumulative money_spent_cents by amount.
// Returns sql.ErrNoRows when the user does not exist.
func (r *UserRepo) AddSpent(ctx context.Context, userID uint64, amountCents uint64) error {
	res, err := r.store.conn(ctx).ExecContext(ctx,
		"UPDATE users SET money_spent_cents = money_spent_cents + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		amountCents, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MoneySpent returns the user's cumulative spend in cents.
func (r *UserRepo) MoneySpent(ctx context.Context, userID uint64) (uint64, error) {
	var total uint64
	err := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT money_spent_cents FROM users WHERE id = ?", userID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
