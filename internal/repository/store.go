package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories use. Every
// query goes through it so that a repository call transparently joins a
// transaction carried in the context.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Store wraps the database handle and provides transaction scoping. Repos
// built on the same Store share transactions started with WithTx.
type Store struct {
	db *sql.DB
}

// NewStore constructs a Store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that need it directly.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx runs fn inside a transaction. The transaction is placed in the
// context, so repository calls made within fn join it automatically. If fn
// returns an error the transaction rolls back; otherwise it commits. A
// nested call reuses the transaction already in the context.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// conn returns the transaction from the context when present, or the plain
// database handle otherwise.
func (s *Store) conn(ctx context.Context) DBTX {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
