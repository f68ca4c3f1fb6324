package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner owns the transactional boundary of a write command: everything the
// callback writes commits atomically or not at all.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type txRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner backed by the given database handle.
func NewTxRunner(db *sql.DB) TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
