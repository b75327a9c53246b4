package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_engine/internal/apperrors"
)

// pgcode constants we care about.
const (
	pgUniqueViolation = "23505"
	pgLockNotAvail    = "55P03"
)

// BaseRepository provides common functionality for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// WithTx runs fn inside a single database transaction with a bounded
// lock wait. A lock wait exceeding lock_timeout maps to apperrors.ErrBusy
// so callers can retry with backoff instead of deadlocking.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // No-op after a successful commit
	}()

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '2s'"); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	if err := fn(tx); err != nil {
		if isLockTimeout(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrBusy, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isLockTimeout reports whether err is a postgres lock_timeout expiry.
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvail
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// mapNotFound converts pgx.ErrNoRows into the application sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return err
}
