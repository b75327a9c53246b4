package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager runs a function inside a single database transaction.
// The posting coordinator uses it to make the period check, the entry
// insert, the producer's document mutation and the idempotency record one
// atomic unit.
type TransactionManager interface {
	// WithTx begins a transaction, runs fn, and commits when fn returns
	// nil; any error rolls back everything. A lock wait that exceeds the
	// configured lock_timeout surfaces as apperrors.ErrBusy.
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
