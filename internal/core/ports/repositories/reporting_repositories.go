package repositories

import (
	"context"
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository serves the canonical read-side projections. Every
// query ranges over POSTED, non-reversed journal lines on the posting-date
// axis; subledger tables are never consulted here.
type ReportingRepository interface {
	// GetTrialBalanceData returns per-account debit/credit totals up to
	// asOf. accountIDs narrows the result when non-empty.
	GetTrialBalanceData(ctx context.Context, ledgerID string, asOf time.Time, accountIDs []string) ([]domain.TrialBalanceRow, error)

	// GetPLData returns net amounts for REVENUE, EXPENSE and COGS accounts
	// over a posting-date range.
	GetPLData(ctx context.Context, ledgerID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error)

	// GetCashData returns net balances of cash-flagged accounts up to asOf.
	GetCashData(ctx context.Context, ledgerID string, asOf time.Time) ([]domain.AccountAmount, error)

	// GetControlBalance returns the debit-positive trial balance of one
	// account up to asOf.
	GetControlBalance(ctx context.Context, ledgerID, accountID string, asOf time.Time) (decimal.Decimal, error)
}
