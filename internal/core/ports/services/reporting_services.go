package services

import (
	"context"
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// ReportingSvcFacade serves the canonical views. Everything is computed
// from posted, non-reversed journal lines on the posting-date axis.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, ledgerID string, asOf time.Time, accountIDs []string) ([]domain.TrialBalanceRow, error)
	ProfitAndLoss(ctx context.Context, ledgerID string, from, to time.Time) (*domain.PLStatement, error)
	CashPosition(ctx context.Context, ledgerID string, asOf time.Time) (*domain.CashSnapshot, error)
	Aging(ctx context.Context, ledgerID string, side domain.AgingSide, asOf time.Time) (*domain.AgingBuckets, error)
}

// ReconciliationSvcFacade runs subledger-vs-ledger reconciliation.
type ReconciliationSvcFacade interface {
	// Reconcile diffs open subledger totals against the matching control
	// account balance and persists an append-only run record. It never
	// mutates the ledger.
	Reconcile(ctx context.Context, ledgerID string, scope domain.ReconScope, userID string) (*domain.ReconciliationRun, error)

	GetRunByID(ctx context.Context, ledgerID, runID string) (*domain.ReconciliationRun, error)
	ListRuns(ctx context.Context, ledgerID string, limit int) ([]domain.ReconciliationRun, error)
}
