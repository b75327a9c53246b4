package repositories

import (
	"context"

	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// ReconciliationRepositoryFacade persists reconciliation runs. Runs are
// append-only audit records; there is no update or delete.
type ReconciliationRepositoryFacade interface {
	SaveRun(ctx context.Context, run domain.ReconciliationRun) error
	FindRunByID(ctx context.Context, ledgerID, runID string) (*domain.ReconciliationRun, error)
	ListRuns(ctx context.Context, ledgerID string, limit int) ([]domain.ReconciliationRun, error)
}
