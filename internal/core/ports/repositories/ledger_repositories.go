package repositories

import (
	"context"

	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// LedgerRepositoryFacade persists top-level ledgers.
type LedgerRepositoryFacade interface {
	SaveLedger(ctx context.Context, ledger domain.Ledger) error
	FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	ListLedgers(ctx context.Context) ([]domain.Ledger, error)
}
