package services

import (
	"context"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// LedgerSvcFacade manages top-level ledgers.
type LedgerSvcFacade interface {
	CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*domain.Ledger, error)
	GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	ListLedgers(ctx context.Context) ([]domain.Ledger, error)
}
