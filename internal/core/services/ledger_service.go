package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/openbooks/ledger_engine/internal/middleware"
)

// LedgerService handles business logic for top-level ledgers.
type LedgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(lr portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &LedgerService{ledgerRepo: lr}
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// CreateLedger creates a new ledger with an immutable base currency.
func (s *LedgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	ledger := domain.Ledger{
		LedgerID:         uuid.NewString(),
		Name:             req.Name,
		BaseCurrencyCode: strings.ToUpper(req.BaseCurrencyCode),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.ledgerRepo.SaveLedger(ctx, ledger); err != nil {
		logger.Error("Failed to save ledger", slog.String("error", err.Error()), slog.String("ledger_name", req.Name))
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}

	logger.Info("Ledger created", slog.String("ledger_id", ledger.LedgerID), slog.String("base_currency", ledger.BaseCurrencyCode))
	return &ledger, nil
}

// GetLedgerByID retrieves a ledger by its ID.
func (s *LedgerService) GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	return s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
}

// ListLedgers retrieves all ledgers.
func (s *LedgerService) ListLedgers(ctx context.Context) ([]domain.Ledger, error) {
	return s.ledgerRepo.ListLedgers(ctx)
}
