package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// FiscalPeriodSvcFacade is the fiscal period gate: period lifecycle plus
// the writability check every posting path consults.
type FiscalPeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, ledgerID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error)
	GetPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, ledgerID string) ([]domain.FiscalPeriod, error)

	ClosePeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.FiscalPeriod, error)
	LockPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.FiscalPeriod, error)
	ReopenPeriod(ctx context.Context, ledgerID, periodID string, req dto.ReopenPeriodRequest, userID string) (*domain.FiscalPeriod, error)

	// CheckWritable resolves and row-locks the period covering postingDate
	// inside the caller's transaction, returning its id. Errors:
	// ErrPeriodClosed, ErrPeriodLocked, ErrNoPeriodDefined.
	CheckWritable(ctx context.Context, tx pgx.Tx, ledgerID string, postingDate time.Time) (string, error)

	ListAuditEvents(ctx context.Context, ledgerID, periodID string) ([]domain.PeriodAuditEvent, error)
}
