package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// FiscalPeriodRepositoryFacade persists fiscal periods and their audit trail.
type FiscalPeriodRepositoryFacade interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error
	FindPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, ledgerID string) ([]domain.FiscalPeriod, error)

	// FindPeriodForDateForUpdate resolves the period covering a posting
	// date and takes a row lock on it, so a concurrent close/reopen
	// serializes against the posting transaction holding the lock.
	FindPeriodForDateForUpdate(ctx context.Context, tx pgx.Tx, ledgerID string, postingDate time.Time) (*domain.FiscalPeriod, error)

	// FindPeriodByIDForUpdate locks a period row for a status transition.
	FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, periodID string) (*domain.FiscalPeriod, error)

	// UpdatePeriodStatusInTx flips the period status and writes the audit
	// event inside the caller's transaction.
	UpdatePeriodStatusInTx(ctx context.Context, tx pgx.Tx, periodID string, status domain.PeriodStatus, event domain.PeriodAuditEvent) error

	ListAuditEvents(ctx context.Context, periodID string) ([]domain.PeriodAuditEvent, error)
}
