package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/middleware"
	"github.com/shopspring/decimal"
)

// DefaultReconTolerance is the variance (in base currency) still considered
// in balance. One cent absorbs nothing; rounding is half-even at the line
// level, so a clean ledger reconciles to exactly zero.
var DefaultReconTolerance = decimal.RequireFromString("0.01")

// ReconciliationService diffs open subledger totals against control-account
// balances. Runs are evidence, not correction: the service never mutates
// the ledger, and a discrepancy is fixed by a human-reviewed adjusting
// entry through the normal posting path.
type ReconciliationService struct {
	reconRepo     portsrepo.ReconciliationRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	invoiceRepo   portsrepo.InvoiceRepositoryFacade
	billRepo      portsrepo.BillRepositoryFacade
	tolerance     decimal.Decimal
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(rr portsrepo.ReconciliationRepositoryFacade, rep portsrepo.ReportingRepository, ar portsrepo.AccountReader, ir portsrepo.InvoiceRepositoryFacade, br portsrepo.BillRepositoryFacade, tolerance decimal.Decimal) portssvc.ReconciliationSvcFacade {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = DefaultReconTolerance
	}
	return &ReconciliationService{
		reconRepo:     rr,
		reportingRepo: rep,
		accountRepo:   ar,
		invoiceRepo:   ir,
		billRepo:      br,
		tolerance:     tolerance,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*ReconciliationService)(nil)

// Reconcile compares each in-scope subledger against its control account
// and persists the append-only run record, discrepancies included. Even an
// in-tolerance result is recorded as INFO evidence.
func (s *ReconciliationService) Reconcile(ctx context.Context, ledgerID string, scope domain.ReconScope, userID string) (*domain.ReconciliationRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !scope.IsValid() {
		return nil, fmt.Errorf("%w: unknown reconciliation scope %q", apperrors.ErrValidation, scope)
	}

	now := time.Now()
	run := domain.ReconciliationRun{
		RunID:    uuid.NewString(),
		LedgerID: ledgerID,
		Scope:    scope,
		RunAt:    now,
		RunBy:    userID,
		Metadata: map[string]string{"tolerance": s.tolerance.String()},
	}

	sides := []domain.ReconScope{}
	if scope == domain.ScopeReceivable || scope == domain.ScopeFull {
		sides = append(sides, domain.ScopeReceivable)
	}
	if scope == domain.ScopePayable || scope == domain.ScopeFull {
		sides = append(sides, domain.ScopePayable)
	}

	for _, side := range sides {
		d, err := s.reconcileSide(ctx, ledgerID, side, run.RunID, now)
		if err != nil {
			return nil, err
		}
		run.Discrepancies = append(run.Discrepancies, *d)
	}

	run.Status = runStatus(run.Discrepancies)
	if err := s.reconRepo.SaveRun(ctx, run); err != nil {
		logger.Error("Failed to save reconciliation run", slog.String("error", err.Error()), slog.String("run_id", run.RunID))
		return nil, fmt.Errorf("failed to save reconciliation run: %w", err)
	}

	logger.Info("Reconciliation run completed",
		slog.String("run_id", run.RunID),
		slog.String("scope", string(scope)),
		slog.String("status", string(run.Status)))
	return &run, nil
}

// reconcileSide computes one expected-vs-actual comparison: the sum of open
// subledger documents' frozen base amounts against the control-account
// trial balance.
func (s *ReconciliationService) reconcileSide(ctx context.Context, ledgerID string, side domain.ReconScope, runID string, at time.Time) (*domain.Discrepancy, error) {
	var (
		role     domain.ControlRole
		expected decimal.Decimal
		err      error
	)
	switch side {
	case domain.ScopeReceivable:
		role = domain.ControlReceivable
		expected, err = s.invoiceRepo.SumOpenInvoices(ctx, ledgerID, at)
	case domain.ScopePayable:
		role = domain.ControlPayable
		expected, err = s.billRepo.SumOpenBills(ctx, ledgerID, at)
	default:
		return nil, fmt.Errorf("%w: %q is not a reconcilable side", apperrors.ErrValidation, side)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sum open %s documents: %w", side, err)
	}

	control, err := s.accountRepo.FindControlAccount(ctx, ledgerID, role)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger has no %s control account", apperrors.ErrValidation, role)
	}

	actual, err := s.reportingRepo.GetControlBalance(ctx, ledgerID, control.AccountID, at)
	if err != nil {
		return nil, err
	}
	if side == domain.ScopePayable {
		actual = actual.Neg()
	}

	variance := expected.Sub(actual)
	severity := domain.GradeVariance(variance, s.tolerance)
	return &domain.Discrepancy{
		DiscrepancyID:    uuid.NewString(),
		RunID:            runID,
		Scope:            side,
		ControlAccountID: control.AccountID,
		Expected:         expected,
		Actual:           actual,
		Variance:         variance,
		Severity:         severity,
		Description:      fmt.Sprintf("%s subledger %s vs control account %s", side, expected.String(), actual.String()),
		DetectedAt:       at,
	}, nil
}

// GetRunByID retrieves a single reconciliation run with its discrepancies.
func (s *ReconciliationService) GetRunByID(ctx context.Context, ledgerID, runID string) (*domain.ReconciliationRun, error) {
	return s.reconRepo.FindRunByID(ctx, ledgerID, runID)
}

// ListRuns retrieves recent reconciliation runs, newest first.
func (s *ReconciliationService) ListRuns(ctx context.Context, ledgerID string, limit int) ([]domain.ReconciliationRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reconRepo.ListRuns(ctx, ledgerID, limit)
}

func runStatus(discrepancies []domain.Discrepancy) domain.ReconRunStatus {
	status := domain.ReconSuccess
	for _, d := range discrepancies {
		switch d.Severity {
		case domain.SeverityCritical:
			return domain.ReconFailed
		case domain.SeverityWarning:
			status = domain.ReconWarning
		}
	}
	return status
}
