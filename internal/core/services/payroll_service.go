package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/openbooks/ledger_engine/internal/middleware"
)

// PayrollService is the payroll producer. Disbursement and its journal
// entry commit as one atomic unit through the posting coordinator.
type PayrollService struct {
	payrollRepo portsrepo.PayrollRepositoryFacade
	postingSvc  portssvc.PostingSvcFacade
	fxSvc       portssvc.FxSvcFacade
}

// NewPayrollService creates a new PayrollService.
func NewPayrollService(pr portsrepo.PayrollRepositoryFacade, ps portssvc.PostingSvcFacade, fx portssvc.FxSvcFacade) portssvc.PayrollSvcFacade {
	return &PayrollService{
		payrollRepo: pr,
		postingSvc:  ps,
		fxSvc:       fx,
	}
}

var _ portssvc.PayrollSvcFacade = (*PayrollService)(nil)

// CreatePayrollRun creates a pending payroll run.
func (s *PayrollService) CreatePayrollRun(ctx context.Context, ledgerID string, req dto.CreatePayrollRunRequest, creatorUserID string) (*domain.PayrollRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	run := domain.PayrollRun{
		PayrollRunID: uuid.NewString(),
		LedgerID:     ledgerID,
		PeriodLabel:  req.PeriodLabel,
		TotalAmount:  req.TotalAmount,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.PayrollPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.payrollRepo.SavePayrollRun(ctx, run); err != nil {
		logger.Error("Failed to save payroll run", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create payroll run: %w", err)
	}

	logger.Info("Payroll run created", slog.String("payroll_run_id", run.PayrollRunID), slog.String("period", req.PeriodLabel))
	return &run, nil
}

// GetPayrollRunByID retrieves a single payroll run.
func (s *PayrollService) GetPayrollRunByID(ctx context.Context, ledgerID, runID string) (*domain.PayrollRun, error) {
	return s.payrollRepo.FindPayrollRunByID(ctx, ledgerID, runID)
}

// ListPayrollRuns retrieves all payroll runs of a ledger.
func (s *PayrollService) ListPayrollRuns(ctx context.Context, ledgerID string) ([]domain.PayrollRun, error) {
	return s.payrollRepo.ListPayrollRuns(ctx, ledgerID)
}

// DisbursePayroll posts the run (payroll expense debit, cash credit) and
// flips it to DISBURSED atomically. A retried call with the same
// idempotency key returns without double-posting.
func (s *PayrollService) DisbursePayroll(ctx context.Context, ledgerID, runID, idempotencyKey string, req dto.DisbursePayrollRequest, userID string) (*domain.PayrollRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	run, err := s.payrollRepo.FindPayrollRunByID(ctx, ledgerID, runID)
	if err != nil {
		return nil, err
	}
	if run.Status != domain.PayrollPending {
		return nil, fmt.Errorf("%w: payroll run is %s", apperrors.ErrConflict, run.Status)
	}

	postingDate := time.Now()
	if req.PostingDate != nil {
		postingDate = *req.PostingDate
	}

	_, baseAmount, err := s.fxSvc.Normalize(ctx, ledgerID, run.TotalAmount, run.CurrencyCode, postingDate)
	if err != nil {
		return nil, err
	}

	header := dto.EntryHeader{
		EntryDate:   postingDate,
		PostingDate: postingDate,
		Description: fmt.Sprintf("Payroll %s", run.PeriodLabel),
		Source:      domain.SourceRef{Type: domain.SourcePayroll, DocumentID: runID},
	}
	lines := []dto.LineSpec{
		{AccountID: req.ExpenseAccountID, Side: domain.Debit, Amount: run.TotalAmount, CurrencyCode: run.CurrencyCode, Memo: "Payroll expense " + run.PeriodLabel},
		{AccountID: req.CashAccountID, Side: domain.Credit, Amount: run.TotalAmount, CurrencyCode: run.CurrencyCode, Memo: "Payroll disbursement"},
	}

	now := time.Now()
	mutation := func(ctx context.Context, tx pgx.Tx, entryID string) error {
		locked, err := s.payrollRepo.FindPayrollRunByIDForUpdate(ctx, tx, ledgerID, runID)
		if err != nil {
			return err
		}
		if locked.Status != domain.PayrollPending {
			return fmt.Errorf("%w: payroll run is %s", apperrors.ErrConflict, locked.Status)
		}
		return s.payrollRepo.SetPayrollDisbursedInTx(ctx, tx, runID, entryID, baseAmount, now, userID)
	}

	if _, err := s.postingSvc.PostTransaction(ctx, ledgerID, idempotencyKey, header, lines, mutation, userID); err != nil {
		return nil, err
	}

	logger.Info("Payroll disbursed", slog.String("payroll_run_id", runID))
	return s.payrollRepo.FindPayrollRunByID(ctx, ledgerID, runID)
}
