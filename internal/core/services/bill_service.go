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

// BillService is the accounts-payable producer, the AP mirror of the
// invoice service.
type BillService struct {
	billRepo    portsrepo.BillRepositoryFacade
	accountRepo portsrepo.AccountReader
	postingSvc  portssvc.PostingSvcFacade
	fxSvc       portssvc.FxSvcFacade
}

// NewBillService creates a new BillService.
func NewBillService(br portsrepo.BillRepositoryFacade, ar portsrepo.AccountReader, ps portssvc.PostingSvcFacade, fx portssvc.FxSvcFacade) portssvc.BillSvcFacade {
	return &BillService{
		billRepo:    br,
		accountRepo: ar,
		postingSvc:  ps,
		fxSvc:       fx,
	}
}

var _ portssvc.BillSvcFacade = (*BillService)(nil)

// CreateBill creates a draft bill.
func (s *BillService) CreateBill(ctx context.Context, ledgerID string, req dto.CreateBillRequest, creatorUserID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	bill := domain.Bill{
		BillID:       uuid.NewString(),
		LedgerID:     ledgerID,
		VendorName:   req.VendorName,
		IssueDate:    req.IssueDate,
		DueDate:      req.DueDate,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.BillDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.billRepo.SaveBill(ctx, bill); err != nil {
		logger.Error("Failed to save bill", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	logger.Info("Bill created", slog.String("bill_id", bill.BillID), slog.String("vendor", req.VendorName))
	return &bill, nil
}

// GetBillByID retrieves a single bill.
func (s *BillService) GetBillByID(ctx context.Context, ledgerID, billID string) (*domain.Bill, error) {
	return s.billRepo.FindBillByID(ctx, ledgerID, billID)
}

// ListBills retrieves all bills of a ledger.
func (s *BillService) ListBills(ctx context.Context, ledgerID string) ([]domain.Bill, error) {
	return s.billRepo.ListBills(ctx, ledgerID)
}

// ApproveBill posts the bill (expense debit, AP control credit) and flips
// it to APPROVED as one atomic unit.
func (s *BillService) ApproveBill(ctx context.Context, ledgerID, billID, idempotencyKey string, req dto.ApproveBillRequest, userID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.billRepo.FindBillByID(ctx, ledgerID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.BillDraft {
		return nil, fmt.Errorf("%w: bill is %s", apperrors.ErrConflict, bill.Status)
	}

	apControl, err := s.accountRepo.FindControlAccount(ctx, ledgerID, domain.ControlPayable)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger has no AP control account", apperrors.ErrValidation)
	}

	postingDate := time.Now()
	if req.PostingDate != nil {
		postingDate = *req.PostingDate
	}

	_, baseAmount, err := s.fxSvc.Normalize(ctx, ledgerID, bill.Amount, bill.CurrencyCode, postingDate)
	if err != nil {
		return nil, err
	}

	header := dto.EntryHeader{
		EntryDate:   bill.IssueDate,
		PostingDate: postingDate,
		Description: fmt.Sprintf("Bill from %s", bill.VendorName),
		Source:      domain.SourceRef{Type: domain.SourceBill, DocumentID: billID},
	}
	lines := []dto.LineSpec{
		{AccountID: req.ExpenseAccountID, Side: domain.Debit, Amount: bill.Amount, CurrencyCode: bill.CurrencyCode, Memo: "Expense"},
		{AccountID: apControl.AccountID, Side: domain.Credit, Amount: bill.Amount, CurrencyCode: bill.CurrencyCode, Memo: "Payable to " + bill.VendorName},
	}

	now := time.Now()
	mutation := func(ctx context.Context, tx pgx.Tx, entryID string) error {
		locked, err := s.billRepo.FindBillByIDForUpdate(ctx, tx, ledgerID, billID)
		if err != nil {
			return err
		}
		if locked.Status != domain.BillDraft {
			return fmt.Errorf("%w: bill is %s", apperrors.ErrConflict, locked.Status)
		}
		return s.billRepo.SetBillPostedInTx(ctx, tx, billID, domain.BillApproved, entryID, baseAmount, userID, now)
	}

	if _, err := s.postingSvc.PostTransaction(ctx, ledgerID, idempotencyKey, header, lines, mutation, userID); err != nil {
		return nil, err
	}

	logger.Info("Bill approved", slog.String("bill_id", billID))
	return s.billRepo.FindBillByID(ctx, ledgerID, billID)
}

// VoidBill reverses the posting entry and marks the bill VOIDED in the same
// transaction. Voided bills drop out of aging and reconciliation alike.
func (s *BillService) VoidBill(ctx context.Context, ledgerID, billID string, req dto.VoidBillRequest, userID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.billRepo.FindBillByID(ctx, ledgerID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.BillApproved {
		return nil, fmt.Errorf("%w: bill is %s", apperrors.ErrConflict, bill.Status)
	}
	if bill.JournalEntryID == nil {
		return nil, fmt.Errorf("%w: bill has no journal entry", apperrors.ErrConflict)
	}

	now := time.Now()
	mutation := func(ctx context.Context, tx pgx.Tx, _ string) error {
		locked, err := s.billRepo.FindBillByIDForUpdate(ctx, tx, ledgerID, billID)
		if err != nil {
			return err
		}
		if locked.Status != domain.BillApproved {
			return fmt.Errorf("%w: bill is %s", apperrors.ErrConflict, locked.Status)
		}
		return s.billRepo.SetBillStatusInTx(ctx, tx, billID, domain.BillVoided, userID, now)
	}

	reverseReq := dto.ReverseEntryRequest{Reason: req.Reason}
	if _, err := s.postingSvc.ReverseEntry(ctx, ledgerID, *bill.JournalEntryID, reverseReq, mutation, userID); err != nil {
		return nil, err
	}

	logger.Info("Bill voided", slog.String("bill_id", billID), slog.String("reason", req.Reason))
	return s.billRepo.FindBillByID(ctx, ledgerID, billID)
}
