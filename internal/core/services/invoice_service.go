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

// InvoiceService is the accounts-receivable producer. It never writes
// journal rows itself; posting goes through the coordinator, with the
// invoice status flip supplied as the in-transaction producer mutation.
type InvoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	accountRepo portsrepo.AccountReader
	postingSvc  portssvc.PostingSvcFacade
	fxSvc       portssvc.FxSvcFacade
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(ir portsrepo.InvoiceRepositoryFacade, ar portsrepo.AccountReader, ps portssvc.PostingSvcFacade, fx portssvc.FxSvcFacade) portssvc.InvoiceSvcFacade {
	return &InvoiceService{
		invoiceRepo: ir,
		accountRepo: ar,
		postingSvc:  ps,
		fxSvc:       fx,
	}
}

var _ portssvc.InvoiceSvcFacade = (*InvoiceService)(nil)

// CreateInvoice creates a draft invoice. Drafts have no ledger footprint.
func (s *InvoiceService) CreateInvoice(ctx context.Context, ledgerID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	invoice := domain.Invoice{
		InvoiceID:    uuid.NewString(),
		LedgerID:     ledgerID,
		CustomerName: req.CustomerName,
		IssueDate:    req.IssueDate,
		DueDate:      req.DueDate,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.InvoiceDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("customer", req.CustomerName))
	return &invoice, nil
}

// GetInvoiceByID retrieves a single invoice.
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, ledgerID, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, ledgerID, invoiceID)
}

// ListInvoices retrieves all invoices of a ledger.
func (s *InvoiceService) ListInvoices(ctx context.Context, ledgerID string) ([]domain.Invoice, error) {
	return s.invoiceRepo.ListInvoices(ctx, ledgerID)
}

// SendInvoice posts the invoice (AR control debit, revenue credit) and
// flips it to SENT as one atomic unit. The invoice row lock inside the
// producer mutation serializes concurrent sends of the same invoice.
func (s *InvoiceService) SendInvoice(ctx context.Context, ledgerID, invoiceID, idempotencyKey string, req dto.SendInvoiceRequest, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, ledgerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice is %s", apperrors.ErrConflict, invoice.Status)
	}

	arControl, err := s.accountRepo.FindControlAccount(ctx, ledgerID, domain.ControlReceivable)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger has no AR control account", apperrors.ErrValidation)
	}

	postingDate := time.Now()
	if req.PostingDate != nil {
		postingDate = *req.PostingDate
	}

	// Same normalization the coordinator applies to the lines, so the
	// frozen document base amount matches the control-account movement.
	_, baseAmount, err := s.fxSvc.Normalize(ctx, ledgerID, invoice.Amount, invoice.CurrencyCode, postingDate)
	if err != nil {
		return nil, err
	}

	header := dto.EntryHeader{
		EntryDate:   invoice.IssueDate,
		PostingDate: postingDate,
		Description: fmt.Sprintf("Invoice to %s", invoice.CustomerName),
		Source:      domain.SourceRef{Type: domain.SourceInvoice, DocumentID: invoiceID},
	}
	lines := []dto.LineSpec{
		{AccountID: arControl.AccountID, Side: domain.Debit, Amount: invoice.Amount, CurrencyCode: invoice.CurrencyCode, Memo: "Receivable from " + invoice.CustomerName},
		{AccountID: req.RevenueAccountID, Side: domain.Credit, Amount: invoice.Amount, CurrencyCode: invoice.CurrencyCode, Memo: "Revenue"},
	}

	now := time.Now()
	mutation := func(ctx context.Context, tx pgx.Tx, entryID string) error {
		locked, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, ledgerID, invoiceID)
		if err != nil {
			return err
		}
		if locked.Status != domain.InvoiceDraft {
			return fmt.Errorf("%w: invoice is %s", apperrors.ErrConflict, locked.Status)
		}
		return s.invoiceRepo.SetInvoicePostedInTx(ctx, tx, invoiceID, domain.InvoiceSent, entryID, baseAmount, userID, now)
	}

	if _, err := s.postingSvc.PostTransaction(ctx, ledgerID, idempotencyKey, header, lines, mutation, userID); err != nil {
		return nil, err
	}

	logger.Info("Invoice sent", slog.String("invoice_id", invoiceID))
	return s.invoiceRepo.FindInvoiceByID(ctx, ledgerID, invoiceID)
}

// VoidInvoice reverses the posting entry and marks the invoice VOIDED in
// the same transaction. Voided invoices drop out of aging and
// reconciliation alike.
func (s *InvoiceService) VoidInvoice(ctx context.Context, ledgerID, invoiceID string, req dto.VoidInvoiceRequest, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, ledgerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceSent {
		return nil, fmt.Errorf("%w: invoice is %s", apperrors.ErrConflict, invoice.Status)
	}
	if invoice.JournalEntryID == nil {
		return nil, fmt.Errorf("%w: invoice has no journal entry", apperrors.ErrConflict)
	}

	now := time.Now()
	mutation := func(ctx context.Context, tx pgx.Tx, _ string) error {
		locked, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, ledgerID, invoiceID)
		if err != nil {
			return err
		}
		if locked.Status != domain.InvoiceSent {
			return fmt.Errorf("%w: invoice is %s", apperrors.ErrConflict, locked.Status)
		}
		return s.invoiceRepo.SetInvoiceStatusInTx(ctx, tx, invoiceID, domain.InvoiceVoided, userID, now)
	}

	reverseReq := dto.ReverseEntryRequest{Reason: req.Reason}
	if _, err := s.postingSvc.ReverseEntry(ctx, ledgerID, *invoice.JournalEntryID, reverseReq, mutation, userID); err != nil {
		return nil, err
	}

	logger.Info("Invoice voided", slog.String("invoice_id", invoiceID), slog.String("reason", req.Reason))
	return s.invoiceRepo.FindInvoiceByID(ctx, ledgerID, invoiceID)
}
