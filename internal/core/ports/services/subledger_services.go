package services

import (
	"context"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// InvoiceSvcFacade is the accounts-receivable producer.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, ledgerID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, ledgerID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, ledgerID string) ([]domain.Invoice, error)

	// SendInvoice posts the invoice to the ledger and flips it to SENT as
	// one atomic unit through the posting coordinator.
	SendInvoice(ctx context.Context, ledgerID, invoiceID, idempotencyKey string, req dto.SendInvoiceRequest, userID string) (*domain.Invoice, error)

	// VoidInvoice reverses the posting entry and marks the invoice VOIDED
	// in the same transaction.
	VoidInvoice(ctx context.Context, ledgerID, invoiceID string, req dto.VoidInvoiceRequest, userID string) (*domain.Invoice, error)
}

// BillSvcFacade is the accounts-payable producer.
type BillSvcFacade interface {
	CreateBill(ctx context.Context, ledgerID string, req dto.CreateBillRequest, creatorUserID string) (*domain.Bill, error)
	GetBillByID(ctx context.Context, ledgerID, billID string) (*domain.Bill, error)
	ListBills(ctx context.Context, ledgerID string) ([]domain.Bill, error)
	ApproveBill(ctx context.Context, ledgerID, billID, idempotencyKey string, req dto.ApproveBillRequest, userID string) (*domain.Bill, error)

	// VoidBill reverses the posting entry and marks the bill VOIDED in the
	// same transaction.
	VoidBill(ctx context.Context, ledgerID, billID string, req dto.VoidBillRequest, userID string) (*domain.Bill, error)
}

// PayrollSvcFacade is the payroll producer.
type PayrollSvcFacade interface {
	CreatePayrollRun(ctx context.Context, ledgerID string, req dto.CreatePayrollRunRequest, creatorUserID string) (*domain.PayrollRun, error)
	GetPayrollRunByID(ctx context.Context, ledgerID, runID string) (*domain.PayrollRun, error)
	ListPayrollRuns(ctx context.Context, ledgerID string) ([]domain.PayrollRun, error)

	// DisbursePayroll posts the run and flips it to DISBURSED atomically.
	// Retried calls with the same idempotency key never double-post.
	DisbursePayroll(ctx context.Context, ledgerID, runID, idempotencyKey string, req dto.DisbursePayrollRequest, userID string) (*domain.PayrollRun, error)
}
