package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenDocument is an outstanding subledger document projected for aging
// and reconciliation: its due date and frozen base-currency amount.
type OpenDocument struct {
	DocumentID string
	DueDate    time.Time
	BaseAmount decimal.Decimal
}

// InvoiceRepositoryFacade persists accounts-receivable invoices.
type InvoiceRepositoryFacade interface {
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, ledgerID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, ledgerID string) ([]domain.Invoice, error)

	// FindInvoiceByIDForUpdate locks the invoice row for the duration of a
	// posting transaction, so two concurrent attempts to post the same
	// invoice serialize.
	FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, invoiceID string) (*domain.Invoice, error)

	// SetInvoicePostedInTx flips the status and stamps the journal entry
	// reference and frozen base amount inside the caller's transaction.
	SetInvoicePostedInTx(ctx context.Context, tx pgx.Tx, invoiceID string, status domain.InvoiceStatus, entryID string, baseAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error

	// SetInvoiceStatusInTx flips only the status (e.g. VOIDED on reversal).
	SetInvoiceStatusInTx(ctx context.Context, tx pgx.Tx, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error

	// ListOpenInvoices returns SENT invoices issued on or before asOf.
	ListOpenInvoices(ctx context.Context, ledgerID string, asOf time.Time) ([]OpenDocument, error)

	// SumOpenInvoices is the reconciliation "expected" value for AR.
	SumOpenInvoices(ctx context.Context, ledgerID string, asOf time.Time) (decimal.Decimal, error)
}

// BillRepositoryFacade persists accounts-payable bills.
type BillRepositoryFacade interface {
	SaveBill(ctx context.Context, bill domain.Bill) error
	FindBillByID(ctx context.Context, ledgerID, billID string) (*domain.Bill, error)
	ListBills(ctx context.Context, ledgerID string) ([]domain.Bill, error)
	FindBillByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, billID string) (*domain.Bill, error)
	SetBillPostedInTx(ctx context.Context, tx pgx.Tx, billID string, status domain.BillStatus, entryID string, baseAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error
	SetBillStatusInTx(ctx context.Context, tx pgx.Tx, billID string, status domain.BillStatus, updatedBy string, updatedAt time.Time) error
	ListOpenBills(ctx context.Context, ledgerID string, asOf time.Time) ([]OpenDocument, error)
	SumOpenBills(ctx context.Context, ledgerID string, asOf time.Time) (decimal.Decimal, error)
}

// PayrollRepositoryFacade persists payroll runs.
type PayrollRepositoryFacade interface {
	SavePayrollRun(ctx context.Context, run domain.PayrollRun) error
	FindPayrollRunByID(ctx context.Context, ledgerID, runID string) (*domain.PayrollRun, error)
	ListPayrollRuns(ctx context.Context, ledgerID string) ([]domain.PayrollRun, error)
	FindPayrollRunByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, runID string) (*domain.PayrollRun, error)
	SetPayrollDisbursedInTx(ctx context.Context, tx pgx.Tx, runID, entryID string, baseAmount decimal.Decimal, disbursedAt time.Time, updatedBy string) error
}
