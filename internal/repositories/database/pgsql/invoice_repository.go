package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `
	invoice_id, ledger_id, customer_name, issue_date, due_date, amount, currency_code,
	base_amount, status, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by
`

type PgxInvoiceRepository struct {
	BaseRepository
}

// NewInvoiceRepository creates a new repository for invoice data.
func NewInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row interface{ Scan(...any) error }) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID, &inv.LedgerID, &inv.CustomerName, &inv.IssueDate, &inv.DueDate,
		&inv.Amount, &inv.CurrencyCode, &inv.BaseAmount, &inv.Status, &inv.JournalEntryID,
		&inv.CreatedAt, &inv.CreatedBy, &inv.LastUpdatedAt, &inv.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		invoice.InvoiceID, invoice.LedgerID, invoice.CustomerName, invoice.IssueDate, invoice.DueDate,
		invoice.Amount, invoice.CurrencyCode, invoice.BaseAmount, invoice.Status, invoice.JournalEntryID,
		invoice.CreatedAt, invoice.CreatedBy, invoice.LastUpdatedAt, invoice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, ledgerID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ledger_id = $1 AND invoice_id = $2;`
	inv, err := scanInvoice(r.Pool.QueryRow(ctx, query, ledgerID, invoiceID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return inv, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ledger_id = $1 AND invoice_id = $2 FOR UPDATE;`
	inv, err := scanInvoice(tx.QueryRow(ctx, query, ledgerID, invoiceID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return inv, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, ledgerID string) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ledger_id = $1 ORDER BY issue_date DESC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) SetInvoicePostedInTx(ctx context.Context, tx pgx.Tx, invoiceID string, status domain.InvoiceStatus, entryID string, baseAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $1, journal_entry_id = $2, base_amount = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $6;
	`
	tag, err := tx.Exec(ctx, query, status, entryID, baseAmount, updatedAt, updatedBy, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to mark invoice %s posted: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxInvoiceRepository) SetInvoiceStatusInTx(ctx context.Context, tx pgx.Tx, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE invoice_id = $4;
	`
	tag, err := tx.Exec(ctx, query, status, updatedAt, updatedBy, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to update status of invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxInvoiceRepository) ListOpenInvoices(ctx context.Context, ledgerID string, asOf time.Time) ([]portsrepo.OpenDocument, error) {
	query := `
		SELECT invoice_id, due_date, base_amount
		FROM invoices
		WHERE ledger_id = $1 AND status = 'SENT' AND issue_date <= $2
		ORDER BY due_date;
	`
	return queryOpenDocuments(ctx, r.Pool, query, ledgerID, asOf)
}

func (r *PgxInvoiceRepository) SumOpenInvoices(ctx context.Context, ledgerID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(base_amount), 0)
		FROM invoices
		WHERE ledger_id = $1 AND status = 'SENT' AND issue_date <= $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, ledgerID, asOf).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum open invoices: %w", err)
	}
	return sum, nil
}

// queryOpenDocuments runs an (id, due_date, base_amount) projection shared
// by the invoice and bill repositories.
func queryOpenDocuments(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]portsrepo.OpenDocument, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open documents: %w", err)
	}
	defer rows.Close()

	docs := []portsrepo.OpenDocument{}
	for rows.Next() {
		var d portsrepo.OpenDocument
		if err := rows.Scan(&d.DocumentID, &d.DueDate, &d.BaseAmount); err != nil {
			return nil, fmt.Errorf("failed to scan open document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open document rows: %w", err)
	}
	return docs, nil
}
