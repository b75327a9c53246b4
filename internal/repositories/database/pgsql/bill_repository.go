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

const billColumns = `
	bill_id, ledger_id, vendor_name, issue_date, due_date, amount, currency_code,
	base_amount, status, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by
`

type PgxBillRepository struct {
	BaseRepository
}

// NewBillRepository creates a new repository for bill data.
func NewBillRepository(pool *pgxpool.Pool) portsrepo.BillRepositoryFacade {
	return &PgxBillRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillRepositoryFacade = (*PgxBillRepository)(nil)

func scanBill(row interface{ Scan(...any) error }) (*domain.Bill, error) {
	var b domain.Bill
	err := row.Scan(
		&b.BillID, &b.LedgerID, &b.VendorName, &b.IssueDate, &b.DueDate,
		&b.Amount, &b.CurrencyCode, &b.BaseAmount, &b.Status, &b.JournalEntryID,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		bill.BillID, bill.LedgerID, bill.VendorName, bill.IssueDate, bill.DueDate,
		bill.Amount, bill.CurrencyCode, bill.BaseAmount, bill.Status, bill.JournalEntryID,
		bill.CreatedAt, bill.CreatedBy, bill.LastUpdatedAt, bill.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill %s: %w", bill.BillID, err)
	}
	return nil
}

func (r *PgxBillRepository) FindBillByID(ctx context.Context, ledgerID, billID string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE ledger_id = $1 AND bill_id = $2;`
	b, err := scanBill(r.Pool.QueryRow(ctx, query, ledgerID, billID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (r *PgxBillRepository) FindBillByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, billID string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE ledger_id = $1 AND bill_id = $2 FOR UPDATE;`
	b, err := scanBill(tx.QueryRow(ctx, query, ledgerID, billID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (r *PgxBillRepository) ListBills(ctx context.Context, ledgerID string) ([]domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE ledger_id = $1 ORDER BY issue_date DESC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill rows: %w", err)
	}
	return bills, nil
}

func (r *PgxBillRepository) SetBillPostedInTx(ctx context.Context, tx pgx.Tx, billID string, status domain.BillStatus, entryID string, baseAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE bills
		SET status = $1, journal_entry_id = $2, base_amount = $3, last_updated_at = $4, last_updated_by = $5
		WHERE bill_id = $6;
	`
	tag, err := tx.Exec(ctx, query, status, entryID, baseAmount, updatedAt, updatedBy, billID)
	if err != nil {
		return fmt.Errorf("failed to mark bill %s posted: %w", billID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBillRepository) SetBillStatusInTx(ctx context.Context, tx pgx.Tx, billID string, status domain.BillStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE bills
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE bill_id = $4;
	`
	tag, err := tx.Exec(ctx, query, status, updatedAt, updatedBy, billID)
	if err != nil {
		return fmt.Errorf("failed to update status of bill %s: %w", billID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBillRepository) ListOpenBills(ctx context.Context, ledgerID string, asOf time.Time) ([]portsrepo.OpenDocument, error) {
	query := `
		SELECT bill_id, due_date, base_amount
		FROM bills
		WHERE ledger_id = $1 AND status = 'APPROVED' AND issue_date <= $2
		ORDER BY due_date;
	`
	return queryOpenDocuments(ctx, r.Pool, query, ledgerID, asOf)
}

func (r *PgxBillRepository) SumOpenBills(ctx context.Context, ledgerID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(base_amount), 0)
		FROM bills
		WHERE ledger_id = $1 AND status = 'APPROVED' AND issue_date <= $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, ledgerID, asOf).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum open bills: %w", err)
	}
	return sum, nil
}
