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

const payrollColumns = `
	payroll_run_id, ledger_id, period_label, total_amount, currency_code,
	base_amount, status, disbursed_at, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by
`

type PgxPayrollRepository struct {
	BaseRepository
}

// NewPayrollRepository creates a new repository for payroll run data.
func NewPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

func scanPayrollRun(row interface{ Scan(...any) error }) (*domain.PayrollRun, error) {
	var p domain.PayrollRun
	err := row.Scan(
		&p.PayrollRunID, &p.LedgerID, &p.PeriodLabel, &p.TotalAmount, &p.CurrencyCode,
		&p.BaseAmount, &p.Status, &p.DisbursedAt, &p.JournalEntryID,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxPayrollRepository) SavePayrollRun(ctx context.Context, run domain.PayrollRun) error {
	query := `
		INSERT INTO payroll_runs (` + payrollColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		run.PayrollRunID, run.LedgerID, run.PeriodLabel, run.TotalAmount, run.CurrencyCode,
		run.BaseAmount, run.Status, run.DisbursedAt, run.JournalEntryID,
		run.CreatedAt, run.CreatedBy, run.LastUpdatedAt, run.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payroll run %s: %w", run.PayrollRunID, err)
	}
	return nil
}

func (r *PgxPayrollRepository) FindPayrollRunByID(ctx context.Context, ledgerID, runID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_runs WHERE ledger_id = $1 AND payroll_run_id = $2;`
	p, err := scanPayrollRun(r.Pool.QueryRow(ctx, query, ledgerID, runID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PgxPayrollRepository) FindPayrollRunByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, runID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_runs WHERE ledger_id = $1 AND payroll_run_id = $2 FOR UPDATE;`
	p, err := scanPayrollRun(tx.QueryRow(ctx, query, ledgerID, runID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PgxPayrollRepository) ListPayrollRuns(ctx context.Context, ledgerID string) ([]domain.PayrollRun, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_runs WHERE ledger_id = $1 ORDER BY period_label DESC;`
	rows, err := r.Pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.PayrollRun{}
	for rows.Next() {
		p, err := scanPayrollRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll run row: %w", err)
		}
		runs = append(runs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payroll run rows: %w", err)
	}
	return runs, nil
}

func (r *PgxPayrollRepository) SetPayrollDisbursedInTx(ctx context.Context, tx pgx.Tx, runID, entryID string, baseAmount decimal.Decimal, disbursedAt time.Time, updatedBy string) error {
	query := `
		UPDATE payroll_runs
		SET status = 'DISBURSED', journal_entry_id = $1, base_amount = $2, disbursed_at = $3,
			last_updated_at = $3, last_updated_by = $4
		WHERE payroll_run_id = $5 AND status = 'PENDING';
	`
	tag, err := tx.Exec(ctx, query, entryID, baseAmount, disbursedAt, updatedBy, runID)
	if err != nil {
		return fmt.Errorf("failed to mark payroll run %s disbursed: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payroll run %s is not pending", apperrors.ErrConflict, runID)
	}
	return nil
}
