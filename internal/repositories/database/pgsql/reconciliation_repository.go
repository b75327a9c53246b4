package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// NewReconciliationRepository creates a new repository for reconciliation
// run data.
func NewReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

func (r *PgxReconciliationRepository) SaveRun(ctx context.Context, run domain.ReconciliationRun) error {
	// Run and discrepancies commit together so a partial run is never
	// visible.
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		runQuery := `
			INSERT INTO reconciliation_runs (run_id, ledger_id, scope, status, run_at, run_by, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		_, err := tx.Exec(ctx, runQuery,
			run.RunID, run.LedgerID, run.Scope, run.Status, run.RunAt, run.RunBy, run.Metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reconciliation run %s: %w", run.RunID, err)
		}

		discQuery := `
			INSERT INTO reconciliation_discrepancies (
				discrepancy_id, run_id, scope, control_account_id,
				expected, actual, variance, severity, description, detected_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		batch := &pgx.Batch{}
		for _, d := range run.Discrepancies {
			batch.Queue(discQuery,
				d.DiscrepancyID, d.RunID, d.Scope, d.ControlAccountID,
				d.Expected, d.Actual, d.Variance, d.Severity, d.Description, d.DetectedAt,
			)
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range run.Discrepancies {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("failed to insert discrepancies for run %s: %w", run.RunID, err)
			}
		}
		return nil
	})
}

func (r *PgxReconciliationRepository) FindRunByID(ctx context.Context, ledgerID, runID string) (*domain.ReconciliationRun, error) {
	runQuery := `
		SELECT run_id, ledger_id, scope, status, run_at, run_by, metadata
		FROM reconciliation_runs
		WHERE ledger_id = $1 AND run_id = $2;
	`
	var run domain.ReconciliationRun
	err := r.Pool.QueryRow(ctx, runQuery, ledgerID, runID).Scan(
		&run.RunID, &run.LedgerID, &run.Scope, &run.Status, &run.RunAt, &run.RunBy, &run.Metadata,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}

	discrepancies, err := r.findDiscrepancies(ctx, runID)
	if err != nil {
		return nil, err
	}
	run.Discrepancies = discrepancies
	return &run, nil
}

func (r *PgxReconciliationRepository) ListRuns(ctx context.Context, ledgerID string, limit int) ([]domain.ReconciliationRun, error) {
	query := `
		SELECT run_id, ledger_id, scope, status, run_at, run_by, metadata
		FROM reconciliation_runs
		WHERE ledger_id = $1
		ORDER BY run_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.ReconciliationRun{}
	for rows.Next() {
		var run domain.ReconciliationRun
		if err := rows.Scan(&run.RunID, &run.LedgerID, &run.Scope, &run.Status, &run.RunAt, &run.RunBy, &run.Metadata); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation run rows: %w", err)
	}

	for i := range runs {
		discrepancies, err := r.findDiscrepancies(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Discrepancies = discrepancies
	}
	return runs, nil
}

func (r *PgxReconciliationRepository) findDiscrepancies(ctx context.Context, runID string) ([]domain.Discrepancy, error) {
	query := `
		SELECT discrepancy_id, run_id, scope, control_account_id,
			expected, actual, variance, severity, description, detected_at
		FROM reconciliation_discrepancies
		WHERE run_id = $1
		ORDER BY scope;
	`
	rows, err := r.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query discrepancies for run %s: %w", runID, err)
	}
	defer rows.Close()

	discrepancies := []domain.Discrepancy{}
	for rows.Next() {
		var d domain.Discrepancy
		if err := rows.Scan(
			&d.DiscrepancyID, &d.RunID, &d.Scope, &d.ControlAccountID,
			&d.Expected, &d.Actual, &d.Variance, &d.Severity, &d.Description, &d.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan discrepancy row: %w", err)
		}
		discrepancies = append(discrepancies, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discrepancy rows: %w", err)
	}
	return discrepancies, nil
}
