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
)

const periodColumns = `
	period_id, ledger_id, year, sequence, start_date, end_date, status,
	created_at, created_by, last_updated_at, last_updated_by
`

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

// NewFiscalPeriodRepository creates a new repository for fiscal period data.
func NewFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepositoryFacade {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

func scanPeriod(row interface{ Scan(...any) error }) (*domain.FiscalPeriod, error) {
	var p domain.FiscalPeriod
	err := row.Scan(
		&p.PeriodID, &p.LedgerID, &p.Year, &p.Sequence, &p.StartDate, &p.EndDate, &p.Status,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		INSERT INTO fiscal_periods (
			period_id, ledger_id, year, sequence, start_date, end_date, status,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID, period.LedgerID, period.Year, period.Sequence,
		period.StartDate, period.EndDate, period.Status,
		period.CreatedAt, period.CreatedBy, period.LastUpdatedAt, period.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: period %d/%d", apperrors.ErrDuplicate, period.Year, period.Sequence)
		}
		return fmt.Errorf("failed to insert fiscal period %s: %w", period.PeriodID, err)
	}
	return nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE ledger_id = $1 AND period_id = $2;`
	p, err := scanPeriod(r.Pool.QueryRow(ctx, query, ledgerID, periodID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context, ledgerID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE ledger_id = $1 ORDER BY year, sequence;`
	rows, err := r.Pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows: %w", err)
	}
	return periods, nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodForDateForUpdate(ctx context.Context, tx pgx.Tx, ledgerID string, postingDate time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE ledger_id = $1 AND start_date <= $2 AND end_date >= $2
		FOR UPDATE;
	`
	p, err := scanPeriod(tx.QueryRow(ctx, query, ledgerID, postingDate))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE ledger_id = $1 AND period_id = $2 FOR UPDATE;`
	p, err := scanPeriod(tx.QueryRow(ctx, query, ledgerID, periodID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PgxFiscalPeriodRepository) UpdatePeriodStatusInTx(ctx context.Context, tx pgx.Tx, periodID string, status domain.PeriodStatus, event domain.PeriodAuditEvent) error {
	updateQuery := `
		UPDATE fiscal_periods
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $4;
	`
	tag, err := tx.Exec(ctx, updateQuery, status, event.ChangedAt, event.ChangedBy, periodID)
	if err != nil {
		return fmt.Errorf("failed to update status of period %s: %w", periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	auditQuery := `
		INSERT INTO fiscal_period_audit_events (event_id, period_id, from_status, to_status, reason, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, auditQuery,
		event.EventID, event.PeriodID, event.FromStatus, event.ToStatus,
		event.Reason, event.ChangedBy, event.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert period audit event for %s: %w", periodID, err)
	}
	return nil
}

func (r *PgxFiscalPeriodRepository) ListAuditEvents(ctx context.Context, periodID string) ([]domain.PeriodAuditEvent, error) {
	query := `
		SELECT event_id, period_id, from_status, to_status, reason, changed_by, changed_at
		FROM fiscal_period_audit_events
		WHERE period_id = $1
		ORDER BY changed_at;
	`
	rows, err := r.Pool.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query period audit events: %w", err)
	}
	defer rows.Close()

	events := []domain.PeriodAuditEvent{}
	for rows.Next() {
		var e domain.PeriodAuditEvent
		if err := rows.Scan(&e.EventID, &e.PeriodID, &e.FromStatus, &e.ToStatus, &e.Reason, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan period audit event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period audit event rows: %w", err)
	}
	return events, nil
}
