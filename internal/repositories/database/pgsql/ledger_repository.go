package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// NewLedgerRepository creates a new repository for ledger data.
func NewLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	query := `
		INSERT INTO ledgers (ledger_id, name, base_currency_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		ledger.LedgerID,
		ledger.Name,
		ledger.BaseCurrencyCode,
		ledger.CreatedAt,
		ledger.CreatedBy,
		ledger.LastUpdatedAt,
		ledger.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ledger %s", apperrors.ErrDuplicate, ledger.Name)
		}
		return fmt.Errorf("failed to insert ledger %s: %w", ledger.LedgerID, err)
	}
	return nil
}

func (r *PgxLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	query := `
		SELECT ledger_id, name, base_currency_code, created_at, created_by, last_updated_at, last_updated_by
		FROM ledgers
		WHERE ledger_id = $1;
	`
	var l domain.Ledger
	err := r.Pool.QueryRow(ctx, query, ledgerID).Scan(
		&l.LedgerID, &l.Name, &l.BaseCurrencyCode,
		&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &l, nil
}

func (r *PgxLedgerRepository) ListLedgers(ctx context.Context) ([]domain.Ledger, error) {
	query := `
		SELECT ledger_id, name, base_currency_code, created_at, created_by, last_updated_at, last_updated_by
		FROM ledgers
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers: %w", err)
	}
	defer rows.Close()

	ledgers := []domain.Ledger{}
	for rows.Next() {
		var l domain.Ledger
		if err := rows.Scan(
			&l.LedgerID, &l.Name, &l.BaseCurrencyCode,
			&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return ledgers, nil
}
