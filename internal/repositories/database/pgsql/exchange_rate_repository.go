package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
)

const exchangeRateColumns = `
	exchange_rate_id, ledger_id, from_currency_code, to_currency_code, rate, date_effective,
	created_at, created_by, last_updated_at, last_updated_by
`

type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewExchangeRateRepository creates a new repository for exchange rate data.
func NewExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		rate.ExchangeRateID, rate.LedgerID, rate.FromCurrencyCode, rate.ToCurrencyCode,
		rate.Rate, rate.DateEffective,
		rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert exchange rate %s: %w", rate.ExchangeRateID, err)
	}
	return nil
}

func (r *PgxExchangeRateRepository) FindRateEffective(ctx context.Context, ledgerID, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	// Latest effective rate wins; ties on date_effective break on insertion
	// order so later corrections shadow earlier rows.
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE ledger_id = $1 AND from_currency_code = $2 AND to_currency_code = $3 AND date_effective <= $4
		ORDER BY date_effective DESC, created_at DESC
		LIMIT 1;
	`
	var er domain.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, ledgerID, fromCode, toCode, asOf).Scan(
		&er.ExchangeRateID, &er.LedgerID, &er.FromCurrencyCode, &er.ToCurrencyCode,
		&er.Rate, &er.DateEffective,
		&er.CreatedAt, &er.CreatedBy, &er.LastUpdatedAt, &er.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &er, nil
}

func (r *PgxExchangeRateRepository) ListRates(ctx context.Context, ledgerID string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE ledger_id = $1
		ORDER BY from_currency_code, to_currency_code, date_effective DESC;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		var er domain.ExchangeRate
		if err := rows.Scan(
			&er.ExchangeRateID, &er.LedgerID, &er.FromCurrencyCode, &er.ToCurrencyCode,
			&er.Rate, &er.DateEffective,
			&er.CreatedAt, &er.CreatedBy, &er.LastUpdatedAt, &er.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		rates = append(rates, er)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", err)
	}
	return rates, nil
}
