package repositories

import (
	"context"
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// ExchangeRateRepositoryFacade persists append-only exchange rates.
type ExchangeRateRepositoryFacade interface {
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// FindRateEffective returns the latest rate for the pair effective on
	// or before asOf, or apperrors.ErrNotFound.
	FindRateEffective(ctx context.Context, ledgerID, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error)

	ListRates(ctx context.Context, ledgerID string) ([]domain.ExchangeRate, error)
}
