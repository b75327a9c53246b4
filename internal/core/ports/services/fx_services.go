package services

import (
	"context"
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// FxSvcFacade is the currency normalizer: it freezes a conversion rate at
// posting time and computes the fixed-precision base-currency amount.
type FxSvcFacade interface {
	// Normalize converts amount from currencyCode to the ledger base
	// currency using the rate effective at asOf. The returned baseAmount
	// is rounded half-even to 2 places at the line level.
	Normalize(ctx context.Context, ledgerID string, amount decimal.Decimal, currencyCode string, asOf time.Time) (rate decimal.Decimal, baseAmount decimal.Decimal, err error)

	CreateExchangeRate(ctx context.Context, ledgerID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
	ListRates(ctx context.Context, ledgerID string) ([]domain.ExchangeRate, error)
}
