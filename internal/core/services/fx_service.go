package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/openbooks/ledger_engine/internal/middleware"
	"github.com/openbooks/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// FxService is the currency normalizer. The rate resolved here is frozen
// into the journal line at posting time; later rate corrections never
// change historical base amounts.
type FxService struct {
	rateRepo   portsrepo.ExchangeRateRepositoryFacade
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewFxService creates a new FxService.
func NewFxService(rr portsrepo.ExchangeRateRepositoryFacade, lr portsrepo.LedgerRepositoryFacade) portssvc.FxSvcFacade {
	return &FxService{rateRepo: rr, ledgerRepo: lr}
}

var _ portssvc.FxSvcFacade = (*FxService)(nil)

// Normalize converts amount from currencyCode into the ledger base currency
// using the rate effective at asOf, rounding half-even to 2 places.
func (s *FxService) Normalize(ctx context.Context, ledgerID string, amount decimal.Decimal, currencyCode string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to load ledger %s: %w", ledgerID, err)
	}

	code := strings.ToUpper(currencyCode)
	if code == ledger.BaseCurrencyCode {
		one := decimal.NewFromInt(1)
		return one, accounting.NormalizeBase(amount, one), nil
	}

	rate, err := s.rateRepo.FindRateEffective(ctx, ledgerID, code, ledger.BaseCurrencyCode, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s -> %s on %s",
				ErrNoRateFound, code, ledger.BaseCurrencyCode, asOf.Format(time.DateOnly))
		}
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to resolve exchange rate: %w", err)
	}

	return rate.Rate, accounting.NormalizeBase(amount, rate.Rate), nil
}

// CreateExchangeRate appends a new rate into the ledger base currency.
// Corrections are new rows with a later effective date.
func (s *FxService) CreateExchangeRate(ctx context.Context, ledgerID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %s: %w", ledgerID, err)
	}

	from := strings.ToUpper(req.FromCurrencyCode)
	if from == ledger.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: %s is the base currency", apperrors.ErrValidation, from)
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		LedgerID:         ledgerID,
		FromCurrencyCode: from,
		ToCurrencyCode:   ledger.BaseCurrencyCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		logger.Error("Failed to save exchange rate", slog.String("error", err.Error()), slog.String("pair", from+"/"+ledger.BaseCurrencyCode))
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	logger.Info("Exchange rate created",
		slog.String("pair", from+"/"+ledger.BaseCurrencyCode),
		slog.String("rate", req.Rate.String()),
		slog.String("effective", req.DateEffective.Format(time.DateOnly)))
	return &rate, nil
}

// ListRates retrieves the rate history of a ledger.
func (s *FxService) ListRates(ctx context.Context, ledgerID string) ([]domain.ExchangeRate, error) {
	return s.rateRepo.ListRates(ctx, ledgerID)
}
