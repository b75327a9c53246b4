package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one conversion rate effective from a given date.
// Rates are append-only: a correction is a new row with a later effective
// date, never an update of an existing one.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (UUID)
	LedgerID         string          `json:"ledgerID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"` // The ledger base currency
	Rate             decimal.Decimal `json:"rate"`           // Positive
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
