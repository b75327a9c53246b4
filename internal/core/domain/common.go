package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// Ledger is the top-level book all accounts, periods and entries belong to.
// BaseCurrencyCode is the currency every journal line is normalized into.
type Ledger struct {
	LedgerID         string `json:"ledgerID"` // Primary Key (UUID)
	Name             string `json:"name"`
	BaseCurrencyCode string `json:"baseCurrencyCode"` // ISO-4217, immutable after creation
	AuditFields
}
