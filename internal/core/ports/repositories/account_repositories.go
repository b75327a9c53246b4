package repositories

import (
	"context"

	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	FindAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs returns the requested accounts keyed by ID; a
	// missing ID is simply absent from the map.
	FindAccountsByIDs(ctx context.Context, ledgerID string, accountIDs []string) (map[string]domain.Account, error)

	FindAccountByCode(ctx context.Context, ledgerID, code string) (*domain.Account, error)

	// FindControlAccount resolves the single AR or AP control account of a
	// ledger.
	FindControlAccount(ctx context.Context, ledgerID string, role domain.ControlRole) (*domain.Account, error)

	ListAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error)

	// CountOpenPeriodReferences counts non-reversed posted lines that
	// reference the account inside open or locked periods. Used by the
	// deactivation guard.
	CountOpenPeriodReferences(ctx context.Context, accountID string) (int64, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount persists name, description, flags and the active
	// state. Account type and code are never updated here.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
