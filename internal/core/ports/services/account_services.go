package services

import (
	"context"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, ledgerID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, ledgerID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-deactivates an account so it stops accepting
	// new postings. Fails with ErrAccountInUse while non-reversed lines
	// reference it inside open or locked periods.
	DeactivateAccount(ctx context.Context, ledgerID, accountID, userID string) error
}
