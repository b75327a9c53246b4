package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/openbooks/ledger_engine/internal/middleware"
)

// AccountService handles business logic for the chart of accounts.
type AccountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(ar portsrepo.AccountRepositoryFacade, lr portsrepo.LedgerRepositoryFacade) portssvc.AccountSvcFacade {
	return &AccountService{accountRepo: ar, ledgerRepo: lr}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// CreateAccount creates a new account in the ledger's chart of accounts.
func (s *AccountService) CreateAccount(ctx context.Context, ledgerID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if _, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger %s not found", apperrors.ErrValidation, ledgerID)
		}
		return nil, fmt.Errorf("failed to validate ledger: %w", err)
	}

	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, ledgerID, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to validate parent account: %w", err)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, req.AccountType)
		}
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, ledgerID, req.Code); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code uniqueness: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	}

	// At most one control account per role per ledger.
	if req.ControlRole != domain.ControlNone {
		existing, err := s.accountRepo.FindControlAccount(ctx, ledgerID, req.ControlRole)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check control account uniqueness: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: ledger already has a %s control account (%s)", apperrors.ErrDuplicate, req.ControlRole, existing.Code)
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		LedgerID:        ledgerID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsCash:          req.IsCash,
		ControlRole:     req.ControlRole,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code), slog.String("type", string(account.AccountType)))
	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *AccountService) GetAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, ledgerID, accountID)
}

// ListAccounts retrieves the full chart of accounts for a ledger.
func (s *AccountService) ListAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, ledgerID)
}

// UpdateAccount updates the mutable fields of an account. The account type
// and code stay fixed; the type of an account with posted history is part
// of that history.
func (s *AccountService) UpdateAccount(ctx context.Context, ledgerID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, ledgerID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount soft-deactivates an account so it stops accepting new
// postings. Accounts referenced by history are never hard-deleted.
func (s *AccountService) DeactivateAccount(ctx context.Context, ledgerID, accountID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, ledgerID, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil // Already deactivated
	}

	refs, err := s.accountRepo.CountOpenPeriodReferences(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check account references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d posted lines in open periods", ErrAccountInUse, refs)
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
