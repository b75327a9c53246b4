package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
)

const accountColumns = `
	account_id, ledger_id, code, name, account_type, parent_account_id,
	description, is_cash, control_role, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for chart-of-accounts data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID, &a.LedgerID, &a.Code, &a.Name, &a.AccountType, &a.ParentAccountID,
		&a.Description, &a.IsCash, &a.ControlRole, &a.IsActive,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (
			account_id, ledger_id, code, name, account_type, parent_account_id,
			description, is_cash, control_role, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID, account.LedgerID, account.Code, account.Name,
		account.AccountType, account.ParentAccountID, account.Description,
		account.IsCash, account.ControlRole, account.IsActive,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to insert account %s: %w", account.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, description = $2, is_cash = $3, control_role = $4,
			parent_account_id = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE account_id = $9 AND ledger_id = $10;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.Name, account.Description, account.IsCash, account.ControlRole,
		account.ParentAccountID, account.IsActive,
		account.LastUpdatedAt, account.LastUpdatedBy,
		account.AccountID, account.LedgerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: control role %s", apperrors.ErrDuplicate, account.ControlRole)
		}
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 AND account_id = $2;`
	a, err := scanAccount(r.Pool.QueryRow(ctx, query, ledgerID, accountID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, ledgerID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 AND code = $2;`
	a, err := scanAccount(r.Pool.QueryRow(ctx, query, ledgerID, code))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (r *PgxAccountRepository) FindControlAccount(ctx context.Context, ledgerID string, role domain.ControlRole) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 AND control_role = $2 AND is_active = TRUE;`
	a, err := scanAccount(r.Pool.QueryRow(ctx, query, ledgerID, role))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, ledgerID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 AND account_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, ledgerID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[a.AccountID] = *a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ledger_id = $1 ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) CountOpenPeriodReferences(ctx context.Context, accountID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN fiscal_periods p ON p.period_id = e.fiscal_period_id
		WHERE l.account_id = $1
		  AND e.status = 'POSTED'
		  AND p.status IN ('OPEN', 'LOCKED');
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open-period references for account %s: %w", accountID, err)
	}
	return count, nil
}
