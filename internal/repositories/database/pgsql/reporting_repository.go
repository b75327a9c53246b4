package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// reportableEntries restricts reporting to posted entries that are neither
// reversed nor themselves reversals. A reversed original and its mirror
// cancel exactly, so excluding both keeps every report at its pre-reversal
// values without double counting.
const reportableEntries = `
	e.status = 'POSTED' AND e.reversed_by_entry_id IS NULL AND e.reverses_entry_id IS NULL
`

type PgxReportingRepository struct {
	BaseRepository
}

// NewReportingRepository creates a new repository for read-side reporting
// queries.
func NewReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, ledgerID string, asOf time.Time, accountIDs []string) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.base_amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN l.side = 'CREDIT' THEN l.base_amount ELSE 0 END), 0) AS total_credit
		FROM accounts a
		JOIN journal_lines l ON l.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE a.ledger_id = $1
		  AND e.posting_date <= $2
		  AND ` + reportableEntries + `
		  AND ($3::text[] IS NULL OR a.account_id = ANY($3))
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	var filter []string
	if len(accountIDs) > 0 {
		filter = accountIDs
	}
	rows, err := r.Pool.Query(ctx, query, ledgerID, asOf, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.Net = row.Debit.Sub(row.Credit)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

func (r *PgxReportingRepository) GetPLData(ctx context.Context, ledgerID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	// P&L accounts carry their natural sign: credit-positive for revenue,
	// debit-positive for expenses and COGS.
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			COALESCE(SUM(CASE
				WHEN a.account_type = 'REVENUE' THEN
					CASE WHEN l.side = 'CREDIT' THEN l.base_amount ELSE -l.base_amount END
				ELSE
					CASE WHEN l.side = 'DEBIT' THEN l.base_amount ELSE -l.base_amount END
			END), 0) AS net_amount
		FROM accounts a
		JOIN journal_lines l ON l.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE a.ledger_id = $1
		  AND a.account_type IN ('REVENUE', 'EXPENSE', 'COGS')
		  AND e.posting_date >= $2
		  AND e.posting_date <= $3
		  AND ` + reportableEntries + `
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID, from, to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to query profit and loss data: %w", err)
	}
	defer rows.Close()

	revenue := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}
	cogs := []domain.AccountAmount{}
	for rows.Next() {
		var amount domain.AccountAmount
		var accountType domain.AccountType
		if err := rows.Scan(&amount.AccountID, &amount.AccountCode, &amount.Name, &accountType, &amount.NetAmount); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to scan profit and loss row: %w", err)
		}
		switch accountType {
		case domain.Revenue:
			revenue = append(revenue, amount)
		case domain.Expense:
			expenses = append(expenses, amount)
		case domain.CostOfGoods:
			cogs = append(cogs, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating profit and loss rows: %w", err)
	}
	return revenue, expenses, cogs, nil
}

func (r *PgxReportingRepository) GetCashData(ctx context.Context, ledgerID string, asOf time.Time) ([]domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.base_amount ELSE -l.base_amount END), 0) AS net_amount
		FROM accounts a
		JOIN journal_lines l ON l.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE a.ledger_id = $1
		  AND a.is_cash = TRUE
		  AND e.posting_date <= $2
		  AND ` + reportableEntries + `
		GROUP BY a.account_id, a.code, a.name
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash data: %w", err)
	}
	defer rows.Close()

	accounts := []domain.AccountAmount{}
	for rows.Next() {
		var amount domain.AccountAmount
		if err := rows.Scan(&amount.AccountID, &amount.AccountCode, &amount.Name, &amount.NetAmount); err != nil {
			return nil, fmt.Errorf("failed to scan cash row: %w", err)
		}
		accounts = append(accounts, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxReportingRepository) GetControlBalance(ctx context.Context, ledgerID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.base_amount ELSE -l.base_amount END), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.ledger_id = $1
		  AND l.account_id = $2
		  AND e.posting_date <= $3
		  AND ` + reportableEntries + `;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, ledgerID, accountID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to query control balance for account %s: %w", accountID, err)
	}
	return balance, nil
}
