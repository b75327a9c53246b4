package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
)

const entryColumns = `
	entry_id, ledger_id, entry_number, entry_date, posting_date, fiscal_period_id,
	description, source_type, source_document_id, status, posted_at, posted_by,
	reverses_entry_id, reversed_by_entry_id, metadata,
	created_at, created_by, last_updated_at, last_updated_by
`

const lineColumns = `
	line_id, entry_id, account_id, cost_center_id, side, amount, currency_code,
	exchange_rate, base_amount, memo,
	created_at, created_by, last_updated_at, last_updated_by
`

type PgxJournalRepository struct {
	BaseRepository
}

// NewJournalRepository creates a new repository for journal data.
func NewJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// nullIfEmpty maps "" to SQL NULL for optional text columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func scanEntry(row interface{ Scan(...any) error }) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var fiscalPeriodID, sourceDocumentID, postedBy *string
	err := row.Scan(
		&e.EntryID, &e.LedgerID, &e.EntryNumber, &e.EntryDate, &e.PostingDate, &fiscalPeriodID,
		&e.Description, &e.Source.Type, &sourceDocumentID, &e.Status, &e.PostedAt, &postedBy,
		&e.ReversesEntryID, &e.ReversedByEntryID, &e.Metadata,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	e.FiscalPeriodID = derefOrEmpty(fiscalPeriodID)
	e.Source.DocumentID = derefOrEmpty(sourceDocumentID)
	e.PostedBy = derefOrEmpty(postedBy)
	return &e, nil
}

func scanLine(row interface{ Scan(...any) error }) (*domain.JournalLine, error) {
	var l domain.JournalLine
	err := row.Scan(
		&l.LineID, &l.EntryID, &l.AccountID, &l.CostCenterID, &l.Side, &l.Amount, &l.CurrencyCode,
		&l.ExchangeRate, &l.BaseAmount, &l.Memo,
		&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ledger_id = $1 AND entry_id = $2;`
	e, err := scanEntry(r.Pool.QueryRow(ctx, query, ledgerID, entryID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return e, nil
}

func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY created_at, line_id;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return lines, nil
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE ledger_id = $1
		ORDER BY entry_number DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

func (r *PgxJournalRepository) AddLine(ctx context.Context, line domain.JournalLine) error {
	// Lines may only be appended while the owning entry is a draft.
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		WHERE EXISTS (
			SELECT 1 FROM journal_entries WHERE entry_id = $2 AND status = 'DRAFT'
		);
	`
	tag, err := r.Pool.Exec(ctx, query,
		line.LineID, line.EntryID, line.AccountID, line.CostCenterID, line.Side,
		line.Amount, line.CurrencyCode, line.ExchangeRate, line.BaseAmount, line.Memo,
		line.CreatedAt, line.CreatedBy, line.LastUpdatedAt, line.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert line for entry %s: %w", line.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not a draft", apperrors.ErrConflict, line.EntryID)
	}
	return nil
}

func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, tx pgx.Tx, ledgerID string) (int64, error) {
	// The counter row lock serializes number allocation per ledger for the
	// remainder of the posting transaction.
	query := `
		INSERT INTO entry_number_counters (ledger_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (ledger_id)
		DO UPDATE SET last_number = entry_number_counters.last_number + 1
		RETURNING last_number;
	`
	var number int64
	if err := tx.QueryRow(ctx, query, ledgerID).Scan(&number); err != nil {
		return 0, fmt.Errorf("failed to allocate entry number for ledger %s: %w", ledgerID, err)
	}
	return number, nil
}

func (r *PgxJournalRepository) InsertEntryWithLinesInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID, entry.LedgerID, entry.EntryNumber, entry.EntryDate, entry.PostingDate,
		nullIfEmpty(entry.FiscalPeriodID), entry.Description, entry.Source.Type,
		nullIfEmpty(entry.Source.DocumentID), entry.Status, entry.PostedAt, nullIfEmpty(entry.PostedBy),
		entry.ReversesEntryID, entry.ReversedByEntryID, entry.Metadata,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry number %d", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID, line.EntryID, line.AccountID, line.CostCenterID, line.Side,
			line.Amount, line.CurrencyCode, line.ExchangeRate, line.BaseAmount, line.Memo,
			line.CreatedAt, line.CreatedBy, line.LastUpdatedAt, line.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert lines for entry %s: %w", entry.EntryID, err)
		}
	}
	return nil
}

func (r *PgxJournalRepository) MarkPostedInTx(ctx context.Context, tx pgx.Tx, entryID, periodID, postedBy string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'POSTED', fiscal_period_id = $1, posted_at = $2, posted_by = $3,
			last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $4 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query, periodID, postedAt, postedBy, entryID)
	if err != nil {
		return fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not a draft", apperrors.ErrConflict, entryID)
	}
	return nil
}

func (r *PgxJournalRepository) MarkReversedInTx(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversed_by_entry_id = $1,
			last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $4 AND status = 'POSTED' AND reversed_by_entry_id IS NULL;
	`
	tag, err := tx.Exec(ctx, query, reversingEntryID, updatedAt, updatedBy, originalEntryID)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not reversible", apperrors.ErrConflict, originalEntryID)
	}
	return nil
}

func (r *PgxJournalRepository) FindEntryIDByKeyInTx(ctx context.Context, tx pgx.Tx, ledgerID, key string) (string, error) {
	query := `SELECT entry_id FROM posting_idempotency_keys WHERE ledger_id = $1 AND idempotency_key = $2;`
	var entryID string
	if err := tx.QueryRow(ctx, query, ledgerID, key).Scan(&entryID); err != nil {
		return "", mapNotFound(err)
	}
	return entryID, nil
}

func (r *PgxJournalRepository) RecordKeyInTx(ctx context.Context, tx pgx.Tx, ledgerID, key, entryID string) error {
	query := `
		INSERT INTO posting_idempotency_keys (ledger_id, idempotency_key, entry_id, created_at)
		VALUES ($1, $2, $3, NOW());
	`
	_, err := tx.Exec(ctx, query, ledgerID, key, entryID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: idempotency key %s", apperrors.ErrDuplicate, key)
		}
		return fmt.Errorf("failed to record idempotency key %s: %w", key, err)
	}
	return nil
}
