package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	FindEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error)
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries returns entries for a ledger ordered by entry number,
	// newest first, with limit/offset pagination.
	ListEntries(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal data. Posted entries
// are immutable: there is deliberately no delete and no general update.
type JournalWriter interface {
	// AddLine appends a line to a draft entry.
	AddLine(ctx context.Context, line domain.JournalLine) error

	// NextEntryNumber allocates the next per-ledger entry number inside
	// the caller's transaction.
	NextEntryNumber(ctx context.Context, tx pgx.Tx, ledgerID string) (int64, error)

	// InsertEntryWithLinesInTx writes an entry header and its lines inside
	// the caller's transaction. Drafts pass nil lines.
	InsertEntryWithLinesInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error

	// MarkPostedInTx flips a draft entry to POSTED, stamping actor,
	// timestamp and the resolved fiscal period. Fails with
	// apperrors.ErrConflict if the entry is not in DRAFT status.
	MarkPostedInTx(ctx context.Context, tx pgx.Tx, entryID, periodID, postedBy string, postedAt time.Time) error

	// MarkReversedInTx links an original entry to its mirror and flips the
	// original to REVERSED inside the caller's transaction.
	MarkReversedInTx(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID, updatedBy string, updatedAt time.Time) error
}

// IdempotencyStore maps caller-supplied idempotency keys to entry IDs so
// retried postings are applied at most once.
type IdempotencyStore interface {
	// FindEntryIDByKeyInTx returns the entry a key already produced, or
	// apperrors.ErrNotFound.
	FindEntryIDByKeyInTx(ctx context.Context, tx pgx.Tx, ledgerID, key string) (string, error)

	// RecordKeyInTx durably records key -> entryID as part of the posting
	// transaction. A unique violation surfaces as apperrors.ErrDuplicate.
	RecordKeyInTx(ctx context.Context, tx pgx.Tx, ledgerID, key, entryID string) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	IdempotencyStore
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction
// capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
