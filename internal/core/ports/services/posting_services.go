package services

import (
	"context"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// PostingSvcFacade is the posting coordinator: the only entry point that
// creates journal entries, and the only component allowed to flip a
// subledger document into a posted state.
type PostingSvcFacade interface {
	// PostTransaction runs one atomic posting: period gate check, entry +
	// lines insert, balance validation, optional producer mutation, and
	// the idempotency record, all inside a single database transaction.
	// A key that was already processed returns the prior entry id without
	// re-executing anything.
	PostTransaction(ctx context.Context, ledgerID, idempotencyKey string, header dto.EntryHeader, lines []dto.LineSpec, onCommit ProducerMutation, userID string) (string, error)

	// ReverseEntry creates the mirror entry for a posted entry, links both
	// ways and flips the original to REVERSED. The mirror's posting date
	// is still subject to the fiscal period gate. onCommit, when non-nil,
	// runs inside the same transaction (used by void flows).
	ReverseEntry(ctx context.Context, ledgerID, entryID string, req dto.ReverseEntryRequest, onCommit ProducerMutation, userID string) (string, error)

	GetEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalEntry, error)

	// Draft surface for callers that assemble entries incrementally.
	CreateDraftEntry(ctx context.Context, ledgerID string, header dto.EntryHeader, userID string) (string, error)
	AddLine(ctx context.Context, ledgerID, entryID string, line dto.LineSpec, userID string) (string, error)
	PostEntry(ctx context.Context, ledgerID, entryID, userID string) error
}
