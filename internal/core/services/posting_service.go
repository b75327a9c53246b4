package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/openbooks/ledger_engine/internal/middleware"
	"github.com/openbooks/ledger_engine/internal/utils/accounting"
)

// PostingService is the posting coordinator: the single write path into the
// journal. It validates the double-entry invariant, consults the fiscal
// period gate, freezes exchange rates, and commits the entry, any producer
// mutation and the idempotency record in one database transaction.
type PostingService struct {
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountReader
	periodSvc   portssvc.FiscalPeriodSvcFacade
	fxSvc       portssvc.FxSvcFacade
}

// NewPostingService creates a new PostingService.
func NewPostingService(jr portsrepo.JournalRepositoryWithTx, ar portsrepo.AccountReader, ps portssvc.FiscalPeriodSvcFacade, fx portssvc.FxSvcFacade) portssvc.PostingSvcFacade {
	return &PostingService{
		journalRepo: jr,
		accountRepo: ar,
		periodSvc:   ps,
		fxSvc:       fx,
	}
}

var _ portssvc.PostingSvcFacade = (*PostingService)(nil)

// buildLines validates the referenced accounts and converts line specs into
// domain lines with the exchange rate frozen as of postingDate.
func (s *PostingService) buildLines(ctx context.Context, ledgerID, entryID string, specs []dto.LineSpec, postingDate time.Time, userID string, now time.Time) ([]domain.JournalLine, error) {
	accountIDs := make([]string, 0, len(specs))
	for _, spec := range specs {
		accountIDs = append(accountIDs, spec.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ledgerID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	lines := make([]domain.JournalLine, 0, len(specs))
	for _, spec := range specs {
		account, ok := accounts[spec.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, spec.AccountID)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s", ErrAccountInactive, account.Code)
		}

		rate, baseAmount, err := s.fxSvc.Normalize(ctx, ledgerID, spec.Amount, spec.CurrencyCode, postingDate)
		if err != nil {
			return nil, err
		}

		lines = append(lines, domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    spec.AccountID,
			CostCenterID: spec.CostCenterID,
			Side:         spec.Side,
			Amount:       spec.Amount,
			CurrencyCode: spec.CurrencyCode,
			ExchangeRate: rate,
			BaseAmount:   baseAmount,
			Memo:         spec.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}
	return lines, nil
}

// PostTransaction runs one atomic posting. A previously processed
// idempotency key short-circuits to the prior entry id without touching
// anything.
func (s *PostingService) PostTransaction(ctx context.Context, ledgerID, idempotencyKey string, header dto.EntryHeader, specs []dto.LineSpec, onCommit portssvc.ProducerMutation, userID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	entryID := uuid.NewString()

	var lines []domain.JournalLine
	resultEntryID := entryID
	err := s.journalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		// The key check comes first: a replayed posting must short-circuit
		// before any validation that could newly fail, e.g. an account
		// deactivated since the original commit.
		if idempotencyKey != "" {
			existingID, err := s.journalRepo.FindEntryIDByKeyInTx(ctx, tx, ledgerID, idempotencyKey)
			if err == nil {
				logger.Info("Idempotency key already processed, returning prior entry",
					slog.String("idempotency_key", idempotencyKey),
					slog.String("entry_id", existingID))
				resultEntryID = existingID
				return nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to check idempotency key: %w", err)
			}
		}

		var err error
		lines, err = s.buildLines(ctx, ledgerID, entryID, specs, header.PostingDate, userID, now)
		if err != nil {
			return err
		}
		if err := accounting.ValidateEntryBalance(lines); err != nil {
			return fmt.Errorf("%w: %v", ErrUnbalanced, err)
		}

		periodID, err := s.periodSvc.CheckWritable(ctx, tx, ledgerID, header.PostingDate)
		if err != nil {
			return err
		}

		entryNumber, err := s.journalRepo.NextEntryNumber(ctx, tx, ledgerID)
		if err != nil {
			return err
		}

		source := header.Source
		if source.Type == "" {
			source.Type = domain.SourceManual
		}

		entry := domain.JournalEntry{
			EntryID:        entryID,
			LedgerID:       ledgerID,
			EntryNumber:    entryNumber,
			EntryDate:      header.EntryDate,
			PostingDate:    header.PostingDate,
			FiscalPeriodID: periodID,
			Description:    header.Description,
			Source:         source,
			Status:         domain.EntryPosted,
			PostedAt:       &now,
			PostedBy:       userID,
			Metadata:       header.Metadata,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.journalRepo.InsertEntryWithLinesInTx(ctx, tx, entry, lines); err != nil {
			return err
		}

		if onCommit != nil {
			if err := onCommit(ctx, tx, entryID); err != nil {
				return fmt.Errorf("producer mutation failed: %w", err)
			}
		}

		if idempotencyKey != "" {
			if err := s.journalRepo.RecordKeyInTx(ctx, tx, ledgerID, idempotencyKey, entryID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Two requests can race the same key: the loser's key insert hits
		// the unique index after the winner commits. The committed entry is
		// the outcome the retry asked for, so return it.
		if idempotencyKey != "" && errors.Is(err, apperrors.ErrDuplicate) {
			var winnerID string
			lookupErr := s.journalRepo.WithTx(ctx, func(tx pgx.Tx) error {
				id, err := s.journalRepo.FindEntryIDByKeyInTx(ctx, tx, ledgerID, idempotencyKey)
				if err != nil {
					return err
				}
				winnerID = id
				return nil
			})
			if lookupErr == nil {
				logger.Info("Lost idempotency key race, returning winner's entry",
					slog.String("idempotency_key", idempotencyKey),
					slog.String("entry_id", winnerID))
				return winnerID, nil
			}
		}
		logger.Error("Posting failed", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		return "", err
	}

	if resultEntryID == entryID {
		logger.Info("Entry posted",
			slog.String("entry_id", entryID),
			slog.String("ledger_id", ledgerID),
			slog.Int("lines", len(lines)))
	}
	return resultEntryID, nil
}

// ReverseEntry creates the mirror entry for a posted entry, links both ways
// and flips the original to REVERSED, all in one transaction. The mirror's
// posting date is still subject to the period gate, so reversing into a
// closed period is rejected.
func (s *PostingService) ReverseEntry(ctx context.Context, ledgerID, entryID string, req dto.ReverseEntryRequest, onCommit portssvc.ProducerMutation, userID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindEntryByID(ctx, ledgerID, entryID)
	if err != nil {
		return "", err
	}
	switch {
	case original.Status == domain.EntryDraft:
		return "", fmt.Errorf("%w: entry %d is a draft", ErrNotPosted, original.EntryNumber)
	case original.Status == domain.EntryReversed || original.ReversedByEntryID != nil:
		return "", fmt.Errorf("%w: entry %d", ErrAlreadyReversed, original.EntryNumber)
	case original.IsReversal():
		return "", fmt.Errorf("%w: entry %d is itself a reversal", apperrors.ErrConflict, original.EntryNumber)
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	postingDate := now
	if req.PostingDate != nil {
		postingDate = *req.PostingDate
	}

	reversalID := uuid.NewString()
	mirrorLines := make([]domain.JournalLine, 0, len(originalLines))
	for _, line := range originalLines {
		// Amounts, currencies and frozen rates carry over untouched; only
		// the side flips, so the mirror cancels the original exactly.
		mirrorLines = append(mirrorLines, domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      reversalID,
			AccountID:    line.AccountID,
			CostCenterID: line.CostCenterID,
			Side:         line.Side.Opposite(),
			Amount:       line.Amount,
			CurrencyCode: line.CurrencyCode,
			ExchangeRate: line.ExchangeRate,
			BaseAmount:   line.BaseAmount,
			Memo:         line.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	err = s.journalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		periodID, err := s.periodSvc.CheckWritable(ctx, tx, ledgerID, postingDate)
		if err != nil {
			return err
		}

		entryNumber, err := s.journalRepo.NextEntryNumber(ctx, tx, ledgerID)
		if err != nil {
			return err
		}

		originalID := original.EntryID
		reversal := domain.JournalEntry{
			EntryID:         reversalID,
			LedgerID:        ledgerID,
			EntryNumber:     entryNumber,
			EntryDate:       now,
			PostingDate:     postingDate,
			FiscalPeriodID:  periodID,
			Description:     fmt.Sprintf("Reversal of entry %d: %s", original.EntryNumber, req.Reason),
			Source:          original.Source,
			Status:          domain.EntryPosted,
			PostedAt:        &now,
			PostedBy:        userID,
			ReversesEntryID: &originalID,
			Metadata:        map[string]string{"reason": req.Reason},
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.journalRepo.InsertEntryWithLinesInTx(ctx, tx, reversal, mirrorLines); err != nil {
			return err
		}
		if err := s.journalRepo.MarkReversedInTx(ctx, tx, originalID, reversalID, userID, now); err != nil {
			return err
		}

		if onCommit != nil {
			if err := onCommit(ctx, tx, reversalID); err != nil {
				return fmt.Errorf("producer mutation failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Reversal failed", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return "", err
	}

	logger.Info("Entry reversed",
		slog.String("original_entry_id", entryID),
		slog.String("reversal_entry_id", reversalID))
	return reversalID, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *PostingService) GetEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, ledgerID, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves entries for a ledger, newest first.
func (s *PostingService) ListEntries(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.journalRepo.ListEntries(ctx, ledgerID, limit, offset)
}

// CreateDraftEntry persists an entry header in DRAFT status for callers
// that assemble entries incrementally.
func (s *PostingService) CreateDraftEntry(ctx context.Context, ledgerID string, header dto.EntryHeader, userID string) (string, error) {
	now := time.Now()
	entryID := uuid.NewString()

	source := header.Source
	if source.Type == "" {
		source.Type = domain.SourceManual
	}

	// Number allocation and the draft insert commit together, so a failed
	// insert never leaves a gap in the entry number sequence.
	err := s.journalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		entryNumber, err := s.journalRepo.NextEntryNumber(ctx, tx, ledgerID)
		if err != nil {
			return err
		}

		entry := domain.JournalEntry{
			EntryID:     entryID,
			LedgerID:    ledgerID,
			EntryNumber: entryNumber,
			EntryDate:   header.EntryDate,
			PostingDate: header.PostingDate,
			Description: header.Description,
			Source:      source,
			Status:      domain.EntryDraft,
			Metadata:    header.Metadata,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		return s.journalRepo.InsertEntryWithLinesInTx(ctx, tx, entry, nil)
	})
	if err != nil {
		return "", err
	}
	return entryID, nil
}

// AddLine appends a line to a draft entry. The exchange rate is frozen
// against the draft's posting date; posting later revalidates the balance
// but never recomputes the stored base amounts.
func (s *PostingService) AddLine(ctx context.Context, ledgerID, entryID string, spec dto.LineSpec, userID string) (string, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, ledgerID, entryID)
	if err != nil {
		return "", err
	}
	if entry.Status != domain.EntryDraft {
		return "", fmt.Errorf("%w: entry %d is %s", apperrors.ErrConflict, entry.EntryNumber, entry.Status)
	}

	now := time.Now()
	lines, err := s.buildLines(ctx, ledgerID, entryID, []dto.LineSpec{spec}, entry.PostingDate, userID, now)
	if err != nil {
		return "", err
	}
	if err := s.journalRepo.AddLine(ctx, lines[0]); err != nil {
		return "", err
	}
	return lines[0].LineID, nil
}

// PostEntry validates and posts a previously assembled draft.
func (s *PostingService) PostEntry(ctx context.Context, ledgerID, entryID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, ledgerID, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.EntryDraft {
		return fmt.Errorf("%w: entry %d is %s", apperrors.ErrConflict, entry.EntryNumber, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return err
	}
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return fmt.Errorf("%w: %v", ErrUnbalanced, err)
	}

	now := time.Now()
	err = s.journalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		periodID, err := s.periodSvc.CheckWritable(ctx, tx, ledgerID, entry.PostingDate)
		if err != nil {
			return err
		}
		return s.journalRepo.MarkPostedInTx(ctx, tx, entryID, periodID, userID, now)
	})
	if err != nil {
		logger.Error("Draft posting failed", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return err
	}

	logger.Info("Draft entry posted", slog.String("entry_id", entryID))
	return nil
}
