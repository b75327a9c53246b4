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
)

// FiscalPeriodService is the period gate: it owns the period lifecycle and
// the writability check every posting consults.
type FiscalPeriodService struct {
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
	txm        portsrepo.TransactionManager
}

// NewFiscalPeriodService creates a new FiscalPeriodService.
func NewFiscalPeriodService(pr portsrepo.FiscalPeriodRepositoryFacade, txm portsrepo.TransactionManager) portssvc.FiscalPeriodSvcFacade {
	return &FiscalPeriodService{periodRepo: pr, txm: txm}
}

var _ portssvc.FiscalPeriodSvcFacade = (*FiscalPeriodService)(nil)

// CreatePeriod creates a fiscal period. Periods of a ledger must stay
// contiguous and non-overlapping, so a new period must start exactly one
// day after the latest existing one.
func (s *FiscalPeriodService) CreatePeriod(ctx context.Context, ledgerID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	start := truncateToDay(req.StartDate)
	end := truncateToDay(req.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", apperrors.ErrValidation, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	existing, err := s.periodRepo.ListPeriods(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing periods: %w", err)
	}
	if len(existing) > 0 {
		var latestEnd time.Time
		for _, p := range existing {
			pEnd := truncateToDay(p.EndDate)
			if pEnd.After(latestEnd) {
				latestEnd = pEnd
			}
			if !start.After(pEnd) && !end.Before(truncateToDay(p.StartDate)) {
				return nil, fmt.Errorf("%w: period overlaps %d/%d", apperrors.ErrValidation, p.Year, p.Sequence)
			}
		}
		if !start.Equal(latestEnd.AddDate(0, 0, 1)) {
			return nil, fmt.Errorf("%w: period must start the day after %s", apperrors.ErrValidation, latestEnd.Format(time.DateOnly))
		}
	}

	now := time.Now()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		LedgerID:  ledgerID,
		Year:      req.Year,
		Sequence:  req.Sequence,
		StartDate: start,
		EndDate:   end,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save fiscal period", slog.String("error", err.Error()), slog.Int("year", req.Year), slog.Int("sequence", req.Sequence))
		return nil, fmt.Errorf("failed to create fiscal period: %w", err)
	}

	logger.Info("Fiscal period created", slog.String("period_id", period.PeriodID), slog.Int("year", period.Year), slog.Int("sequence", period.Sequence))
	return &period, nil
}

// GetPeriodByID retrieves a single fiscal period.
func (s *FiscalPeriodService) GetPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.FiscalPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, ledgerID, periodID)
}

// ListPeriods retrieves all fiscal periods of a ledger.
func (s *FiscalPeriodService) ListPeriods(ctx context.Context, ledgerID string) ([]domain.FiscalPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, ledgerID)
}

// ClosePeriod transitions an open period to CLOSED.
func (s *FiscalPeriodService) ClosePeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, ledgerID, periodID, userID, domain.PeriodClosed, "period closed",
		func(from domain.PeriodStatus) error {
			if from != domain.PeriodOpen {
				return fmt.Errorf("%w: cannot close a %s period", apperrors.ErrConflict, from)
			}
			return nil
		})
}

// LockPeriod transitions a closed period to LOCKED. Locked periods are
// never written again except through an audited reopen.
func (s *FiscalPeriodService) LockPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, ledgerID, periodID, userID, domain.PeriodLocked, "period locked",
		func(from domain.PeriodStatus) error {
			if from != domain.PeriodClosed {
				return fmt.Errorf("%w: cannot lock a %s period", apperrors.ErrConflict, from)
			}
			return nil
		})
}

// ReopenPeriod transitions a closed or locked period back to OPEN. The
// justification is mandatory and lands in the audit trail.
func (s *FiscalPeriodService) ReopenPeriod(ctx context.Context, ledgerID, periodID string, req dto.ReopenPeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, ledgerID, periodID, userID, domain.PeriodOpen, req.Reason,
		func(from domain.PeriodStatus) error {
			if from == domain.PeriodOpen {
				return fmt.Errorf("%w: period is already open", apperrors.ErrConflict)
			}
			return nil
		})
}

// transition performs a locked status flip with its audit event in a single
// transaction.
func (s *FiscalPeriodService) transition(ctx context.Context, ledgerID, periodID, userID string, to domain.PeriodStatus, reason string, check func(from domain.PeriodStatus) error) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var updated *domain.FiscalPeriod
	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		period, err := s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, ledgerID, periodID)
		if err != nil {
			return err
		}
		if err := check(period.Status); err != nil {
			return err
		}

		now := time.Now()
		event := domain.PeriodAuditEvent{
			EventID:    uuid.NewString(),
			PeriodID:   periodID,
			FromStatus: period.Status,
			ToStatus:   to,
			Reason:     reason,
			ChangedBy:  userID,
			ChangedAt:  now,
		}
		if err := s.periodRepo.UpdatePeriodStatusInTx(ctx, tx, periodID, to, event); err != nil {
			return err
		}

		period.Status = to
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
		updated = period
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Fiscal period status changed",
		slog.String("period_id", periodID),
		slog.String("to_status", string(to)),
		slog.String("changed_by", userID))
	return updated, nil
}

// CheckWritable resolves and row-locks the period covering postingDate
// inside the caller's transaction. The lock serializes the posting against
// any concurrent close or lock of the same period.
func (s *FiscalPeriodService) CheckWritable(ctx context.Context, tx pgx.Tx, ledgerID string, postingDate time.Time) (string, error) {
	period, err := s.periodRepo.FindPeriodForDateForUpdate(ctx, tx, ledgerID, postingDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNoPeriodDefined, postingDate.Format(time.DateOnly))
		}
		return "", fmt.Errorf("failed to resolve fiscal period: %w", err)
	}

	switch period.Status {
	case domain.PeriodOpen:
		return period.PeriodID, nil
	case domain.PeriodClosed:
		return "", fmt.Errorf("%w: period %d/%d", ErrPeriodClosed, period.Year, period.Sequence)
	case domain.PeriodLocked:
		return "", fmt.Errorf("%w: period %d/%d", ErrPeriodLocked, period.Year, period.Sequence)
	default:
		return "", fmt.Errorf("unknown period status %q", period.Status)
	}
}

// ListAuditEvents retrieves the status transition trail of a period.
func (s *FiscalPeriodService) ListAuditEvents(ctx context.Context, ledgerID, periodID string) ([]domain.PeriodAuditEvent, error) {
	if _, err := s.periodRepo.FindPeriodByID(ctx, ledgerID, periodID); err != nil {
		return nil, err
	}
	return s.periodRepo.ListAuditEvents(ctx, periodID)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
