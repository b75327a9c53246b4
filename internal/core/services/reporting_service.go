package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Aging bucket boundaries in days past due.
var agingBucketLabels = []string{"CURRENT", "31-60", "61-90", "90+"}

// ReportingService serves the canonical views. Every number is derived
// from posted, non-reversed journal lines on the posting-date axis; the
// subledger tables only contribute the document-level aging breakdown.
type ReportingService struct {
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	invoiceRepo   portsrepo.InvoiceRepositoryFacade
	billRepo      portsrepo.BillRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(rr portsrepo.ReportingRepository, ar portsrepo.AccountReader, ir portsrepo.InvoiceRepositoryFacade, br portsrepo.BillRepositoryFacade) portssvc.ReportingSvcFacade {
	return &ReportingService{
		reportingRepo: rr,
		accountRepo:   ar,
		invoiceRepo:   ir,
		billRepo:      br,
	}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// TrialBalance returns per-account debit/credit totals up to asOf. The sum
// of all Net values is zero whenever the ledger is consistent.
func (s *ReportingService) TrialBalance(ctx context.Context, ledgerID string, asOf time.Time, accountIDs []string) ([]domain.TrialBalanceRow, error) {
	return s.reportingRepo.GetTrialBalanceData(ctx, ledgerID, asOf, accountIDs)
}

// ProfitAndLoss computes the P&L statement over a posting-date range.
func (s *ReportingService) ProfitAndLoss(ctx context.Context, ledgerID string, from, to time.Time) (*domain.PLStatement, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before start", apperrors.ErrValidation)
	}

	revenue, expenses, cogs, err := s.reportingRepo.GetPLData(ctx, ledgerID, from, to)
	if err != nil {
		return nil, err
	}

	stmt := &domain.PLStatement{
		From:        from,
		To:          to,
		Revenue:     revenue,
		Expenses:    expenses,
		CostOfGoods: cogs,
	}
	stmt.TotalRevenue = sumAmounts(revenue)
	stmt.TotalExpenses = sumAmounts(expenses)
	stmt.TotalCOGS = sumAmounts(cogs)
	stmt.NetProfit = stmt.TotalRevenue.Sub(stmt.TotalCOGS).Sub(stmt.TotalExpenses)
	return stmt, nil
}

// CashPosition returns the balance of every cash-flagged account up to asOf.
func (s *ReportingService) CashPosition(ctx context.Context, ledgerID string, asOf time.Time) (*domain.CashSnapshot, error) {
	accounts, err := s.reportingRepo.GetCashData(ctx, ledgerID, asOf)
	if err != nil {
		return nil, err
	}
	return &domain.CashSnapshot{
		AsOf:     asOf,
		Accounts: accounts,
		Total:    sumAmounts(accounts),
	}, nil
}

// Aging buckets outstanding subledger documents by days past due and
// cross-checks the total against the control account balance. A non-zero
// variance is the signal to run reconciliation.
func (s *ReportingService) Aging(ctx context.Context, ledgerID string, side domain.AgingSide, asOf time.Time) (*domain.AgingBuckets, error) {
	var (
		docs []portsrepo.OpenDocument
		role domain.ControlRole
		err  error
	)
	switch side {
	case domain.AgingReceivable:
		role = domain.ControlReceivable
		docs, err = s.invoiceRepo.ListOpenInvoices(ctx, ledgerID, asOf)
	case domain.AgingPayable:
		role = domain.ControlPayable
		docs, err = s.billRepo.ListOpenBills(ctx, ledgerID, asOf)
	default:
		return nil, fmt.Errorf("%w: unknown aging side %q", apperrors.ErrValidation, side)
	}
	if err != nil {
		return nil, err
	}

	control, err := s.accountRepo.FindControlAccount(ctx, ledgerID, role)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger has no %s control account", apperrors.ErrValidation, role)
	}

	buckets := make([]domain.AgingBucket, len(agingBucketLabels))
	for i, label := range agingBucketLabels {
		buckets[i] = domain.AgingBucket{Label: label, Amount: decimal.Zero}
	}
	total := decimal.Zero
	for _, doc := range docs {
		idx := bucketIndex(doc.DueDate, asOf)
		buckets[idx].Amount = buckets[idx].Amount.Add(doc.BaseAmount)
		buckets[idx].DocumentCount++
		total = total.Add(doc.BaseAmount)
	}

	controlBalance, err := s.reportingRepo.GetControlBalance(ctx, ledgerID, control.AccountID, asOf)
	if err != nil {
		return nil, err
	}
	// The control balance is debit-positive; AP is a credit-natural
	// liability, so its magnitude is the negation.
	if side == domain.AgingPayable {
		controlBalance = controlBalance.Neg()
	}

	return &domain.AgingBuckets{
		Side:           side,
		AsOf:           asOf,
		Buckets:        buckets,
		Total:          total,
		ControlBalance: controlBalance,
		Variance:       total.Sub(controlBalance),
	}, nil
}

// bucketIndex maps a due date to an aging bucket: documents not yet due or
// up to 30 days past due are CURRENT, then 31-60, 61-90 and 90+.
func bucketIndex(dueDate, asOf time.Time) int {
	// Bucket edges are calendar days, so time-of-day on either side must
	// not shift a document across a boundary.
	daysPast := int(truncateToDay(asOf).Sub(truncateToDay(dueDate)).Hours() / 24)
	switch {
	case daysPast <= 30:
		return 0
	case daysPast <= 60:
		return 1
	case daysPast <= 90:
		return 2
	default:
		return 3
	}
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}
