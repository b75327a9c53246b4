package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) ListLedgers(ctx context.Context) ([]domain.Ledger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ledger), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ledgerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, ledgerID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, ledgerID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, ledgerID, code string) (*domain.Account, error) {
	args := m.Called(ctx, ledgerID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindControlAccount(ctx context.Context, ledgerID string, role domain.ControlRole) (*domain.Account, error) {
	args := m.Called(ctx, ledgerID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountOpenPeriodReferences(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

// WithTx runs fn directly with a nil transaction; the mocked In-Tx methods
// accept it via mock.Anything.
func (m *MockJournalRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, ledgerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, ledgerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) AddLine(ctx context.Context, line domain.JournalLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context, tx pgx.Tx, ledgerID string) (int64, error) {
	args := m.Called(ctx, tx, ledgerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) InsertEntryWithLinesInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, tx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkPostedInTx(ctx context.Context, tx pgx.Tx, entryID, periodID, postedBy string, postedAt time.Time) error {
	args := m.Called(ctx, tx, entryID, periodID, postedBy, postedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkReversedInTx(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, originalEntryID, reversingEntryID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryIDByKeyInTx(ctx context.Context, tx pgx.Tx, ledgerID, key string) (string, error) {
	args := m.Called(ctx, tx, ledgerID, key)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) RecordKeyInTx(ctx context.Context, tx pgx.Tx, ledgerID, key, entryID string) error {
	args := m.Called(ctx, tx, ledgerID, key, entryID)
	return args.Error(0)
}

// --- Mock FiscalPeriodRepository ---

type MockFiscalPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*MockFiscalPeriodRepository)(nil)

func (m *MockFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) FindPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, ledgerID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) ListPeriods(ctx context.Context, ledgerID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindPeriodForDateForUpdate(ctx context.Context, tx pgx.Tx, ledgerID string, postingDate time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tx, ledgerID, postingDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tx, ledgerID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) UpdatePeriodStatusInTx(ctx context.Context, tx pgx.Tx, periodID string, status domain.PeriodStatus, event domain.PeriodAuditEvent) error {
	args := m.Called(ctx, tx, periodID, status, event)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) ListAuditEvents(ctx context.Context, periodID string) ([]domain.PeriodAuditEvent, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodAuditEvent), args.Error(1)
}

// --- Stub TransactionManager ---

type stubTxManager struct{}

func (stubTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, ledgerID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, ledgerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, ledgerID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tx, ledgerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SetInvoicePostedInTx(ctx context.Context, tx pgx.Tx, invoiceID string, status domain.InvoiceStatus, entryID string, baseAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, invoiceID, status, entryID, baseAmount, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SetInvoiceStatusInTx(ctx context.Context, tx pgx.Tx, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, invoiceID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ListOpenInvoices(ctx context.Context, ledgerID string, asOf time.Time) ([]portsrepo.OpenDocument, error) {
	args := m.Called(ctx, ledgerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.OpenDocument), args.Error(1)
}

func (m *MockInvoiceRepository) SumOpenInvoices(ctx context.Context, ledgerID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ledgerID, asOf)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock BillRepository ---

type MockBillRepository struct {
	mock.Mock
}

var _ portsrepo.BillRepositoryFacade = (*MockBillRepository)(nil)

func (m *MockBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) FindBillByID(ctx context.Context, ledgerID, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, ledgerID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListBills(ctx context.Context, ledgerID string) ([]domain.Bill, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillRepository) FindBillByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, tx, ledgerID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) SetBillPostedInTx(ctx context.Context, tx pgx.Tx, billID string, status domain.BillStatus, entryID string, baseAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, billID, status, entryID, baseAmount, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockBillRepository) SetBillStatusInTx(ctx context.Context, tx pgx.Tx, billID string, status domain.BillStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, billID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockBillRepository) ListOpenBills(ctx context.Context, ledgerID string, asOf time.Time) ([]portsrepo.OpenDocument, error) {
	args := m.Called(ctx, ledgerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.OpenDocument), args.Error(1)
}

func (m *MockBillRepository) SumOpenBills(ctx context.Context, ledgerID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ledgerID, asOf)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock PayrollRepository ---

type MockPayrollRepository struct {
	mock.Mock
}

var _ portsrepo.PayrollRepositoryFacade = (*MockPayrollRepository)(nil)

func (m *MockPayrollRepository) SavePayrollRun(ctx context.Context, run domain.PayrollRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindPayrollRunByID(ctx context.Context, ledgerID, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, ledgerID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) ListPayrollRuns(ctx context.Context, ledgerID string) ([]domain.PayrollRun, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) FindPayrollRunByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, tx, ledgerID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) SetPayrollDisbursedInTx(ctx context.Context, tx pgx.Tx, runID, entryID string, baseAmount decimal.Decimal, disbursedAt time.Time, updatedBy string) error {
	args := m.Called(ctx, tx, runID, entryID, baseAmount, disbursedAt, updatedBy)
	return args.Error(0)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, ledgerID string, asOf time.Time, accountIDs []string) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, ledgerID, asOf, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetPLData(ctx context.Context, ledgerID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, ledgerID, from, to)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Get(2).([]domain.AccountAmount), args.Error(3)
}

func (m *MockReportingRepository) GetCashData(ctx context.Context, ledgerID string, asOf time.Time) ([]domain.AccountAmount, error) {
	args := m.Called(ctx, ledgerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountAmount), args.Error(1)
}

func (m *MockReportingRepository) GetControlBalance(ctx context.Context, ledgerID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ledgerID, accountID, asOf)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) SaveRun(ctx context.Context, run domain.ReconciliationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindRunByID(ctx context.Context, ledgerID, runID string) (*domain.ReconciliationRun, error) {
	args := m.Called(ctx, ledgerID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationRun), args.Error(1)
}

func (m *MockReconciliationRepository) ListRuns(ctx context.Context, ledgerID string, limit int) ([]domain.ReconciliationRun, error) {
	args := m.Called(ctx, ledgerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRun), args.Error(1)
}

// --- Mock FiscalPeriodService ---

type MockPeriodService struct {
	mock.Mock
}

var _ portssvc.FiscalPeriodSvcFacade = (*MockPeriodService)(nil)

func (m *MockPeriodService) CreatePeriod(ctx context.Context, ledgerID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, ledgerID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) GetPeriodByID(ctx context.Context, ledgerID, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, ledgerID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, ledgerID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, ledgerID, periodID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) LockPeriod(ctx context.Context, ledgerID, periodID, userID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, ledgerID, periodID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) ReopenPeriod(ctx context.Context, ledgerID, periodID string, req dto.ReopenPeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, ledgerID, periodID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) CheckWritable(ctx context.Context, tx pgx.Tx, ledgerID string, postingDate time.Time) (string, error) {
	args := m.Called(ctx, tx, ledgerID, postingDate)
	return args.String(0), args.Error(1)
}

func (m *MockPeriodService) ListAuditEvents(ctx context.Context, ledgerID, periodID string) ([]domain.PeriodAuditEvent, error) {
	args := m.Called(ctx, ledgerID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodAuditEvent), args.Error(1)
}

// --- Mock FxService ---

type MockFxService struct {
	mock.Mock
}

var _ portssvc.FxSvcFacade = (*MockFxService)(nil)

func (m *MockFxService) Normalize(ctx context.Context, ledgerID string, amount decimal.Decimal, currencyCode string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, ledgerID, amount, currencyCode, asOf)
	if args.Get(0) == nil {
		return decimal.Zero, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockFxService) CreateExchangeRate(ctx context.Context, ledgerID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, ledgerID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockFxService) ListRates(ctx context.Context, ledgerID string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Mock PostingService ---

type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) PostTransaction(ctx context.Context, ledgerID, idempotencyKey string, header dto.EntryHeader, lines []dto.LineSpec, onCommit portssvc.ProducerMutation, userID string) (string, error) {
	args := m.Called(ctx, ledgerID, idempotencyKey, header, lines, onCommit, userID)
	return args.String(0), args.Error(1)
}

func (m *MockPostingService) ReverseEntry(ctx context.Context, ledgerID, entryID string, req dto.ReverseEntryRequest, onCommit portssvc.ProducerMutation, userID string) (string, error) {
	args := m.Called(ctx, ledgerID, entryID, req, onCommit, userID)
	return args.String(0), args.Error(1)
}

func (m *MockPostingService) GetEntryByID(ctx context.Context, ledgerID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, ledgerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) ListEntries(ctx context.Context, ledgerID string, limit, offset int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, ledgerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) CreateDraftEntry(ctx context.Context, ledgerID string, header dto.EntryHeader, userID string) (string, error) {
	args := m.Called(ctx, ledgerID, header, userID)
	return args.String(0), args.Error(1)
}

func (m *MockPostingService) AddLine(ctx context.Context, ledgerID, entryID string, line dto.LineSpec, userID string) (string, error) {
	args := m.Called(ctx, ledgerID, entryID, line, userID)
	return args.String(0), args.Error(1)
}

func (m *MockPostingService) PostEntry(ctx context.Context, ledgerID, entryID, userID string) error {
	args := m.Called(ctx, ledgerID, entryID, userID)
	return args.Error(0)
}
