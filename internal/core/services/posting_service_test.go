package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/core/services"
	"github.com/openbooks/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodSvc   *MockPeriodService
	mockFxSvc       *MockFxService
	service         portssvc.PostingSvcFacade

	ledgerID    string
	userID      string
	periodID    string
	cashAccount domain.Account
	revAccount  domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.mockFxSvc = new(MockFxService)
	suite.service = services.NewPostingService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockPeriodSvc, suite.mockFxSvc)

	suite.ledgerID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.periodID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		LedgerID:    suite.ledgerID,
		Code:        "1000",
		AccountType: domain.Asset,
		IsCash:      true,
		IsActive:    true,
	}
	suite.revAccount = domain.Account{
		AccountID:   uuid.NewString(),
		LedgerID:    suite.ledgerID,
		Code:        "4000",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
}

func (suite *PostingServiceTestSuite) header() dto.EntryHeader {
	return dto.EntryHeader{
		EntryDate:   time.Now(),
		PostingDate: time.Now(),
		Description: "Cash sale",
	}
}

func (suite *PostingServiceTestSuite) balancedLines(amount decimal.Decimal) []dto.LineSpec {
	return []dto.LineSpec{
		{AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Amount: amount, CurrencyCode: "USD"},
		{AccountID: suite.revAccount.AccountID, Side: domain.Credit, Amount: amount, CurrencyCode: "USD"},
	}
}

func (suite *PostingServiceTestSuite) expectAccounts(accounts ...domain.Account) {
	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		accountsMap[a.AccountID] = a
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.ledgerID, mock.Anything).Return(accountsMap, nil).Once()
}

func (suite *PostingServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(250)

	suite.expectAccounts(suite.cashAccount, suite.revAccount)
	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, amount, "USD", mock.Anything).
		Return(decimal.NewFromInt(1), amount, nil).Twice()
	suite.mockPeriodSvc.On("CheckWritable", mock.Anything, mock.Anything, suite.ledgerID, mock.Anything).
		Return(suite.periodID, nil).Once()
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, suite.ledgerID).
		Return(int64(42), nil).Once()

	var inserted domain.JournalEntry
	suite.mockJournalRepo.On("InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()

	entryID, err := suite.service.PostTransaction(ctx, suite.ledgerID, "", suite.header(), suite.balancedLines(amount), nil, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(entryID)
	suite.Equal(inserted.EntryID, entryID)
	suite.Equal(domain.EntryPosted, inserted.Status)
	suite.Equal(int64(42), inserted.EntryNumber)
	suite.Equal(suite.periodID, inserted.FiscalPeriodID)
	suite.Equal(domain.SourceManual, inserted.Source.Type)
	suite.Equal(suite.userID, inserted.PostedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "RecordKeyInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_RecordsIdempotencyKey() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)
	key := "post-" + uuid.NewString()

	suite.expectAccounts(suite.cashAccount, suite.revAccount)
	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, amount, "USD", mock.Anything).
		Return(decimal.NewFromInt(1), amount, nil).Twice()
	suite.mockJournalRepo.On("FindEntryIDByKeyInTx", mock.Anything, mock.Anything, suite.ledgerID, key).
		Return("", apperrors.ErrNotFound).Once()
	suite.mockPeriodSvc.On("CheckWritable", mock.Anything, mock.Anything, suite.ledgerID, mock.Anything).
		Return(suite.periodID, nil).Once()
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, suite.ledgerID).
		Return(int64(1), nil).Once()
	suite.mockJournalRepo.On("InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	suite.mockJournalRepo.On("RecordKeyInTx", mock.Anything, mock.Anything, suite.ledgerID, key, mock.AnythingOfType("string")).
		Return(nil).Once()

	entryID, err := suite.service.PostTransaction(ctx, suite.ledgerID, key, suite.header(), suite.balancedLines(amount), nil, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(entryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostTransaction_IdempotentReplayReturnsPriorEntry() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)
	key := "post-" + uuid.NewString()
	priorEntryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryIDByKeyInTx", mock.Anything, mock.Anything, suite.ledgerID, key).
		Return(priorEntryID, nil).Once()

	entryID, err := suite.service.PostTransaction(ctx, suite.ledgerID, key, suite.header(), suite.balancedLines(amount), nil, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(priorEntryID, entryID)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "NextEntryNumber", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_ReplayUnaffectedByDeactivatedAccount() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)
	key := "post-" + uuid.NewString()
	priorEntryID := uuid.NewString()

	// The revenue account went inactive after the original posting
	// committed. A replay of the same key must return the recorded entry
	// instead of re-running the line validation the original passed.
	inactive := suite.revAccount
	inactive.IsActive = false
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		inactive.AccountID:          inactive,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.ledgerID, mock.Anything).Return(accountsMap, nil).Maybe()
	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, amount, "USD", mock.Anything).
		Return(decimal.NewFromInt(1), amount, nil).Maybe()
	suite.mockJournalRepo.On("FindEntryIDByKeyInTx", mock.Anything, mock.Anything, suite.ledgerID, key).
		Return(priorEntryID, nil).Once()

	entryID, err := suite.service.PostTransaction(ctx, suite.ledgerID, key, suite.header(), suite.balancedLines(amount), nil, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(priorEntryID, entryID)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_KeyRaceLoserReturnsWinnersEntry() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)
	key := "post-" + uuid.NewString()
	winnerEntryID := uuid.NewString()

	// Two concurrent requests with the same key: this one finds no prior
	// entry, builds its own, then hits the unique index when the other
	// commits first. The committed entry is the outcome the caller asked
	// for, so it comes back instead of an error.
	suite.expectAccounts(suite.cashAccount, suite.revAccount)
	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, amount, "USD", mock.Anything).
		Return(decimal.NewFromInt(1), amount, nil).Twice()
	suite.mockJournalRepo.On("FindEntryIDByKeyInTx", mock.Anything, mock.Anything, suite.ledgerID, key).
		Return("", apperrors.ErrNotFound).Once()
	suite.mockPeriodSvc.On("CheckWritable", mock.Anything, mock.Anything, suite.ledgerID, mock.Anything).
		Return(suite.periodID, nil).Once()
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, suite.ledgerID).
		Return(int64(5), nil).Once()
	suite.mockJournalRepo.On("InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	suite.mockJournalRepo.On("RecordKeyInTx", mock.Anything, mock.Anything, suite.ledgerID, key, mock.AnythingOfType("string")).
		Return(fmt.Errorf("%w: idempotency key %s", apperrors.ErrDuplicate, key)).Once()
	suite.mockJournalRepo.On("FindEntryIDByKeyInTx", mock.Anything, mock.Anything, suite.ledgerID, key).
		Return(winnerEntryID, nil).Once()

	entryID, err := suite.service.PostTransaction(ctx, suite.ledgerID, key, suite.header(), suite.balancedLines(amount), nil, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(winnerEntryID, entryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostTransaction_UnbalancedRejected() {
	ctx := context.Background()

	suite.expectAccounts(suite.cashAccount, suite.revAccount)
	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, decimal.NewFromInt(100), "USD", mock.Anything).
		Return(decimal.NewFromInt(1), decimal.NewFromInt(100), nil).Once()
	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, decimal.NewFromInt(99), "USD", mock.Anything).
		Return(decimal.NewFromInt(1), decimal.NewFromInt(99), nil).Once()

	lines := []dto.LineSpec{
		{AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Amount: decimal.NewFromInt(100), CurrencyCode: "USD"},
		{AccountID: suite.revAccount.AccountID, Side: domain.Credit, Amount: decimal.NewFromInt(99), CurrencyCode: "USD"},
	}
	_, err := suite.service.PostTransaction(ctx, suite.ledgerID, "", suite.header(), lines, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_InactiveAccountRejected() {
	ctx := context.Background()
	amount := decimal.NewFromInt(50)

	inactive := suite.revAccount
	inactive.IsActive = false
	suite.expectAccounts(suite.cashAccount, inactive)

	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, amount, "USD", mock.Anything).
		Return(decimal.NewFromInt(1), amount, nil).Maybe()

	_, err := suite.service.PostTransaction(ctx, suite.ledgerID, "", suite.header(), suite.balancedLines(amount), nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_ClosedPeriodRejected() {
	ctx := context.Background()
	amount := decimal.NewFromInt(75)

	suite.expectAccounts(suite.cashAccount, suite.revAccount)
	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, amount, "USD", mock.Anything).
		Return(decimal.NewFromInt(1), amount, nil).Twice()
	suite.mockPeriodSvc.On("CheckWritable", mock.Anything, mock.Anything, suite.ledgerID, mock.Anything).
		Return("", services.ErrPeriodClosed).Once()

	_, err := suite.service.PostTransaction(ctx, suite.ledgerID, "", suite.header(), suite.balancedLines(amount), nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodClosed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) postedEntry() *domain.JournalEntry {
	now := time.Now()
	return &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		LedgerID:    suite.ledgerID,
		EntryNumber: 7,
		EntryDate:   now,
		PostingDate: now,
		Description: "Original",
		Status:      domain.EntryPosted,
		PostedAt:    &now,
		PostedBy:    suite.userID,
	}
}

func (suite *PostingServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	original := suite.postedEntry()
	amount := decimal.NewFromInt(300)

	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: original.EntryID, AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Amount: amount, CurrencyCode: "USD", ExchangeRate: decimal.NewFromInt(1), BaseAmount: amount},
		{LineID: uuid.NewString(), EntryID: original.EntryID, AccountID: suite.revAccount.AccountID, Side: domain.Credit, Amount: amount, CurrencyCode: "USD", ExchangeRate: decimal.NewFromInt(1), BaseAmount: amount},
	}

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, suite.ledgerID, original.EntryID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, original.EntryID).Return(originalLines, nil).Once()
	suite.mockPeriodSvc.On("CheckWritable", mock.Anything, mock.Anything, suite.ledgerID, mock.Anything).
		Return(suite.periodID, nil).Once()
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, suite.ledgerID).
		Return(int64(8), nil).Once()

	var mirror domain.JournalEntry
	var mirrorLines []domain.JournalLine
	suite.mockJournalRepo.On("InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			mirror = args.Get(2).(domain.JournalEntry)
			mirrorLines = args.Get(3).([]domain.JournalLine)
		}).Return(nil).Once()
	suite.mockJournalRepo.On("MarkReversedInTx", mock.Anything, mock.Anything, original.EntryID, mock.AnythingOfType("string"), suite.userID, mock.Anything).
		Return(nil).Once()

	reversalID, err := suite.service.ReverseEntry(ctx, suite.ledgerID, original.EntryID, dto.ReverseEntryRequest{Reason: "posted to wrong account"}, nil, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(mirror.EntryID, reversalID)
	suite.Require().NotNil(mirror.ReversesEntryID)
	suite.Equal(original.EntryID, *mirror.ReversesEntryID)
	suite.Equal(domain.EntryPosted, mirror.Status)

	suite.Require().Len(mirrorLines, 2)
	suite.Equal(domain.Credit, mirrorLines[0].Side)
	suite.Equal(domain.Debit, mirrorLines[1].Side)
	for i, line := range mirrorLines {
		suite.True(line.Amount.Equal(originalLines[i].Amount))
		suite.True(line.BaseAmount.Equal(originalLines[i].BaseAmount))
		suite.True(line.ExchangeRate.Equal(originalLines[i].ExchangeRate))
		suite.Equal(originalLines[i].AccountID, line.AccountID)
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	draft := suite.postedEntry()
	draft.Status = domain.EntryDraft
	draft.PostedAt = nil

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, suite.ledgerID, draft.EntryID).Return(draft, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.ledgerID, draft.EntryID, dto.ReverseEntryRequest{Reason: "oops"}, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotPosted)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_AlreadyReversedRejected() {
	ctx := context.Background()
	original := suite.postedEntry()
	reversedBy := uuid.NewString()
	original.Status = domain.EntryReversed
	original.ReversedByEntryID = &reversedBy

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, suite.ledgerID, original.EntryID).Return(original, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.ledgerID, original.EntryID, dto.ReverseEntryRequest{Reason: "twice"}, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_MirrorNotReversible() {
	ctx := context.Background()
	mirror := suite.postedEntry()
	originalID := uuid.NewString()
	mirror.ReversesEntryID = &originalID

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, suite.ledgerID, mirror.EntryID).Return(mirror, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.ledgerID, mirror.EntryID, dto.ReverseEntryRequest{Reason: "no"}, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestPostEntry_DraftGatedByPeriod() {
	ctx := context.Background()
	draft := suite.postedEntry()
	draft.Status = domain.EntryDraft
	amount := decimal.NewFromInt(10)

	lines := []domain.JournalLine{
		{AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Amount: amount, BaseAmount: amount},
		{AccountID: suite.revAccount.AccountID, Side: domain.Credit, Amount: amount, BaseAmount: amount},
	}
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, suite.ledgerID, draft.EntryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, draft.EntryID).Return(lines, nil).Once()
	suite.mockPeriodSvc.On("CheckWritable", mock.Anything, mock.Anything, suite.ledgerID, mock.Anything).
		Return("", services.ErrPeriodLocked).Once()

	err := suite.service.PostEntry(ctx, suite.ledgerID, draft.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodLocked)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkPostedInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreateDraftEntry_NumberAndInsertShareTransaction() {
	ctx := context.Background()

	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, suite.ledgerID).
		Return(int64(9), nil).Once()

	var inserted domain.JournalEntry
	var insertedLines []domain.JournalLine
	suite.mockJournalRepo.On("InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(2).(domain.JournalEntry)
			insertedLines, _ = args.Get(3).([]domain.JournalLine)
		}).Return(nil).Once()

	entryID, err := suite.service.CreateDraftEntry(ctx, suite.ledgerID, suite.header(), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(entryID, inserted.EntryID)
	suite.Equal(domain.EntryDraft, inserted.Status)
	suite.Equal(int64(9), inserted.EntryNumber)
	suite.Equal(domain.SourceManual, inserted.Source.Type)
	suite.Nil(insertedLines)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreateDraftEntry_InsertFailureSurfaces() {
	ctx := context.Background()

	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, suite.ledgerID).
		Return(int64(9), nil).Once()
	suite.mockJournalRepo.On("InsertEntryWithLinesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("insert failed")).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.ledgerID, suite.header(), suite.userID)

	suite.Require().Error(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
