package services_test

import (
	"context"
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

type BillServiceTestSuite struct {
	suite.Suite
	mockBillRepo    *MockBillRepository
	mockAccountRepo *MockAccountRepository
	mockPostingSvc  *MockPostingService
	mockFxSvc       *MockFxService
	service         portssvc.BillSvcFacade

	ledgerID  string
	userID    string
	apControl domain.Account
}

func (suite *BillServiceTestSuite) SetupTest() {
	suite.mockBillRepo = new(MockBillRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPostingSvc = new(MockPostingService)
	suite.mockFxSvc = new(MockFxService)
	suite.service = services.NewBillService(suite.mockBillRepo, suite.mockAccountRepo, suite.mockPostingSvc, suite.mockFxSvc)

	suite.ledgerID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.apControl = domain.Account{
		AccountID:   uuid.NewString(),
		LedgerID:    suite.ledgerID,
		Code:        "2100",
		AccountType: domain.Liability,
		ControlRole: domain.ControlPayable,
		IsActive:    true,
	}
}

func (suite *BillServiceTestSuite) draftBill() *domain.Bill {
	now := time.Now()
	return &domain.Bill{
		BillID:       uuid.NewString(),
		LedgerID:     suite.ledgerID,
		VendorName:   "Office Supplies Inc",
		IssueDate:    now,
		DueDate:      now.AddDate(0, 1, 0),
		Amount:       decimal.RequireFromString("250.00"),
		CurrencyCode: "USD",
		Status:       domain.BillDraft,
	}
}

func (suite *BillServiceTestSuite) TestCreateBill_StartsAsDraft() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		VendorName:   "Office Supplies Inc",
		IssueDate:    time.Now(),
		DueDate:      time.Now().AddDate(0, 1, 0),
		Amount:       decimal.RequireFromString("250.00"),
		CurrencyCode: "USD",
	}

	suite.mockBillRepo.On("SaveBill", mock.Anything, mock.AnythingOfType("domain.Bill")).Return(nil).Once()

	bill, err := suite.service.CreateBill(ctx, suite.ledgerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillDraft, bill.Status)
	suite.Nil(bill.JournalEntryID)
}

func (suite *BillServiceTestSuite) TestApproveBill_PostsExpenseAgainstPayableControl() {
	ctx := context.Background()
	bill := suite.draftBill()
	expenseAccountID := uuid.NewString()
	entryID := uuid.NewString()
	key := "approve-" + bill.BillID

	suite.mockBillRepo.On("FindBillByID", mock.Anything, suite.ledgerID, bill.BillID).Return(bill, nil).Once()
	suite.mockAccountRepo.On("FindControlAccount", mock.Anything, suite.ledgerID, domain.ControlPayable).Return(&suite.apControl, nil).Once()
	suite.mockFxSvc.On("Normalize", mock.Anything, suite.ledgerID, bill.Amount, "USD", mock.Anything).
		Return(decimal.NewFromInt(1), bill.Amount, nil).Once()

	suite.mockBillRepo.On("FindBillByIDForUpdate", mock.Anything, mock.Anything, suite.ledgerID, bill.BillID).Return(bill, nil).Once()
	suite.mockBillRepo.On("SetBillPostedInTx", mock.Anything, mock.Anything, bill.BillID, domain.BillApproved, entryID, bill.Amount, suite.userID, mock.Anything).Return(nil).Once()

	var lines []dto.LineSpec
	suite.mockPostingSvc.On("PostTransaction", mock.Anything, suite.ledgerID, key, mock.AnythingOfType("dto.EntryHeader"), mock.AnythingOfType("[]dto.LineSpec"), mock.Anything, suite.userID).
		Run(func(args mock.Arguments) {
			lines = args.Get(4).([]dto.LineSpec)
			mutation := args.Get(5).(portssvc.ProducerMutation)
			suite.Require().NoError(mutation(ctx, nil, entryID))
		}).Return(entryID, nil).Once()

	approved := *bill
	approved.Status = domain.BillApproved
	suite.mockBillRepo.On("FindBillByID", mock.Anything, suite.ledgerID, bill.BillID).Return(&approved, nil).Once()

	result, err := suite.service.ApproveBill(ctx, suite.ledgerID, bill.BillID, key, dto.ApproveBillRequest{ExpenseAccountID: expenseAccountID}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillApproved, result.Status)
	suite.Require().Len(lines, 2)
	suite.Equal(expenseAccountID, lines[0].AccountID)
	suite.Equal(domain.Debit, lines[0].Side)
	suite.Equal(suite.apControl.AccountID, lines[1].AccountID)
	suite.Equal(domain.Credit, lines[1].Side)
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestApproveBill_NonDraftRejected() {
	ctx := context.Background()
	bill := suite.draftBill()
	bill.Status = domain.BillApproved

	suite.mockBillRepo.On("FindBillByID", mock.Anything, suite.ledgerID, bill.BillID).Return(bill, nil).Once()

	_, err := suite.service.ApproveBill(ctx, suite.ledgerID, bill.BillID, "", dto.ApproveBillRequest{ExpenseAccountID: uuid.NewString()}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestApproveBill_MissingControlAccountRejected() {
	ctx := context.Background()
	bill := suite.draftBill()

	suite.mockBillRepo.On("FindBillByID", mock.Anything, suite.ledgerID, bill.BillID).Return(bill, nil).Once()
	suite.mockAccountRepo.On("FindControlAccount", mock.Anything, suite.ledgerID, domain.ControlPayable).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ApproveBill(ctx, suite.ledgerID, bill.BillID, "", dto.ApproveBillRequest{ExpenseAccountID: uuid.NewString()}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BillServiceTestSuite) TestVoidBill_ReversesPostingEntry() {
	ctx := context.Background()
	bill := suite.draftBill()
	entryID := uuid.NewString()
	bill.Status = domain.BillApproved
	bill.JournalEntryID = &entryID

	suite.mockBillRepo.On("FindBillByID", mock.Anything, suite.ledgerID, bill.BillID).Return(bill, nil).Once()

	var req dto.ReverseEntryRequest
	suite.mockPostingSvc.On("ReverseEntry", mock.Anything, suite.ledgerID, entryID, mock.AnythingOfType("dto.ReverseEntryRequest"), mock.Anything, suite.userID).
		Run(func(args mock.Arguments) {
			req = args.Get(3).(dto.ReverseEntryRequest)
		}).Return(uuid.NewString(), nil).Once()

	voided := *bill
	voided.Status = domain.BillVoided
	suite.mockBillRepo.On("FindBillByID", mock.Anything, suite.ledgerID, bill.BillID).Return(&voided, nil).Once()

	result, err := suite.service.VoidBill(ctx, suite.ledgerID, bill.BillID, dto.VoidBillRequest{Reason: "duplicate bill"}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillVoided, result.Status)
	suite.Equal("duplicate bill", req.Reason)
}

func (suite *BillServiceTestSuite) TestVoidBill_DraftRejected() {
	ctx := context.Background()
	bill := suite.draftBill()

	suite.mockBillRepo.On("FindBillByID", mock.Anything, suite.ledgerID, bill.BillID).Return(bill, nil).Once()

	_, err := suite.service.VoidBill(ctx, suite.ledgerID, bill.BillID, dto.VoidBillRequest{Reason: "nope"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "ReverseEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillServiceTestSuite))
}
