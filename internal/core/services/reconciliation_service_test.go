package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/openbooks/ledger_engine/internal/apperrors"
	"github.com/openbooks/ledger_engine/internal/core/domain"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo     *MockReconciliationRepository
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockAccountRepository
	mockInvoiceRepo   *MockInvoiceRepository
	mockBillRepo      *MockBillRepository
	service           portssvc.ReconciliationSvcFacade

	ledgerID  string
	userID    string
	arControl domain.Account
	apControl domain.Account
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockBillRepo = new(MockBillRepository)
	suite.service = services.NewReconciliationService(
		suite.mockReconRepo, suite.mockReportingRepo, suite.mockAccountRepo,
		suite.mockInvoiceRepo, suite.mockBillRepo, services.DefaultReconTolerance)

	suite.ledgerID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.arControl = domain.Account{
		AccountID:   uuid.NewString(),
		LedgerID:    suite.ledgerID,
		Code:        "1200",
		AccountType: domain.Asset,
		ControlRole: domain.ControlReceivable,
		IsActive:    true,
	}
	suite.apControl = domain.Account{
		AccountID:   uuid.NewString(),
		LedgerID:    suite.ledgerID,
		Code:        "2100",
		AccountType: domain.Liability,
		ControlRole: domain.ControlPayable,
		IsActive:    true,
	}
}

func (suite *ReconciliationServiceTestSuite) expectSavedRun() *domain.ReconciliationRun {
	saved := &domain.ReconciliationRun{}
	suite.mockReconRepo.On("SaveRun", mock.Anything, mock.AnythingOfType("domain.ReconciliationRun")).
		Run(func(args mock.Arguments) {
			*saved = args.Get(1).(domain.ReconciliationRun)
		}).Return(nil).Once()
	return saved
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_InBalanceIsSuccess() {
	ctx := context.Background()

	suite.mockInvoiceRepo.On("SumOpenInvoices", mock.Anything, suite.ledgerID, mock.Anything).
		Return(decimal.RequireFromString("1200.00"), nil).Once()
	suite.mockAccountRepo.On("FindControlAccount", mock.Anything, suite.ledgerID, domain.ControlReceivable).
		Return(&suite.arControl, nil).Once()
	suite.mockReportingRepo.On("GetControlBalance", mock.Anything, suite.ledgerID, suite.arControl.AccountID, mock.Anything).
		Return(decimal.RequireFromString("1200.00"), nil).Once()
	saved := suite.expectSavedRun()

	run, err := suite.service.Reconcile(ctx, suite.ledgerID, domain.ScopeReceivable, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconSuccess, run.Status)
	suite.Require().Len(run.Discrepancies, 1)
	suite.Equal(domain.SeverityInfo, run.Discrepancies[0].Severity)
	suite.True(run.Discrepancies[0].Variance.IsZero())
	suite.Equal(run.RunID, saved.RunID)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_SmallVarianceIsWarning() {
	ctx := context.Background()

	// 0.50 is above the 0.01 tolerance but inside 100x of it.
	suite.mockBillRepo.On("SumOpenBills", mock.Anything, suite.ledgerID, mock.Anything).
		Return(decimal.RequireFromString("800.50"), nil).Once()
	suite.mockAccountRepo.On("FindControlAccount", mock.Anything, suite.ledgerID, domain.ControlPayable).
		Return(&suite.apControl, nil).Once()
	suite.mockReportingRepo.On("GetControlBalance", mock.Anything, suite.ledgerID, suite.apControl.AccountID, mock.Anything).
		Return(decimal.RequireFromString("-800.00"), nil).Once()
	suite.expectSavedRun()

	run, err := suite.service.Reconcile(ctx, suite.ledgerID, domain.ScopePayable, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconWarning, run.Status)
	suite.Require().Len(run.Discrepancies, 1)
	suite.Equal(domain.SeverityWarning, run.Discrepancies[0].Severity)
	suite.True(run.Discrepancies[0].Variance.Equal(decimal.RequireFromString("0.50")))
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_LargeVarianceFailsRun() {
	ctx := context.Background()

	suite.mockInvoiceRepo.On("SumOpenInvoices", mock.Anything, suite.ledgerID, mock.Anything).
		Return(decimal.RequireFromString("5000.00"), nil).Once()
	suite.mockAccountRepo.On("FindControlAccount", mock.Anything, suite.ledgerID, domain.ControlReceivable).
		Return(&suite.arControl, nil).Once()
	suite.mockReportingRepo.On("GetControlBalance", mock.Anything, suite.ledgerID, suite.arControl.AccountID, mock.Anything).
		Return(decimal.RequireFromString("4000.00"), nil).Once()
	suite.expectSavedRun()

	run, err := suite.service.Reconcile(ctx, suite.ledgerID, domain.ScopeReceivable, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconFailed, run.Status)
	suite.Equal(domain.SeverityCritical, run.Discrepancies[0].Severity)
	suite.True(run.HasCritical())
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_FullScopeCoversBothSides() {
	ctx := context.Background()

	suite.mockInvoiceRepo.On("SumOpenInvoices", mock.Anything, suite.ledgerID, mock.Anything).
		Return(decimal.RequireFromString("100.00"), nil).Once()
	suite.mockBillRepo.On("SumOpenBills", mock.Anything, suite.ledgerID, mock.Anything).
		Return(decimal.RequireFromString("200.00"), nil).Once()
	suite.mockAccountRepo.On("FindControlAccount", mock.Anything, suite.ledgerID, domain.ControlReceivable).
		Return(&suite.arControl, nil).Once()
	suite.mockAccountRepo.On("FindControlAccount", mock.Anything, suite.ledgerID, domain.ControlPayable).
		Return(&suite.apControl, nil).Once()
	suite.mockReportingRepo.On("GetControlBalance", mock.Anything, suite.ledgerID, suite.arControl.AccountID, mock.Anything).
		Return(decimal.RequireFromString("100.00"), nil).Once()
	suite.mockReportingRepo.On("GetControlBalance", mock.Anything, suite.ledgerID, suite.apControl.AccountID, mock.Anything).
		Return(decimal.RequireFromString("-200.00"), nil).Once()
	suite.expectSavedRun()

	run, err := suite.service.Reconcile(ctx, suite.ledgerID, domain.ScopeFull, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconSuccess, run.Status)
	suite.Require().Len(run.Discrepancies, 2)
	suite.Equal(domain.ScopeReceivable, run.Discrepancies[0].Scope)
	suite.Equal(domain.ScopePayable, run.Discrepancies[1].Scope)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_UnknownScopeRejected() {
	ctx := context.Background()

	_, err := suite.service.Reconcile(ctx, suite.ledgerID, domain.ReconScope("BOGUS"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveRun", mock.Anything, mock.Anything)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

func TestGradeVariance(t *testing.T) {
	tolerance := decimal.RequireFromString("0.01")

	cases := []struct {
		name     string
		variance string
		want     domain.DiscrepancySeverity
	}{
		{"zero", "0", domain.SeverityInfo},
		{"at tolerance", "0.01", domain.SeverityInfo},
		{"just above tolerance", "0.02", domain.SeverityWarning},
		{"at warning ceiling", "1.00", domain.SeverityWarning},
		{"above warning ceiling", "1.01", domain.SeverityCritical},
		{"negative variance uses magnitude", "-2.50", domain.SeverityCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.GradeVariance(decimal.RequireFromString(tc.variance), tolerance)
			if got != tc.want {
				t.Errorf("GradeVariance(%s) = %s, want %s", tc.variance, got, tc.want)
			}
		})
	}
}
