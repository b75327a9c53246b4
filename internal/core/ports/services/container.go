package services

// ServiceContainer aggregates every service facade for route registration.
type ServiceContainer struct {
	Ledger         LedgerSvcFacade
	Account        AccountSvcFacade
	FiscalPeriod   FiscalPeriodSvcFacade
	Fx             FxSvcFacade
	Posting        PostingSvcFacade
	Invoice        InvoiceSvcFacade
	Bill           BillSvcFacade
	Payroll        PayrollSvcFacade
	Reporting      ReportingSvcFacade
	Reconciliation ReconciliationSvcFacade
}
