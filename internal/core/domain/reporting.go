package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is a single account's totals in a trial balance report.
// Net is debit-positive: debits add, credits subtract, regardless of
// account type.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Net         decimal.Decimal `json:"net"`
}

// AccountAmount pairs an account with a net base-currency amount.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// PLStatement is a profit and loss report over a posting-date range.
type PLStatement struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	CostOfGoods   []AccountAmount `json:"costOfGoods"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	TotalCOGS     decimal.Decimal `json:"totalCOGS"`
	NetProfit     decimal.Decimal `json:"netProfit"` // Revenue - COGS - Expenses
}

// CashSnapshot is the balance of every cash/bank-flagged account.
type CashSnapshot struct {
	AsOf     time.Time       `json:"asOf"`
	Accounts []AccountAmount `json:"accounts"`
	Total    decimal.Decimal `json:"total"`
}

// AgingSide selects receivable or payable aging.
type AgingSide string

const (
	AgingReceivable AgingSide = "AR"
	AgingPayable    AgingSide = "AP"
)

// AgingBucket is one due-date band of outstanding documents.
type AgingBucket struct {
	Label         string          `json:"label"` // CURRENT, 31-60, 61-90, 90+
	Amount        decimal.Decimal `json:"amount"`
	DocumentCount int             `json:"documentCount"`
}

// AgingBuckets is the AR or AP aging report. Total is the sum of the
// buckets and must equal ControlBalance; Variance surfaces any drift so
// a reconciliation run can be triggered.
type AgingBuckets struct {
	Side           AgingSide       `json:"side"`
	AsOf           time.Time       `json:"asOf"`
	Buckets        []AgingBucket   `json:"buckets"`
	Total          decimal.Decimal `json:"total"`
	ControlBalance decimal.Decimal `json:"controlBalance"`
	Variance       decimal.Decimal `json:"variance"`
}
