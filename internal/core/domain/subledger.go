package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of a customer invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "DRAFT"
	InvoiceSent   InvoiceStatus = "SENT"
	InvoicePaid   InvoiceStatus = "PAID"
	InvoiceVoided InvoiceStatus = "VOIDED"
)

// Invoice is an accounts-receivable subledger document. It may not reach
// SENT without a committed journal entry; JournalEntryID is a weak
// back-reference stamped by the posting coordinator.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"` // Primary Key (UUID)
	LedgerID       string          `json:"ledgerID"`
	CustomerName   string          `json:"customerName"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Amount         decimal.Decimal `json:"amount"` // Transaction currency
	CurrencyCode   string          `json:"currencyCode"`
	BaseAmount     decimal.Decimal `json:"baseAmount"` // Frozen at posting time
	Status         InvoiceStatus   `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	AuditFields
}

// BillStatus is the lifecycle state of a vendor bill.
type BillStatus string

const (
	BillDraft    BillStatus = "DRAFT"
	BillApproved BillStatus = "APPROVED"
	BillPaid     BillStatus = "PAID"
	BillVoided   BillStatus = "VOIDED"
)

// Bill is an accounts-payable subledger document, the AP mirror of Invoice.
type Bill struct {
	BillID         string          `json:"billID"` // Primary Key (UUID)
	LedgerID       string          `json:"ledgerID"`
	VendorName     string          `json:"vendorName"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Amount         decimal.Decimal `json:"amount"`
	CurrencyCode   string          `json:"currencyCode"`
	BaseAmount     decimal.Decimal `json:"baseAmount"` // Frozen at posting time
	Status         BillStatus      `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	AuditFields
}

// PayrollStatus is the lifecycle state of a payroll run.
type PayrollStatus string

const (
	PayrollPending   PayrollStatus = "PENDING"
	PayrollDisbursed PayrollStatus = "DISBURSED"
)

// PayrollRun is a payroll disbursement batch. Disbursement and its journal
// entry commit as one atomic unit through the posting coordinator.
type PayrollRun struct {
	PayrollRunID   string          `json:"payrollRunID"` // Primary Key (UUID)
	LedgerID       string          `json:"ledgerID"`
	PeriodLabel    string          `json:"periodLabel"` // e.g. "2026-08"
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	CurrencyCode   string          `json:"currencyCode"`
	BaseAmount     decimal.Decimal `json:"baseAmount"` // Frozen at posting time
	Status         PayrollStatus   `json:"status"`
	DisbursedAt    *time.Time      `json:"disbursedAt,omitempty"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	AuditFields
}
