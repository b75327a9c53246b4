package dto

import (
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines the payload for creating a draft invoice.
type CreateInvoiceRequest struct {
	CustomerName string          `json:"customerName" binding:"required,min=1,max=200"`
	IssueDate    time.Time       `json:"issueDate" binding:"required"`
	DueDate      time.Time       `json:"dueDate" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
}

// SendInvoiceRequest posts a draft invoice to the ledger: AR control
// account debit, the named revenue account credit.
type SendInvoiceRequest struct {
	RevenueAccountID string     `json:"revenueAccountID" binding:"required"`
	PostingDate      *time.Time `json:"postingDate,omitempty"`
}

// CreateBillRequest defines the payload for creating a draft bill.
type CreateBillRequest struct {
	VendorName   string          `json:"vendorName" binding:"required,min=1,max=200"`
	IssueDate    time.Time       `json:"issueDate" binding:"required"`
	DueDate      time.Time       `json:"dueDate" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
}

// ApproveBillRequest posts a draft bill: expense account debit, AP control
// account credit.
type ApproveBillRequest struct {
	ExpenseAccountID string     `json:"expenseAccountID" binding:"required"`
	PostingDate      *time.Time `json:"postingDate,omitempty"`
}

// CreatePayrollRunRequest defines the payload for creating a payroll run.
type CreatePayrollRunRequest struct {
	PeriodLabel  string          `json:"periodLabel" binding:"required,min=1,max=20"`
	TotalAmount  decimal.Decimal `json:"totalAmount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
}

// DisbursePayrollRequest posts a payroll run: payroll expense debit, cash
// account credit, atomically with the status flip.
type DisbursePayrollRequest struct {
	ExpenseAccountID string     `json:"expenseAccountID" binding:"required"`
	CashAccountID    string     `json:"cashAccountID" binding:"required"`
	PostingDate      *time.Time `json:"postingDate,omitempty"`
}

// VoidInvoiceRequest defines the payload for voiding a sent invoice.
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// VoidBillRequest defines the payload for voiding an approved bill.
type VoidBillRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	CustomerName   string               `json:"customerName"`
	IssueDate      time.Time            `json:"issueDate"`
	DueDate        time.Time            `json:"dueDate"`
	Amount         decimal.Decimal      `json:"amount"`
	CurrencyCode   string               `json:"currencyCode"`
	BaseAmount     decimal.Decimal      `json:"baseAmount"`
	Status         domain.InvoiceStatus `json:"status"`
	JournalEntryID *string              `json:"journalEntryID,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to its response DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		CustomerName:   inv.CustomerName,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		Amount:         inv.Amount,
		CurrencyCode:   inv.CurrencyCode,
		BaseAmount:     inv.BaseAmount,
		Status:         inv.Status,
		JournalEntryID: inv.JournalEntryID,
	}
}

// BillResponse defines the data returned for a bill.
type BillResponse struct {
	BillID         string            `json:"billID"`
	VendorName     string            `json:"vendorName"`
	IssueDate      time.Time         `json:"issueDate"`
	DueDate        time.Time         `json:"dueDate"`
	Amount         decimal.Decimal   `json:"amount"`
	CurrencyCode   string            `json:"currencyCode"`
	BaseAmount     decimal.Decimal   `json:"baseAmount"`
	Status         domain.BillStatus `json:"status"`
	JournalEntryID *string           `json:"journalEntryID,omitempty"`
}

// ToBillResponse converts a domain.Bill to its response DTO.
func ToBillResponse(b *domain.Bill) BillResponse {
	return BillResponse{
		BillID:         b.BillID,
		VendorName:     b.VendorName,
		IssueDate:      b.IssueDate,
		DueDate:        b.DueDate,
		Amount:         b.Amount,
		CurrencyCode:   b.CurrencyCode,
		BaseAmount:     b.BaseAmount,
		Status:         b.Status,
		JournalEntryID: b.JournalEntryID,
	}
}

// PayrollRunResponse defines the data returned for a payroll run.
type PayrollRunResponse struct {
	PayrollRunID   string               `json:"payrollRunID"`
	PeriodLabel    string               `json:"periodLabel"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	CurrencyCode   string               `json:"currencyCode"`
	BaseAmount     decimal.Decimal      `json:"baseAmount"`
	Status         domain.PayrollStatus `json:"status"`
	DisbursedAt    *time.Time           `json:"disbursedAt,omitempty"`
	JournalEntryID *string              `json:"journalEntryID,omitempty"`
}

// ToPayrollRunResponse converts a domain.PayrollRun to its response DTO.
func ToPayrollRunResponse(r *domain.PayrollRun) PayrollRunResponse {
	return PayrollRunResponse{
		PayrollRunID:   r.PayrollRunID,
		PeriodLabel:    r.PeriodLabel,
		TotalAmount:    r.TotalAmount,
		CurrencyCode:   r.CurrencyCode,
		BaseAmount:     r.BaseAmount,
		Status:         r.Status,
		DisbursedAt:    r.DisbursedAt,
		JournalEntryID: r.JournalEntryID,
	}
}
