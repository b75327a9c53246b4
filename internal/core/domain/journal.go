package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryDraft    EntryStatus = "DRAFT"
	EntryPosted   EntryStatus = "POSTED"
	EntryReversed EntryStatus = "REVERSED"
)

// SourceType identifies the kind of source document an entry was posted for.
type SourceType string

const (
	SourceManual  SourceType = "MANUAL"
	SourceInvoice SourceType = "INVOICE"
	SourceBill    SourceType = "BILL"
	SourcePayroll SourceType = "PAYROLL"
)

// SourceRef points at the subledger document that produced an entry.
// DocumentID is empty for manual entries.
type SourceRef struct {
	Type       SourceType `json:"type"`
	DocumentID string     `json:"documentID,omitempty"`
}

// JournalEntry represents a single balanced financial event composed of
// two or more journal lines. Once Status is POSTED the entry and its lines
// are immutable; the only permitted follow-up is a reversal, which creates
// a new mirror entry and links both ways.
//
// PostingDate is the canonical date used by every report and by the fiscal
// period gate. EntryDate records when the event was captured and may differ
// for back-dated or accrual entries.
type JournalEntry struct {
	EntryID           string            `json:"entryID"`     // Primary Key (UUID)
	LedgerID          string            `json:"ledgerID"`    // FK -> ledgers.ledger_id
	EntryNumber       int64             `json:"entryNumber"` // Unique per ledger, assigned at creation
	EntryDate         time.Time         `json:"entryDate"`
	PostingDate       time.Time         `json:"postingDate"`
	FiscalPeriodID    string            `json:"fiscalPeriodID"` // Resolved from PostingDate at post time
	Description       string            `json:"description"`
	Source            SourceRef         `json:"source"`
	Status            EntryStatus       `json:"status"`
	PostedAt          *time.Time        `json:"postedAt,omitempty"`
	PostedBy          string            `json:"postedBy,omitempty"`
	ReversesEntryID   *string           `json:"reversesEntryID,omitempty"`   // Set on the mirror entry
	ReversedByEntryID *string           `json:"reversedByEntryID,omitempty"` // Set on the original entry
	Metadata          map[string]string `json:"metadata,omitempty"`          // Structured audit context
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"` // Often loaded separately
}

// IsReversal reports whether the entry is the mirror side of a reversal.
func (e JournalEntry) IsReversal() bool {
	return e.ReversesEntryID != nil
}

// LineSide indicates whether a journal line is a debit or a credit.
type LineSide string

const (
	Debit  LineSide = "DEBIT"
	Credit LineSide = "CREDIT"
)

// Opposite returns the mirrored side, used when building reversal lines.
func (s LineSide) Opposite() LineSide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalLine is one debit or credit movement against a single account.
// Amount is the positive transaction-currency amount; BaseAmount is the
// base-currency equivalent computed with ExchangeRate at posting time and
// rounded half-even to 2 places. The rate is frozen into the line: later
// rate corrections never alter historical base amounts.
type JournalLine struct {
	LineID       string          `json:"lineID"`  // Primary Key (UUID)
	EntryID      string          `json:"entryID"` // FK -> journal_entries.entry_id
	AccountID    string          `json:"accountID"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	Side         LineSide        `json:"side"`
	Amount       decimal.Decimal `json:"amount"` // Positive, transaction currency
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	BaseAmount   decimal.Decimal `json:"baseAmount"` // 2dp, half-even
	Memo         string          `json:"memo"`
	AuditFields
}
