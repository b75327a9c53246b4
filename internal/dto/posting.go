package dto

import (
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryHeader is the header of a posting request handed to the posting
// coordinator. PostingDate is the canonical report date and must fall in
// an open fiscal period.
type EntryHeader struct {
	EntryDate   time.Time         `json:"entryDate" binding:"required"`
	PostingDate time.Time         `json:"postingDate" binding:"required"`
	Description string            `json:"description" binding:"required,min=1"`
	Source      domain.SourceRef  `json:"source"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// LineSpec is one requested journal line in transaction currency. The
// coordinator freezes the exchange rate and computes the base amount.
type LineSpec struct {
	AccountID    string          `json:"accountID" binding:"required"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	Side         domain.LineSide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	Memo         string          `json:"memo"`
}

// CreateEntryRequest is the manual-journal posting payload. The
// idempotency key arrives in the Idempotency-Key header.
type CreateEntryRequest struct {
	Header EntryHeader `json:"header" binding:"required"`
	Lines  []LineSpec  `json:"lines" binding:"required,min=2,dive"`
}

// ReverseEntryRequest defines the payload for reversing a posted entry.
// PostingDate defaults to now and is still subject to the period gate.
type ReverseEntryRequest struct {
	Reason      string     `json:"reason" binding:"required,min=3"`
	PostingDate *time.Time `json:"postingDate,omitempty"`
}
