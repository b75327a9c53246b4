package dto

import (
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	Side         string          `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	BaseAmount   decimal.Decimal `json:"baseAmount"`
	Memo         string          `json:"memo"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID           string            `json:"entryID"`
	EntryNumber       int64             `json:"entryNumber"`
	EntryDate         time.Time         `json:"entryDate"`
	PostingDate       time.Time         `json:"postingDate"`
	FiscalPeriodID    string            `json:"fiscalPeriodID,omitempty"`
	Description       string            `json:"description"`
	Source            domain.SourceRef  `json:"source"`
	Status            domain.EntryStatus `json:"status"`
	PostedAt          *time.Time        `json:"postedAt,omitempty"`
	PostedBy          string            `json:"postedBy,omitempty"`
	ReversesEntryID   *string           `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string           `json:"reversedByEntryID,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	Lines             []LineResponse    `json:"lines,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to its response DTO.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:       l.LineID,
		AccountID:    l.AccountID,
		CostCenterID: l.CostCenterID,
		Side:         string(l.Side),
		Amount:       l.Amount,
		CurrencyCode: l.CurrencyCode,
		ExchangeRate: l.ExchangeRate,
		BaseAmount:   l.BaseAmount,
		Memo:         l.Memo,
	}
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO,
// including lines when loaded.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		PostingDate:       e.PostingDate,
		FiscalPeriodID:    e.FiscalPeriodID,
		Description:       e.Description,
		Source:            e.Source,
		Status:            e.Status,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		Metadata:          e.Metadata,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToLineResponse(&e.Lines[i])
		}
	}
	return resp
}
