package dto

import (
	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// CreateLedgerRequest defines the payload for creating a ledger.
type CreateLedgerRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=100"`
	BaseCurrencyCode string `json:"baseCurrencyCode" binding:"required,len=3"`
}

// LedgerResponse defines the data returned for a ledger.
type LedgerResponse struct {
	LedgerID         string `json:"ledgerID"`
	Name             string `json:"name"`
	BaseCurrencyCode string `json:"baseCurrencyCode"`
}

// ToLedgerResponse converts a domain.Ledger to its response DTO.
func ToLedgerResponse(l *domain.Ledger) LedgerResponse {
	return LedgerResponse{
		LedgerID:         l.LedgerID,
		Name:             l.Name,
		BaseCurrencyCode: l.BaseCurrencyCode,
	}
}
