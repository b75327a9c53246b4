package dto

import (
	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,min=1,max=20"`
	Name            string             `json:"name" binding:"required,min=1,max=100"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,accounttype"`
	ParentAccountID *string            `json:"parentAccountID,omitempty"`
	Description     string             `json:"description"`
	IsCash          bool               `json:"isCash"`
	ControlRole     domain.ControlRole `json:"controlRole" binding:"omitempty,oneof=AR AP"`
}

// UpdateAccountRequest defines the payload for updating mutable account
// fields. Account type and code are immutable through this surface.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	LedgerID        string             `json:"ledgerID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID *string            `json:"parentAccountID,omitempty"`
	Description     string             `json:"description"`
	IsCash          bool               `json:"isCash"`
	ControlRole     domain.ControlRole `json:"controlRole"`
	IsActive        bool               `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		LedgerID:        a.LedgerID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     a.AccountType,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsCash:          a.IsCash,
		ControlRole:     a.ControlRole,
		IsActive:        a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
