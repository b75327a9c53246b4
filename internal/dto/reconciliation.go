package dto

import (
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RunReconciliationRequest defines the payload for triggering a run.
type RunReconciliationRequest struct {
	Scope domain.ReconScope `json:"scope" binding:"required,oneof=AR AP FULL"`
}

// DiscrepancyResponse defines the data returned for one discrepancy.
type DiscrepancyResponse struct {
	DiscrepancyID    string                     `json:"discrepancyID"`
	Scope            domain.ReconScope          `json:"scope"`
	ControlAccountID string                     `json:"controlAccountID"`
	Expected         decimal.Decimal            `json:"expected"`
	Actual           decimal.Decimal            `json:"actual"`
	Variance         decimal.Decimal            `json:"variance"`
	Severity         domain.DiscrepancySeverity `json:"severity"`
	Description      string                     `json:"description"`
}

// ReconciliationRunResponse defines the data returned for a run.
type ReconciliationRunResponse struct {
	RunID         string                `json:"runID"`
	Scope         domain.ReconScope     `json:"scope"`
	Status        domain.ReconRunStatus `json:"status"`
	RunAt         time.Time             `json:"runAt"`
	RunBy         string                `json:"runBy"`
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
}

// ToReconciliationRunResponse converts a domain run to its response DTO.
func ToReconciliationRunResponse(run *domain.ReconciliationRun) ReconciliationRunResponse {
	resp := ReconciliationRunResponse{
		RunID:         run.RunID,
		Scope:         run.Scope,
		Status:        run.Status,
		RunAt:         run.RunAt,
		RunBy:         run.RunBy,
		Discrepancies: make([]DiscrepancyResponse, len(run.Discrepancies)),
	}
	for i, d := range run.Discrepancies {
		resp.Discrepancies[i] = DiscrepancyResponse{
			DiscrepancyID:    d.DiscrepancyID,
			Scope:            d.Scope,
			ControlAccountID: d.ControlAccountID,
			Expected:         d.Expected,
			Actual:           d.Actual,
			Variance:         d.Variance,
			Severity:         d.Severity,
			Description:      d.Description,
		}
	}
	return resp
}
