package dto

import (
	"time"

	"github.com/openbooks/ledger_engine/internal/core/domain"
)

// CreatePeriodRequest defines the payload for creating a fiscal period.
type CreatePeriodRequest struct {
	Year      int       `json:"year" binding:"required,min=1900,max=2200"`
	Sequence  int       `json:"sequence" binding:"required,min=1,max=53"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// ReopenPeriodRequest carries the mandatory justification for reopening a
// closed or locked period.
type ReopenPeriodRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// PeriodResponse defines the data returned for a fiscal period.
type PeriodResponse struct {
	PeriodID  string              `json:"periodID"`
	Year      int                 `json:"year"`
	Sequence  int                 `json:"sequence"`
	StartDate time.Time           `json:"startDate"`
	EndDate   time.Time           `json:"endDate"`
	Status    domain.PeriodStatus `json:"status"`
}

// ToPeriodResponse converts a domain.FiscalPeriod to its response DTO.
func ToPeriodResponse(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		Year:      p.Year,
		Sequence:  p.Sequence,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status,
	}
}
