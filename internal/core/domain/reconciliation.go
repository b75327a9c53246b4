package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconScope selects which subledgers a reconciliation run covers.
type ReconScope string

const (
	ScopeReceivable ReconScope = "AR"
	ScopePayable    ReconScope = "AP"
	ScopeFull       ReconScope = "FULL"
)

// IsValid reports whether s is a known reconciliation scope.
func (s ReconScope) IsValid() bool {
	return s == ScopeReceivable || s == ScopePayable || s == ScopeFull
}

// ReconRunStatus is the outcome of a reconciliation run.
type ReconRunStatus string

const (
	ReconSuccess ReconRunStatus = "SUCCESS"
	ReconWarning ReconRunStatus = "WARNING"
	ReconFailed  ReconRunStatus = "FAILED"
)

// DiscrepancySeverity grades a variance between subledger and ledger.
type DiscrepancySeverity string

const (
	SeverityInfo     DiscrepancySeverity = "INFO"
	SeverityWarning  DiscrepancySeverity = "WARNING"
	SeverityCritical DiscrepancySeverity = "CRITICAL"
)

// Discrepancy is one expected-vs-actual mismatch found by a run.
type Discrepancy struct {
	DiscrepancyID    string              `json:"discrepancyID"` // Primary Key (UUID)
	RunID            string              `json:"runID"`
	Scope            ReconScope          `json:"scope"`
	ControlAccountID string              `json:"controlAccountID"`
	Expected         decimal.Decimal     `json:"expected"` // Sum of open subledger documents
	Actual           decimal.Decimal     `json:"actual"`   // Control-account trial balance
	Variance         decimal.Decimal     `json:"variance"` // Expected - Actual
	Severity         DiscrepancySeverity `json:"severity"`
	Description      string              `json:"description"`
	DetectedAt       time.Time           `json:"detectedAt"`
}

// GradeVariance maps a variance magnitude to a severity given the ledger
// tolerance. Within tolerance is informational; up to 100x tolerance is a
// warning; beyond that the books are considered materially out of balance.
func GradeVariance(variance, tolerance decimal.Decimal) DiscrepancySeverity {
	abs := variance.Abs()
	switch {
	case abs.LessThanOrEqual(tolerance):
		return SeverityInfo
	case abs.LessThanOrEqual(tolerance.Mul(decimal.NewFromInt(100))):
		return SeverityWarning
	default:
		return SeverityCritical
	}
}

// ReconciliationRun is the append-only audit record of one reconciliation
// pass. It is never mutated after creation and never auto-corrects the
// ledger; correction is a human-reviewed adjusting entry through the
// normal posting path.
type ReconciliationRun struct {
	RunID         string            `json:"runID"` // Primary Key (UUID)
	LedgerID      string            `json:"ledgerID"`
	Scope         ReconScope        `json:"scope"`
	Status        ReconRunStatus    `json:"status"`
	RunAt         time.Time         `json:"runAt"`
	RunBy         string            `json:"runBy"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Discrepancies []Discrepancy     `json:"discrepancies"`
}

// HasCritical reports whether any discrepancy in the run is critical.
func (r ReconciliationRun) HasCritical() bool {
	for _, d := range r.Discrepancies {
		if d.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
