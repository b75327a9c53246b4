package domain

import "time"

// PeriodStatus is the state of a fiscal period's gate.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// FiscalPeriod is a bounded calendar range gating whether postings dated
// within it are permitted. Periods for one ledger are contiguous and
// non-overlapping; transitions run OPEN -> CLOSED -> LOCKED, with an
// audited administrative reopen back to OPEN.
type FiscalPeriod struct {
	PeriodID  string       `json:"periodID"` // Primary Key (UUID)
	LedgerID  string       `json:"ledgerID"` // FK -> ledgers.ledger_id
	Year      int          `json:"year"`
	Sequence  int          `json:"sequence"` // e.g. month number within the year
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"` // Inclusive
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether d falls inside the period (date precision).
func (p FiscalPeriod) Contains(d time.Time) bool {
	day := d.Truncate(24 * time.Hour)
	return !day.Before(p.StartDate.Truncate(24*time.Hour)) && !day.After(p.EndDate.Truncate(24*time.Hour))
}

// PeriodAuditEvent records a period status transition (close, lock, reopen).
// Append-only; every reopen carries the reason supplied by the administrator.
type PeriodAuditEvent struct {
	EventID    string       `json:"eventID"` // Primary Key (UUID)
	PeriodID   string       `json:"periodID"`
	FromStatus PeriodStatus `json:"fromStatus"`
	ToStatus   PeriodStatus `json:"toStatus"`
	Reason     string       `json:"reason"`
	ChangedBy  string       `json:"changedBy"`
	ChangedAt  time.Time    `json:"changedAt"`
}
