package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset       AccountType = "ASSET"
	Liability   AccountType = "LIABILITY"
	Equity      AccountType = "EQUITY"
	Revenue     AccountType = "REVENUE"
	Expense     AccountType = "EXPENSE"
	CostOfGoods AccountType = "COGS"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense, CostOfGoods:
		return true
	}
	return false
}

// ControlRole marks an account as the control account for a subledger.
// The reconciliation job compares the control-account balance against the
// sum of the matching open subledger documents.
type ControlRole string

const (
	ControlNone       ControlRole = ""
	ControlReceivable ControlRole = "AR"
	ControlPayable    ControlRole = "AP"
)

// Account represents a node in the chart of accounts.
// AccountType is immutable once any posted journal line references the
// account; accounts referenced by history are never hard-deleted, only
// deactivated so they stop accepting new postings.
type Account struct {
	AccountID       string      `json:"accountID"` // Primary Key (UUID)
	LedgerID        string      `json:"ledgerID"`  // FK -> ledgers.ledger_id
	Code            string      `json:"code"`      // Unique per ledger
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"` // Nullable, self-referencing
	Description     string      `json:"description"`
	IsCash          bool        `json:"isCash"`      // Included in the cash position view
	ControlRole     ControlRole `json:"controlRole"` // AR/AP control account marker
	IsActive        bool        `json:"isActive"`
	AuditFields
}
