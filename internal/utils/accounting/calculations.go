package accounting

import (
	"fmt"

	"github.com/openbooks/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BaseScale is the fixed decimal precision of base-currency amounts.
const BaseScale = 2

// NormalizeBase converts a transaction-currency amount to base currency and
// rounds half-even at the line level, so summed lines are stable and
// reproducible regardless of entry totals.
func NormalizeBase(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).RoundBank(BaseScale)
}

// EntryTotals returns the debit and credit sums of a set of lines in base
// currency.
func EntryTotals(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		if line.Side == domain.Debit {
			debits = debits.Add(line.BaseAmount)
		} else {
			credits = credits.Add(line.BaseAmount)
		}
	}
	return debits, credits
}

// ValidateEntryBalance checks the double-entry invariant on a set of lines:
// at least two lines, positive amounts, and base-currency debits exactly
// equal to base-currency credits. Tolerance is zero on purpose; base
// amounts are fixed-point, so equality is exact after normalization.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("entry must have at least two lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("line amount must be positive for account %s", line.AccountID)
		}
		if line.Side != domain.Debit && line.Side != domain.Credit {
			return fmt.Errorf("unknown line side %q for account %s", line.Side, line.AccountID)
		}
	}
	debits, credits := EntryTotals(lines)
	if !debits.Equal(credits) {
		return fmt.Errorf("debits %s do not equal credits %s (imbalance %s)",
			debits.String(), credits.String(), debits.Sub(credits).String())
	}
	return nil
}

// SignedAmount returns the debit-positive contribution of a line to its
// account balance: debits add, credits subtract. This is the single sign
// convention every canonical view is computed with.
func SignedAmount(line domain.JournalLine) decimal.Decimal {
	if line.Side == domain.Debit {
		return line.BaseAmount
	}
	return line.BaseAmount.Neg()
}
