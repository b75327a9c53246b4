package services

import "errors"

// Posting errors.
var (
	// ErrUnbalanced indicates base-currency debits do not equal credits.
	ErrUnbalanced = errors.New("entry is not balanced")

	// ErrNotPosted indicates an operation that requires a posted entry.
	ErrNotPosted = errors.New("entry is not posted")

	// ErrAlreadyReversed indicates the entry already has a reversal.
	ErrAlreadyReversed = errors.New("entry is already reversed")
)

// Fiscal period errors.
var (
	// ErrPeriodClosed indicates the posting date falls in a closed period.
	ErrPeriodClosed = errors.New("fiscal period is closed")

	// ErrPeriodLocked indicates the posting date falls in a locked period.
	ErrPeriodLocked = errors.New("fiscal period is locked")

	// ErrNoPeriodDefined indicates no fiscal period covers the posting date.
	ErrNoPeriodDefined = errors.New("no fiscal period covers the posting date")
)

// Account errors.
var (
	// ErrAccountInUse indicates the account still has non-reversed lines in
	// open periods and cannot be deactivated.
	ErrAccountInUse = errors.New("account is referenced by active postings")

	// ErrAccountInactive indicates a posting referenced a deactivated account.
	ErrAccountInactive = errors.New("account is inactive")
)

// Currency errors.
var (
	// ErrNoRateFound indicates no exchange rate is effective for the pair on
	// the requested date.
	ErrNoRateFound = errors.New("no effective exchange rate found")
)
