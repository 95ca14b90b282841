package voucher

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("voucher not found")
	ErrInvalidType         = errors.New("invalid voucher type")
	ErrNoEntries           = errors.New("voucher has no entries")
	ErrNegativeAmount      = errors.New("entry amounts must not be negative")
	ErrInvalidExchangeRate = errors.New("exchange rate must be positive")
	ErrUnbalanced          = errors.New("unbalanced transaction")
	ErrNumberConflict      = errors.New("voucher number already taken")
	ErrUnknownAccount      = errors.New("unknown account or cost center")
	ErrAlreadyReversed     = errors.New("voucher already reversed")
	ErrReversalOfReversal  = errors.New("a reversal cannot itself be reversed")
)

// UnbalancedError is returned when debits and credits differ by more than Tolerance.
type UnbalancedError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced transaction: debits %s != credits %s",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
}

func (e *UnbalancedError) Is(target error) bool {
	return target == ErrUnbalanced
}

// PersistenceError wraps a storage failure during posting. Retryable is true
// when the failure was a voucher number conflict that outlasted every retry.
type PersistenceError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("voucher: %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
