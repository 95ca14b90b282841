package voucher

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/ledger"
)

// Type is the kind of business event a voucher records.
type Type string

const (
	TypePayment Type = "PAYMENT"
	TypeReceipt Type = "RECEIPT"
	TypeJournal Type = "JOURNAL"
	TypeContra  Type = "CONTRA"
)

func (t Type) Valid() bool {
	switch t {
	case TypePayment, TypeReceipt, TypeJournal, TypeContra:
		return true
	}

	return false
}

// Status is the lifecycle state of a voucher. Only posted vouchers exist.
type Status string

const StatusPosted Status = "POSTED"

// DefaultCurrency is the currency assumed for entries that name none.
const DefaultCurrency = "INR"

// Tolerance is the largest debit/credit difference treated as rounding noise.
var Tolerance = decimal.New(1, -2)

// Voucher is a posted double-entry transaction. It is never modified; a
// correction is a new voucher with ReversalOf pointing at the original.
type Voucher struct {
	ID         uuid.UUID
	Number     string
	Date       time.Time
	Type       Type
	Narration  string
	Reference  string
	Status     Status
	ReversalOf *uuid.UUID
	Entries    []Entry
	CreatedAt  time.Time
}

// Totals returns the summed debit and credit sides.
func (v *Voucher) Totals() (debit, credit decimal.Decimal) {
	return sumEntries(v.Entries)
}

// Entry is one journal line of a voucher.
type Entry struct {
	ID            uuid.UUID
	VoucherID     uuid.UUID
	AccountID     uuid.UUID
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Currency      string
	ExchangeRate  decimal.Decimal
	CostCenterID  *uuid.UUID
	ForeignAmount *decimal.Decimal // set for entries not in the base currency
}

func sumEntries(entries []Entry) (debit, credit decimal.Decimal) {
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}

	return debit, credit
}

// Input is a voucher to post.
type Input struct {
	Date      time.Time
	Type      Type
	Narration string
	Reference string
	Entries   []EntryInput
}

type EntryInput struct {
	AccountID    uuid.UUID
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Currency     string          // empty means DefaultCurrency
	ExchangeRate decimal.Decimal // zero means 1
	CostCenterID *uuid.UUID
}

type ListFilter struct {
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
}

// Balance is an account's position derived from the journal as of a date.
// Amount is signed so that a positive value lies on the account's natural side.
type Balance struct {
	AccountID   uuid.UUID
	AccountName string
	AccountCode string
	Side        ledger.Side
	AsOf        time.Time
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Amount      decimal.Decimal
}

func (b *Balance) settle() {
	if b.Side == ledger.SideCredit {
		b.Amount = b.Credit.Sub(b.Debit)
		return
	}

	b.Amount = b.Debit.Sub(b.Credit)
}
