package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupType is the nature of an account group. It is fixed when the group is created.
type GroupType string

const (
	GroupAsset     GroupType = "ASSET"
	GroupLiability GroupType = "LIABILITY"
	GroupIncome    GroupType = "INCOME"
	GroupExpense   GroupType = "EXPENSE"
)

func (t GroupType) Valid() bool {
	switch t {
	case GroupAsset, GroupLiability, GroupIncome, GroupExpense:
		return true
	}

	return false
}

// Side is the balance side an account naturally carries.
type Side string

const (
	SideDebit  Side = "Dr"
	SideCredit Side = "Cr"
)

// NaturalSide returns Dr for asset and expense groups, Cr for liability and income groups.
func (t GroupType) NaturalSide() Side {
	switch t {
	case GroupLiability, GroupIncome:
		return SideCredit
	}

	return SideDebit
}

// Group classifies account heads. Groups form a tree through ParentID.
type Group struct {
	ID        uuid.UUID
	Name      string
	Type      GroupType
	ParentID  *uuid.UUID
	CreatedAt time.Time
}

// Head is a ledger account. Type is taken from the owning group.
type Head struct {
	ID        uuid.UUID
	Name      string
	Code      string
	GroupID   uuid.UUID
	Type      GroupType // Loaded via JOIN
	CreatedAt time.Time
}

func (h Head) NaturalSide() Side {
	return h.Type.NaturalSide()
}

// CostCenter tags journal lines with a department or project.
type CostCenter struct {
	ID        uuid.UUID
	Name      string
	Code      string
	Budget    decimal.Decimal
	CreatedAt time.Time
}

// Well-known head codes resolved by Bootstrap.
const (
	CodeSalaries          = "SALARIES"
	CodeBank              = "BANK"
	CodeDeductionsPayable = "DEDUCTIONS_PAYABLE"
)

// WellKnown holds the ids of the fixed accounts used by automated postings.
// DeductionsPayable is uuid.Nil when the chart has no liability root group.
type WellKnown struct {
	Salaries          uuid.UUID
	Bank              uuid.UUID
	DeductionsPayable uuid.UUID
}
