package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

const StatusActive = "ACTIVE"

// Employee is the salary record kept by HR. Payroll only reads it.
type Employee struct {
	ID          uuid.UUID
	Name        string
	BasicSalary decimal.Decimal
	HRA         decimal.Decimal
	Allowances  decimal.Decimal
	PFDeduction decimal.Decimal
	PTDeduction decimal.Decimal
	Status      string
}

func (e *Employee) Gross() decimal.Decimal {
	return e.BasicSalary.Add(e.HRA).Add(e.Allowances)
}

func (e *Employee) Deductions() decimal.Decimal {
	return e.PFDeduction.Add(e.PTDeduction)
}

func (e *Employee) Net() decimal.Decimal {
	return e.Gross().Sub(e.Deductions())
}

// Period is the calendar month a payroll run pays for.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= time.January && p.Month <= time.December
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Basis selects how the payroll voucher treats deductions.
type Basis string

const (
	// BasisGross credits the bank with the full gross pay.
	BasisGross Basis = "GROSS"
	// BasisNet credits the bank with net pay and parks deductions in a payable.
	BasisNet Basis = "NET"
)

func (b Basis) Valid() bool {
	return b == BasisGross || b == BasisNet
}

type Request struct {
	EmployeeIDs []uuid.UUID // empty pays nobody unless AllActive is set
	AllActive   bool        // pay every active employee, ignoring EmployeeIDs
	Period      Period      // zero means the period of Date
	Date        time.Time   // zero means today
	Basis       Basis       // empty means BasisGross
}

// Summary reports a payroll run. A run with no pending employees has Count 0
// and no voucher.
type Summary struct {
	Count      int
	Total      decimal.Decimal
	Gross      decimal.Decimal
	Deductions decimal.Decimal
	Net        decimal.Decimal
	Basis      Basis
	Period     Period
	Voucher    *voucher.Voucher
}

func (s *Summary) Empty() bool {
	return s.Count == 0
}
