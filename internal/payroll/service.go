package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

var (
	ErrInvalidPeriod     = errors.New("invalid payroll period")
	ErrInvalidBasis      = errors.New("invalid payroll basis")
	ErrAlreadyRecorded   = errors.New("payroll already recorded for employee and period")
	ErrRunNotRecorded    = errors.New("payroll voucher posted but run not recorded")
	ErrNegativeNetSalary = errors.New("deductions exceed gross salary")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payroll
type Repository interface {
	// PendingEmployees returns the active employees among ids that have no
	// payroll run for period. Empty ids selects nobody.
	PendingEmployees(ctx context.Context, ids []uuid.UUID, period Period) ([]*Employee, error)

	// AllPendingEmployees returns every active employee with no payroll run for
	// period.
	AllPendingEmployees(ctx context.Context, period Period) ([]*Employee, error)

	// RecordRun marks every employee as paid for period by voucherID. It writes
	// all rows or none.
	RecordRun(ctx context.Context, period Period, voucherID uuid.UUID, employees []*Employee) error
}

// Poster writes to the journal.
type Poster interface {
	Post(ctx context.Context, in voucher.Input) (*voucher.Voucher, error)
	Reverse(ctx context.Context, id uuid.UUID, date time.Time, narration string) (*voucher.Voucher, error)
}

type Service struct {
	repo   Repository
	poster Poster
	now    func() time.Time

	mu       sync.RWMutex
	accounts ledger.WellKnown
}

// NewService takes the heads resolved by seeding the chart of accounts. Posting
// never creates accounts itself.
func NewService(repo Repository, poster Poster, accounts ledger.WellKnown) *Service {
	return &Service{
		repo:     repo,
		poster:   poster,
		accounts: accounts,
		now:      time.Now,
	}
}

// SetAccounts replaces the heads used by later posts, e.g. after the chart of
// accounts has been reseeded.
func (s *Service) SetAccounts(wk ledger.WellKnown) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = wk
}

func (s *Service) wellKnown() ledger.WellKnown {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accounts
}

// Post pays the pending employees among req.EmployeeIDs for req.Period with a
// single PAYMENT voucher. When nobody is pending, including when no employee
// was named, it returns an empty Summary and posts nothing.
func (s *Service) Post(ctx context.Context, req Request) (*Summary, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	employees, err := s.pending(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("loading employees: %w", err)
	}

	sum := &Summary{Basis: req.Basis, Period: req.Period}
	if len(employees) == 0 {
		slog.Info("no staff pending payroll", "period", req.Period.String())
		return sum, nil
	}

	for _, e := range employees {
		sum.Gross = sum.Gross.Add(e.Gross())
		sum.Deductions = sum.Deductions.Add(e.Deductions())
	}

	sum.Count = len(employees)
	sum.Net = sum.Gross.Sub(sum.Deductions)
	sum.Total = sum.Gross

	if req.Basis == BasisNet && sum.Net.IsNegative() {
		return nil, fmt.Errorf("%w: gross %s, deductions %s", ErrNegativeNetSalary, sum.Gross, sum.Deductions)
	}

	in, err := payrollVoucher(req, sum, s.wellKnown())
	if err != nil {
		return nil, err
	}

	v, err := s.poster.Post(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("posting payroll voucher: %w", err)
	}

	sum.Voucher = v

	if err := s.repo.RecordRun(ctx, req.Period, v.ID, employees); err != nil {
		return nil, s.compensate(ctx, v, err)
	}

	slog.Info("payroll posted",
		"period", req.Period.String(),
		"voucher", v.Number,
		"employees", sum.Count,
		"total", sum.Total.StringFixed(2),
	)

	return sum, nil
}

func (s *Service) pending(ctx context.Context, req Request) ([]*Employee, error) {
	if req.AllActive {
		return s.repo.AllPendingEmployees(ctx, req.Period)
	}

	if len(req.EmployeeIDs) == 0 {
		return nil, nil
	}

	return s.repo.PendingEmployees(ctx, req.EmployeeIDs, req.Period)
}

// compensate reverses a payroll voucher whose run could not be recorded, so
// the journal and payroll status stay in agreement.
func (s *Service) compensate(ctx context.Context, v *voucher.Voucher, cause error) error {
	err := fmt.Errorf("%w: %w", ErrRunNotRecorded, cause)

	rev, rerr := s.poster.Reverse(ctx, v.ID, v.Date, "Payroll run not recorded for "+v.Number)
	if rerr != nil {
		slog.Error("failed to reverse unrecorded payroll voucher", "voucher", v.Number, "error", rerr)
		return errors.Join(err, fmt.Errorf("reversing %s: %w", v.Number, rerr))
	}

	slog.Warn("payroll voucher reversed", "voucher", v.Number, "reversal", rev.Number, "error", cause)

	return err
}

func (s *Service) normalize(req Request) (Request, error) {
	if req.Date.IsZero() {
		req.Date = s.now()
	}

	if req.Period.IsZero() {
		req.Period = PeriodOf(req.Date)
	}

	if !req.Period.Valid() {
		return req, fmt.Errorf("%w: %d-%d", ErrInvalidPeriod, req.Period.Year, req.Period.Month)
	}

	if req.Basis == "" {
		req.Basis = BasisGross
	}

	if !req.Basis.Valid() {
		return req, fmt.Errorf("%w: %q", ErrInvalidBasis, req.Basis)
	}

	return req, nil
}

func payrollVoucher(req Request, sum *Summary, wk ledger.WellKnown) (voucher.Input, error) {
	if wk.Salaries == uuid.Nil {
		return voucher.Input{}, &ledger.MissingGroupError{Type: ledger.GroupExpense}
	}

	if wk.Bank == uuid.Nil {
		return voucher.Input{}, &ledger.MissingGroupError{Type: ledger.GroupAsset}
	}

	in := voucher.Input{
		Date:      req.Date,
		Type:      voucher.TypePayment,
		Narration: fmt.Sprintf("Salaries for %s %d (%d employees)", req.Period.Month, req.Period.Year, sum.Count),
		Reference: "PAYROLL-" + req.Period.String(),
		Entries: []voucher.EntryInput{
			{AccountID: wk.Salaries, Debit: sum.Gross, Credit: decimal.Zero},
		},
	}

	if req.Basis == BasisGross || sum.Deductions.IsZero() {
		in.Entries = append(in.Entries, voucher.EntryInput{AccountID: wk.Bank, Debit: decimal.Zero, Credit: sum.Gross})
		return in, nil
	}

	if wk.DeductionsPayable == uuid.Nil {
		return voucher.Input{}, &ledger.MissingGroupError{Type: ledger.GroupLiability}
	}

	in.Entries = append(in.Entries,
		voucher.EntryInput{AccountID: wk.Bank, Debit: decimal.Zero, Credit: sum.Net},
		voucher.EntryInput{AccountID: wk.DeductionsPayable, Debit: decimal.Zero, Credit: sum.Deductions},
	)

	return in, nil
}
