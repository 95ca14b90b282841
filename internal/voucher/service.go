package voucher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=voucher
type Repository interface {
	GetVoucher(ctx context.Context, id uuid.UUID) (*Voucher, error)
	ListVouchers(ctx context.Context, filter ListFilter) ([]*Voucher, error)

	// AccountTotals sums an account's debits and credits over vouchers dated on
	// or before asOf. Amount is left for the caller to derive.
	AccountTotals(ctx context.Context, accountID uuid.UUID, asOf time.Time) (*Balance, error)
	AllAccountTotals(ctx context.Context, asOf time.Time) ([]*Balance, error)

	BeginPost(ctx context.Context) (PostTx, error)
}

// PostTx writes one voucher atomically. NextSequence increments the per-type
// counter under a row lock held until Commit or Rollback. CreateVoucher returns
// ErrNumberConflict when the number is taken and leaves the transaction usable,
// so the caller can draw the next sequence value and try again.
type PostTx interface {
	NextSequence(ctx context.Context, t Type) (int64, error)
	CreateVoucher(ctx context.Context, v *Voucher) error
	Commit() error
	Rollback() error
}

// Listener is called after a voucher has been committed.
type Listener func(ctx context.Context, v *Voucher)

type Service struct {
	repo         Repository
	maxAttempts  int
	baseCurrency string

	mu        sync.RWMutex
	listeners []Listener
}

type Option func(*Service)

// WithMaxAttempts bounds how many times a post is attempted when its voucher
// number collides with an existing one.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithBaseCurrency(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.baseCurrency = strings.ToUpper(code)
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		maxAttempts:  5,
		baseCurrency: DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OnPosted registers a listener for committed vouchers.
func (s *Service) OnPosted(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, l)
}

// Post validates the input, numbers it and writes the voucher with all of its
// entries in one transaction. Nothing is written when validation fails.
func (s *Service) Post(ctx context.Context, in Input) (*Voucher, error) {
	v, err := s.build(in)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

// Reverse posts a voucher that offsets id entry for entry. A zero date reuses
// the original voucher's date.
func (s *Service) Reverse(ctx context.Context, id uuid.UUID, date time.Time, narration string) (*Voucher, error) {
	orig, err := s.repo.GetVoucher(ctx, id)
	if err != nil {
		return nil, err
	}

	if orig.ReversalOf != nil {
		return nil, ErrReversalOfReversal
	}

	if date.IsZero() {
		date = orig.Date
	}

	if narration == "" {
		narration = "Reversal of " + orig.Number
	}

	in := Input{
		Date:      date,
		Type:      orig.Type,
		Narration: narration,
		Reference: orig.Number,
		Entries:   make([]EntryInput, 0, len(orig.Entries)),
	}

	for _, e := range orig.Entries {
		in.Entries = append(in.Entries, EntryInput{
			AccountID:    e.AccountID,
			Debit:        e.Credit,
			Credit:       e.Debit,
			Currency:     e.Currency,
			ExchangeRate: e.ExchangeRate,
			CostCenterID: e.CostCenterID,
		})
	}

	v, err := s.build(in)
	if err != nil {
		return nil, err
	}

	v.ReversalOf = &orig.ID

	if err := s.commit(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Voucher, error) {
	return s.repo.GetVoucher(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Voucher, error) {
	return s.repo.ListVouchers(ctx, filter)
}

// Balance derives an account's balance from the journal as of asOf.
func (s *Service) Balance(ctx context.Context, accountID uuid.UUID, asOf time.Time) (*Balance, error) {
	b, err := s.repo.AccountTotals(ctx, accountID, dateOnly(asOf))
	if err != nil {
		return nil, err
	}

	b.settle()

	return b, nil
}

// TrialBalance derives every account's balance as of asOf.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) ([]*Balance, error) {
	bs, err := s.repo.AllAccountTotals(ctx, dateOnly(asOf))
	if err != nil {
		return nil, err
	}

	for _, b := range bs {
		b.settle()
	}

	return bs, nil
}

// TrialTotals places each account's net movement in the debit or credit column
// and sums both columns. They agree whenever every voucher balances.
func TrialTotals(bs []*Balance) (debit, credit decimal.Decimal) {
	for _, b := range bs {
		net := b.Debit.Sub(b.Credit)
		if net.IsPositive() {
			debit = debit.Add(net)
		} else {
			credit = credit.Add(net.Neg())
		}
	}

	return debit, credit
}

func (s *Service) build(in Input) (*Voucher, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}

	if len(in.Entries) == 0 {
		return nil, ErrNoEntries
	}

	v := &Voucher{
		Date:      dateOnly(in.Date),
		Type:      in.Type,
		Narration: strings.TrimSpace(in.Narration),
		Reference: strings.TrimSpace(in.Reference),
		Status:    StatusPosted,
		Entries:   make([]Entry, 0, len(in.Entries)),
	}

	for i, ei := range in.Entries {
		if ei.Debit.IsNegative() || ei.Credit.IsNegative() {
			return nil, fmt.Errorf("entry %d: %w", i+1, ErrNegativeAmount)
		}

		if ei.ExchangeRate.IsNegative() {
			return nil, fmt.Errorf("entry %d: %w", i+1, ErrInvalidExchangeRate)
		}

		// Amounts are stored to the paisa; the balance check must see the
		// same figures the journal will hold.
		e := Entry{
			AccountID:    ei.AccountID,
			Debit:        ei.Debit.Round(2),
			Credit:       ei.Credit.Round(2),
			Currency:     strings.ToUpper(strings.TrimSpace(ei.Currency)),
			ExchangeRate: ei.ExchangeRate.Round(6),
			CostCenterID: ei.CostCenterID,
		}

		if e.Currency == "" {
			e.Currency = s.baseCurrency
		}

		if e.ExchangeRate.IsZero() {
			e.ExchangeRate = decimal.NewFromInt(1)
		}

		if e.Currency != s.baseCurrency {
			amount := e.Debit
			if amount.IsZero() {
				amount = e.Credit
			}

			e.ForeignAmount = &amount
		}

		v.Entries = append(v.Entries, e)
	}

	debit, credit := v.Totals()
	if debit.Sub(credit).Abs().GreaterThan(Tolerance) {
		return nil, &UnbalancedError{TotalDebit: debit, TotalCredit: credit}
	}

	return v, nil
}

func (s *Service) commit(ctx context.Context, v *Voucher) error {
	ptx, err := s.repo.BeginPost(ctx)
	if err != nil {
		return &PersistenceError{Op: "begin post", Err: err}
	}
	defer ptx.Rollback()

	for attempt := 1; ; attempt++ {
		seq, err := ptx.NextSequence(ctx, v.Type)
		if err != nil {
			return &PersistenceError{Op: "next sequence", Err: err}
		}

		v.Number = FormatNumber(v.Type, v.Date, seq)

		err = ptx.CreateVoucher(ctx, v)
		if err == nil {
			break
		}

		if !errors.Is(err, ErrNumberConflict) {
			return &PersistenceError{Op: "create voucher", Err: err}
		}

		if attempt >= s.maxAttempts {
			return &PersistenceError{Op: "create voucher", Err: err, Retryable: true}
		}

		slog.Warn("voucher number conflict, retrying", "number", v.Number, "attempt", attempt)
	}

	if err := ptx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}

	s.notify(ctx, v)

	return nil
}

func (s *Service) notify(ctx context.Context, v *Voucher) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listeners {
		l(ctx, v)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
