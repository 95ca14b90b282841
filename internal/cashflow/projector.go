// Package cashflow projects monthly cash positions from recorded receipts,
// expenses and payroll, and from receivables and salaries still to come.
package cashflow

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Trailing is how many months before the reference month are reported.
	Trailing = 5
	// Forward is how many months after the reference month are projected.
	Forward = 3
	// Months is the length of every projection.
	Months = Trailing + 1 + Forward
)

// Source reads the facts a projection is built from. Ranges are half-open:
// from is included, to is not.
type Source interface {
	Receipts(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	Expenses(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	PayrollNet(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)

	// OutstandingReceivables sums what is still owed on unpaid invoices due in
	// the range, net of payments already received against them.
	OutstandingReceivables(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// RecurringPayroll is the monthly gross pay of every active employee.
	RecurringPayroll(ctx context.Context) (decimal.Decimal, error)
}

// Bucket is one month of a projection. Months after the reference month are
// estimates and have IsFuture set.
type Bucket struct {
	Label    string
	Month    time.Month
	Year     int
	Start    time.Time
	Inflow   decimal.Decimal
	Outflow  decimal.Decimal
	Net      decimal.Decimal
	IsFuture bool
}

type Projector struct {
	src Source
}

func NewProjector(src Source) *Projector {
	return &Projector{src: src}
}

// Project yields the Months buckets around ref's month in chronological order,
// reading each one only when it is requested. Iteration stops after the first
// error. The sequence can be ranged over again and re-reads the source.
func (p *Projector) Project(ctx context.Context, ref time.Time) iter.Seq2[Bucket, error] {
	anchor := monthStart(ref)

	return func(yield func(Bucket, error) bool) {
		var (
			recurring    decimal.Decimal
			hasRecurring bool
		)

		for i := -Trailing; i <= Forward; i++ {
			start := anchor.AddDate(0, i, 0)

			b := Bucket{
				Label:    start.Month().String()[:3],
				Month:    start.Month(),
				Year:     start.Year(),
				Start:    start,
				IsFuture: start.After(anchor),
			}

			var err error
			if b.IsFuture {
				if !hasRecurring {
					recurring, err = p.src.RecurringPayroll(ctx)
					hasRecurring = err == nil
				}

				if err == nil {
					err = p.projected(ctx, &b, recurring)
				}
			} else {
				err = p.historical(ctx, &b)
			}

			if err != nil {
				yield(Bucket{}, fmt.Errorf("projecting %s %d: %w", b.Label, b.Year, err))
				return
			}

			b.Net = b.Inflow.Sub(b.Outflow)

			if !yield(b, nil) {
				return
			}
		}
	}
}

func (p *Projector) historical(ctx context.Context, b *Bucket) error {
	end := b.Start.AddDate(0, 1, 0)

	receipts, err := p.src.Receipts(ctx, b.Start, end)
	if err != nil {
		return fmt.Errorf("receipts: %w", err)
	}

	expenses, err := p.src.Expenses(ctx, b.Start, end)
	if err != nil {
		return fmt.Errorf("expenses: %w", err)
	}

	payroll, err := p.src.PayrollNet(ctx, b.Year, b.Month)
	if err != nil {
		return fmt.Errorf("payroll: %w", err)
	}

	b.Inflow = receipts
	b.Outflow = expenses.Add(payroll)

	return nil
}

func (p *Projector) projected(ctx context.Context, b *Bucket, recurring decimal.Decimal) error {
	due, err := p.src.OutstandingReceivables(ctx, b.Start, b.Start.AddDate(0, 1, 0))
	if err != nil {
		return fmt.Errorf("receivables: %w", err)
	}

	b.Inflow = due
	b.Outflow = recurring

	return nil
}

// Collect runs the whole projection.
func (p *Projector) Collect(ctx context.Context, ref time.Time) ([]Bucket, error) {
	buckets := make([]Bucket, 0, Months)

	for b, err := range p.Project(ctx, ref) {
		if err != nil {
			return nil, err
		}

		buckets = append(buckets, b)
	}

	return buckets, nil
}

type Flow struct {
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Net     decimal.Decimal
}

func (f *Flow) add(b Bucket) {
	f.Inflow = f.Inflow.Add(b.Inflow)
	f.Outflow = f.Outflow.Add(b.Outflow)
	f.Net = f.Net.Add(b.Net)
}

// Summary keeps recorded and estimated months apart.
type Summary struct {
	Actual    Flow
	Projected Flow
}

func Totals(buckets []Bucket) Summary {
	var s Summary

	for _, b := range buckets {
		if b.IsFuture {
			s.Projected.add(b)
			continue
		}

		s.Actual.add(b)
	}

	return s
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
