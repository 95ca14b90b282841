package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const statusPaid = "Paid"

// Store reads the receipts, expenses, invoices and salary records kept by the
// collaborating HR and invoicing modules.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) sum(ctx context.Context, what, query string, args ...any) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing %s: %w", what, err)
	}

	return total, nil
}

func (s *Store) Receipts(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.sum(ctx, "receipts",
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE date >= $1 AND date < $2`,
		from, to)
}

func (s *Store) Expenses(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.sum(ctx, "expenses",
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE date >= $1 AND date < $2`,
		from, to)
}

func (s *Store) PayrollNet(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	return s.sum(ctx, "payroll",
		`SELECT COALESCE(SUM(net), 0) FROM payroll_runs WHERE year = $1 AND month = $2`,
		year, int(month))
}

func (s *Store) OutstandingReceivables(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(GREATEST(i.total_amount - COALESCE(p.received, 0), 0)), 0)
		FROM invoices i
		LEFT JOIN (
			SELECT invoice_id, SUM(amount) AS received
			FROM payments
			WHERE invoice_id IS NOT NULL
			GROUP BY invoice_id
		) p ON p.invoice_id = i.id
		WHERE i.due_date >= $1 AND i.due_date < $2 AND i.status <> $3`

	return s.sum(ctx, "receivables", query, from, to, statusPaid)
}

func (s *Store) RecurringPayroll(ctx context.Context) (decimal.Decimal, error) {
	return s.sum(ctx, "recurring payroll",
		`SELECT COALESCE(SUM(basic_salary + hra + allowances), 0) FROM employees WHERE status = 'ACTIVE'`)
}
