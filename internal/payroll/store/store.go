package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/khata/internal/payroll"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (*payroll.Employee, error) {
	var e payroll.Employee
	if err := s.Scan(
		&e.ID, &e.Name, &e.BasicSalary, &e.HRA, &e.Allowances, &e.PFDeduction, &e.PTDeduction, &e.Status,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

const pendingEmployeesQuery = `
	SELECT e.id, e.name, e.basic_salary, e.hra, e.allowances, e.pf_deduction, e.pt_deduction, e.status
	FROM employees e
	WHERE e.status = $1
		AND NOT EXISTS (
			SELECT 1 FROM payroll_runs r
			WHERE r.employee_id = e.id AND r.year = $2 AND r.month = $3
		)`

func (s *Store) PendingEmployees(ctx context.Context, ids []uuid.UUID, period payroll.Period) ([]*payroll.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	query := pendingEmployeesQuery + ` AND e.id = ANY($4::uuid[]) ORDER BY e.name`

	return s.queryEmployees(ctx, query, payroll.StatusActive, period.Year, int(period.Month), idStrs)
}

func (s *Store) AllPendingEmployees(ctx context.Context, period payroll.Period) ([]*payroll.Employee, error) {
	query := pendingEmployeesQuery + ` ORDER BY e.name`

	return s.queryEmployees(ctx, query, payroll.StatusActive, period.Year, int(period.Month))
}

func (s *Store) queryEmployees(ctx context.Context, query string, args ...any) ([]*payroll.Employee, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pending employees: %w", err)
	}
	defer rows.Close()

	var employees []*payroll.Employee

	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}

		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}

	return employees, nil
}

func (s *Store) RecordRun(ctx context.Context, period payroll.Period, voucherID uuid.UUID, employees []*payroll.Employee) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO payroll_runs (employee_id, year, month, voucher_id, gross, net, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	for _, e := range employees {
		_, err := dbTx.ExecContext(ctx, query, e.ID, period.Year, int(period.Month), voucherID, e.Gross(), e.Net())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s for %s: %w", e.Name, period, payroll.ErrAlreadyRecorded)
			}

			return fmt.Errorf("recording payroll run for %s: %w", e.Name, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
