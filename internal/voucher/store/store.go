package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	numberConstraint   = "vouchers_number_key"
	reversalConstraint = "vouchers_reversal_of_key"
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

// Expected column order: id, number, date, type, narration, reference, status, reversal_of, created_at
func scanVoucher(s scanner) (*voucher.Voucher, error) {
	var v voucher.Voucher

	var typeStr, statusStr string

	if err := s.Scan(
		&v.ID, &v.Number, &v.Date, &typeStr, &v.Narration, &v.Reference, &statusStr,
		&v.ReversalOf, &v.CreatedAt,
	); err != nil {
		return nil, err
	}

	v.Type = voucher.Type(typeStr)
	v.Status = voucher.Status(statusStr)

	return &v, nil
}

const selectVoucherColumns = `
	v.id, v.number, v.date, v.type, v.narration, v.reference, v.status, v.reversal_of, v.created_at
`

// Expected column order: id, voucher_id, account_id, debit, credit, currency, exchange_rate, cost_center_id, foreign_amount
func scanEntry(s scanner) (voucher.Entry, error) {
	var e voucher.Entry

	var foreign decimal.NullDecimal

	if err := s.Scan(
		&e.ID, &e.VoucherID, &e.AccountID, &e.Debit, &e.Credit, &e.Currency, &e.ExchangeRate,
		&e.CostCenterID, &foreign,
	); err != nil {
		return e, err
	}

	if foreign.Valid {
		e.ForeignAmount = &foreign.Decimal
	}

	return e, nil
}

const selectEntryColumns = `
	e.id, e.voucher_id, e.account_id, e.debit, e.credit, e.currency, e.exchange_rate,
	e.cost_center_id, e.foreign_amount
`

func (s *Store) GetVoucher(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	query := `SELECT ` + selectVoucherColumns + ` FROM vouchers v WHERE v.id = $1`

	v, err := scanVoucher(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, voucher.ErrNotFound
		}

		return nil, fmt.Errorf("getting voucher: %w", err)
	}

	if err := s.attachEntries(ctx, []*voucher.Voucher{v}); err != nil {
		return nil, err
	}

	return v, nil
}

func (s *Store) ListVouchers(ctx context.Context, filter voucher.ListFilter) ([]*voucher.Voucher, error) {
	query := `SELECT ` + selectVoucherColumns + ` FROM vouchers v WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND v.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND v.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND v.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY v.date ASC, v.number ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing vouchers: %w", err)
	}
	defer rows.Close()

	var vs []*voucher.Voucher

	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning voucher: %w", err)
		}

		vs = append(vs, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vouchers: %w", err)
	}

	if err := s.attachEntries(ctx, vs); err != nil {
		return nil, err
	}

	return vs, nil
}

// attachEntries loads the entries of every voucher in one query.
func (s *Store) attachEntries(ctx context.Context, vs []*voucher.Voucher) error {
	if len(vs) == 0 {
		return nil
	}

	ids := make([]string, len(vs))
	byID := make(map[uuid.UUID]*voucher.Voucher, len(vs))

	for i, v := range vs {
		ids[i] = v.ID.String()
		byID[v.ID] = v
	}

	query := `SELECT ` + selectEntryColumns + `
		FROM voucher_entries e
		WHERE e.voucher_id = ANY($1::uuid[])
		ORDER BY e.voucher_id, e.line_no`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("loading voucher entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return fmt.Errorf("scanning voucher entry: %w", err)
		}

		if v, ok := byID[e.VoucherID]; ok {
			v.Entries = append(v.Entries, e)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating voucher entries: %w", err)
	}

	return nil
}

const totalsQuery = `
	SELECT h.id, h.name, COALESCE(h.code, ''), g.type,
		COALESCE(SUM(e.debit) FILTER (WHERE v.date <= $1), 0),
		COALESCE(SUM(e.credit) FILTER (WHERE v.date <= $1), 0)
	FROM account_heads h
	JOIN account_groups g ON g.id = h.group_id
	LEFT JOIN voucher_entries e ON e.account_id = h.id
	LEFT JOIN vouchers v ON v.id = e.voucher_id
`

func scanTotals(s scanner, asOf time.Time) (*voucher.Balance, error) {
	b := voucher.Balance{AsOf: asOf}

	var groupType string

	if err := s.Scan(&b.AccountID, &b.AccountName, &b.AccountCode, &groupType, &b.Debit, &b.Credit); err != nil {
		return nil, err
	}

	b.Side = ledger.GroupType(groupType).NaturalSide()

	return &b, nil
}

func (s *Store) AccountTotals(ctx context.Context, accountID uuid.UUID, asOf time.Time) (*voucher.Balance, error) {
	query := totalsQuery + `
		WHERE h.id = $2
		GROUP BY h.id, h.name, h.code, g.type`

	b, err := scanTotals(s.db.QueryRowContext(ctx, query, asOf, accountID), asOf)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountID, ledger.ErrNotFound)
		}

		return nil, fmt.Errorf("summing account %s: %w", accountID, err)
	}

	return b, nil
}

func (s *Store) AllAccountTotals(ctx context.Context, asOf time.Time) ([]*voucher.Balance, error) {
	query := totalsQuery + `
		GROUP BY h.id, h.name, h.code, g.type
		ORDER BY g.type, h.name`

	rows, err := s.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("summing accounts: %w", err)
	}
	defer rows.Close()

	var bs []*voucher.Balance

	for rows.Next() {
		b, err := scanTotals(rows, asOf)
		if err != nil {
			return nil, fmt.Errorf("scanning account totals: %w", err)
		}

		bs = append(bs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account totals: %w", err)
	}

	return bs, nil
}

type postTx struct {
	tx *sql.Tx
}

func (s *Store) BeginPost(ctx context.Context) (voucher.PostTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning post tx: %w", err)
	}

	return &postTx{tx: dbTx}, nil
}

func (ptx *postTx) Commit() error   { return ptx.tx.Commit() }
func (ptx *postTx) Rollback() error { return ptx.tx.Rollback() }

// NextSequence bumps the counter for t and returns the new value. A counter
// seen for the first time starts after the vouchers of that type already on
// file. The row lock taken by the upsert serialises concurrent posts of the
// same type until this transaction ends.
func (ptx *postTx) NextSequence(ctx context.Context, t voucher.Type) (int64, error) {
	query := `
		INSERT INTO voucher_sequences (type, last_value)
		VALUES ($1, (SELECT COUNT(*) FROM vouchers WHERE type = $1) + 1)
		ON CONFLICT (type) DO UPDATE SET last_value = voucher_sequences.last_value + 1
		RETURNING last_value
	`

	var seq int64
	if err := ptx.tx.QueryRowContext(ctx, query, t).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", t, err)
	}

	return seq, nil
}

// CreateVoucher inserts v and its entries. A number collision is rolled back to
// a savepoint so the sequence bump survives and the caller can try again.
func (ptx *postTx) CreateVoucher(ctx context.Context, v *voucher.Voucher) error {
	if _, err := ptx.tx.ExecContext(ctx, "SAVEPOINT create_voucher"); err != nil {
		return fmt.Errorf("setting savepoint: %w", err)
	}

	err := ptx.insert(ctx, v)
	if err == nil {
		_, err := ptx.tx.ExecContext(ctx, "RELEASE SAVEPOINT create_voucher")
		if err != nil {
			return fmt.Errorf("releasing savepoint: %w", err)
		}

		return nil
	}

	if _, rbErr := ptx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT create_voucher"); rbErr != nil {
		return errors.Join(err, fmt.Errorf("rolling back to savepoint: %w", rbErr))
	}

	return err
}

func (ptx *postTx) insert(ctx context.Context, v *voucher.Voucher) error {
	voucherQuery := `
		INSERT INTO vouchers (number, date, type, narration, reference, status, reversal_of, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := ptx.tx.QueryRowContext(ctx, voucherQuery,
		v.Number,
		v.Date,
		v.Type,
		v.Narration,
		v.Reference,
		v.Status,
		v.ReversalOf,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return mapWriteError("creating voucher", err)
	}

	entryQuery := `
		INSERT INTO voucher_entries
			(voucher_id, account_id, debit, credit, currency, exchange_rate, cost_center_id, foreign_amount, line_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	for i := range v.Entries {
		e := &v.Entries[i]
		e.VoucherID = v.ID

		var foreign decimal.NullDecimal
		if e.ForeignAmount != nil {
			foreign = decimal.NewNullDecimal(*e.ForeignAmount)
		}

		err := ptx.tx.QueryRowContext(ctx, entryQuery,
			e.VoucherID,
			e.AccountID,
			e.Debit,
			e.Credit,
			e.Currency,
			e.ExchangeRate,
			e.CostCenterID,
			foreign,
			i+1,
		).Scan(&e.ID)
		if err != nil {
			return mapWriteError(fmt.Sprintf("creating entry %d", i+1), err)
		}
	}

	return nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case pgErr.Code == uniqueViolation && pgErr.ConstraintName == numberConstraint:
		return voucher.ErrNumberConflict
	case pgErr.Code == uniqueViolation && pgErr.ConstraintName == reversalConstraint:
		return voucher.ErrAlreadyReversed
	case pgErr.Code == foreignKeyViolation:
		return fmt.Errorf("%s: %w (%s)", op, voucher.ErrUnknownAccount, pgErr.ConstraintName)
	}

	return fmt.Errorf("%s: %w", op, err)
}
