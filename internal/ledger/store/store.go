package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/khata/internal/ledger"
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

const selectGroupColumns = `g.id, g.name, g.type, g.parent_id, g.created_at`

func scanGroup(s scanner) (*ledger.Group, error) {
	var g ledger.Group

	var typeStr string

	if err := s.Scan(&g.ID, &g.Name, &typeStr, &g.ParentID, &g.CreatedAt); err != nil {
		return nil, err
	}

	g.Type = ledger.GroupType(typeStr)

	return &g, nil
}

func (s *Store) CreateGroup(ctx context.Context, g *ledger.Group) error {
	query := `
		INSERT INTO account_groups (name, type, parent_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, g.Name, g.Type, g.ParentID).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("group %q: %w", g.Name, ledger.ErrDuplicateCode)
		}

		return fmt.Errorf("creating group: %w", err)
	}

	return nil
}

func (s *Store) GetGroup(ctx context.Context, id uuid.UUID) (*ledger.Group, error) {
	query := `SELECT ` + selectGroupColumns + ` FROM account_groups g WHERE g.id = $1`

	g, err := scanGroup(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting group: %w", err)
	}

	return g, nil
}

func (s *Store) GroupByName(ctx context.Context, name string) (*ledger.Group, error) {
	query := `SELECT ` + selectGroupColumns + ` FROM account_groups g WHERE g.name = $1`

	g, err := scanGroup(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting group by name: %w", err)
	}

	return g, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]*ledger.Group, error) {
	query := `SELECT ` + selectGroupColumns + ` FROM account_groups g ORDER BY g.created_at, g.name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []*ledger.Group

	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}

		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	return groups, nil
}

const selectHeadColumns = `h.id, h.name, COALESCE(h.code, ''), h.group_id, g.type, h.created_at`

func scanHead(s scanner) (*ledger.Head, error) {
	var h ledger.Head

	var typeStr string

	if err := s.Scan(&h.ID, &h.Name, &h.Code, &h.GroupID, &typeStr, &h.CreatedAt); err != nil {
		return nil, err
	}

	h.Type = ledger.GroupType(typeStr)

	return &h, nil
}

// UpsertHead inserts a head. A conflicting code leaves the stored row untouched
// and loads it into h.
func (s *Store) UpsertHead(ctx context.Context, h *ledger.Head) error {
	var code sql.NullString
	if h.Code != "" {
		code = sql.NullString{String: h.Code, Valid: true}
	}

	query := `
		INSERT INTO account_heads (name, code, group_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (code) DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, h.Name, code, h.GroupID).Scan(&h.ID, &h.CreatedAt)
	if err == nil {
		return nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("creating head: %w", err)
	}

	existing, err := s.HeadByCode(ctx, h.Code)
	if err != nil {
		return fmt.Errorf("loading existing head: %w", err)
	}

	*h = *existing

	return nil
}

func (s *Store) GetHead(ctx context.Context, id uuid.UUID) (*ledger.Head, error) {
	query := `SELECT ` + selectHeadColumns + `
		FROM account_heads h
		JOIN account_groups g ON g.id = h.group_id
		WHERE h.id = $1`

	h, err := scanHead(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting head: %w", err)
	}

	return h, nil
}

func (s *Store) HeadByCode(ctx context.Context, code string) (*ledger.Head, error) {
	query := `SELECT ` + selectHeadColumns + `
		FROM account_heads h
		JOIN account_groups g ON g.id = h.group_id
		WHERE h.code = $1`

	h, err := scanHead(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting head by code: %w", err)
	}

	return h, nil
}

func (s *Store) ListHeads(ctx context.Context) ([]*ledger.Head, error) {
	query := `SELECT ` + selectHeadColumns + `
		FROM account_heads h
		JOIN account_groups g ON g.id = h.group_id
		ORDER BY g.type, h.name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing heads: %w", err)
	}
	defer rows.Close()

	var heads []*ledger.Head

	for rows.Next() {
		h, err := scanHead(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning head: %w", err)
		}

		heads = append(heads, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating heads: %w", err)
	}

	return heads, nil
}

func (s *Store) CreateCostCenter(ctx context.Context, cc *ledger.CostCenter) error {
	query := `
		INSERT INTO cost_centers (name, code, budget, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, cc.Name, cc.Code, cc.Budget).Scan(&cc.ID, &cc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cost center %q: %w", cc.Code, ledger.ErrDuplicateCode)
		}

		return fmt.Errorf("creating cost center: %w", err)
	}

	return nil
}

const selectCostCenterColumns = `id, name, code, budget, created_at`

func scanCostCenter(s scanner) (*ledger.CostCenter, error) {
	var cc ledger.CostCenter
	if err := s.Scan(&cc.ID, &cc.Name, &cc.Code, &cc.Budget, &cc.CreatedAt); err != nil {
		return nil, err
	}

	return &cc, nil
}

func (s *Store) CostCenterByCode(ctx context.Context, code string) (*ledger.CostCenter, error) {
	query := `SELECT ` + selectCostCenterColumns + ` FROM cost_centers WHERE code = $1`

	cc, err := scanCostCenter(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting cost center: %w", err)
	}

	return cc, nil
}

func (s *Store) ListCostCenters(ctx context.Context) ([]*ledger.CostCenter, error) {
	query := `SELECT ` + selectCostCenterColumns + ` FROM cost_centers ORDER BY code`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing cost centers: %w", err)
	}
	defer rows.Close()

	var ccs []*ledger.CostCenter

	for rows.Next() {
		cc, err := scanCostCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cost center: %w", err)
		}

		ccs = append(ccs, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cost centers: %w", err)
	}

	return ccs, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
