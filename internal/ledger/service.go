package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateGroup(ctx context.Context, g *Group) error
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	GroupByName(ctx context.Context, name string) (*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)

	// UpsertHead inserts the head, or when a head with the same code exists,
	// loads that head into h instead.
	UpsertHead(ctx context.Context, h *Head) error
	GetHead(ctx context.Context, id uuid.UUID) (*Head, error)
	HeadByCode(ctx context.Context, code string) (*Head, error)
	ListHeads(ctx context.Context) ([]*Head, error)

	CreateCostCenter(ctx context.Context, cc *CostCenter) error
	CostCenterByCode(ctx context.Context, code string) (*CostCenter, error)
	ListCostCenters(ctx context.Context) ([]*CostCenter, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type GroupParams struct {
	Name     string
	Type     GroupType // empty inherits the parent's type
	ParentID *uuid.UUID
}

func (s *Service) CreateGroup(ctx context.Context, params GroupParams) (*Group, error) {
	g := &Group{
		Name:     strings.TrimSpace(params.Name),
		Type:     params.Type,
		ParentID: params.ParentID,
	}

	if params.ParentID != nil {
		parent, err := s.repo.GetGroup(ctx, *params.ParentID)
		if err != nil {
			return nil, fmt.Errorf("loading parent group: %w", err)
		}

		if g.Type == "" {
			g.Type = parent.Type
		}

		if g.Type != parent.Type {
			return nil, fmt.Errorf("%w: %s under %s", ErrGroupTypeMismatch, g.Type, parent.Type)
		}
	}

	if !g.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroupType, g.Type)
	}

	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) ListGroups(ctx context.Context) ([]*Group, error) {
	return s.repo.ListGroups(ctx)
}

type HeadParams struct {
	Name    string
	Code    string
	GroupID uuid.UUID
}

// UpsertHead creates an account head. When Code is set and already taken, the
// existing head is returned unchanged.
func (s *Service) UpsertHead(ctx context.Context, params HeadParams) (*Head, error) {
	group, err := s.repo.GetGroup(ctx, params.GroupID)
	if err != nil {
		return nil, fmt.Errorf("loading group: %w", err)
	}

	h := &Head{
		Name:    strings.TrimSpace(params.Name),
		Code:    strings.ToUpper(strings.TrimSpace(params.Code)),
		GroupID: group.ID,
		Type:    group.Type,
	}
	if err := s.repo.UpsertHead(ctx, h); err != nil {
		return nil, err
	}

	return h, nil
}

func (s *Service) GetHead(ctx context.Context, id uuid.UUID) (*Head, error) {
	return s.repo.GetHead(ctx, id)
}

func (s *Service) HeadByCode(ctx context.Context, code string) (*Head, error) {
	return s.repo.HeadByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *Service) ListHeads(ctx context.Context) ([]*Head, error) {
	return s.repo.ListHeads(ctx)
}

type CostCenterParams struct {
	Name   string
	Code   string
	Budget decimal.Decimal
}

func (s *Service) CreateCostCenter(ctx context.Context, params CostCenterParams) (*CostCenter, error) {
	cc := &CostCenter{
		Name:   strings.TrimSpace(params.Name),
		Code:   strings.ToUpper(strings.TrimSpace(params.Code)),
		Budget: params.Budget,
	}
	if err := s.repo.CreateCostCenter(ctx, cc); err != nil {
		return nil, err
	}

	return cc, nil
}

func (s *Service) CostCenterByCode(ctx context.Context, code string) (*CostCenter, error) {
	return s.repo.CostCenterByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *Service) ListCostCenters(ctx context.Context) ([]*CostCenter, error) {
	return s.repo.ListCostCenters(ctx)
}

// ValidateTree checks that every parent reference resolves, that children share
// their parent's type and that no parent chain loops back on itself.
func ValidateTree(groups []*Group) error {
	byID := make(map[uuid.UUID]*Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	for _, g := range groups {
		seen := map[uuid.UUID]bool{g.ID: true}

		for cur := g; cur.ParentID != nil; {
			parent, ok := byID[*cur.ParentID]
			if !ok {
				return fmt.Errorf("group %q: parent %s: %w", cur.Name, *cur.ParentID, ErrNotFound)
			}

			if parent.Type != cur.Type {
				return fmt.Errorf("group %q: %w", cur.Name, ErrGroupTypeMismatch)
			}

			if seen[parent.ID] {
				return fmt.Errorf("group %q: %w", g.Name, ErrGroupCycle)
			}

			seen[parent.ID] = true
			cur = parent
		}
	}

	return nil
}

// Bootstrap resolves the well-known heads, creating any that are missing under
// the first root group of the matching type. It does not invent groups.
func (s *Service) Bootstrap(ctx context.Context) (WellKnown, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return WellKnown{}, fmt.Errorf("listing groups: %w", err)
	}

	var wk WellKnown

	wk.Salaries, err = s.resolve(ctx, groups, CodeSalaries, "Salaries", GroupExpense)
	if err != nil {
		return WellKnown{}, err
	}

	wk.Bank, err = s.resolve(ctx, groups, CodeBank, "Bank", GroupAsset)
	if err != nil {
		return WellKnown{}, err
	}

	wk.DeductionsPayable, err = s.resolve(ctx, groups, CodeDeductionsPayable, "Payroll Deductions Payable", GroupLiability)
	if err != nil && !errors.Is(err, ErrMissingAccountGroup) {
		return WellKnown{}, err
	}

	return wk, nil
}

func (s *Service) resolve(ctx context.Context, groups []*Group, code, name string, typ GroupType) (uuid.UUID, error) {
	h, err := s.repo.HeadByCode(ctx, code)
	switch {
	case err == nil:
		if h.Type != typ {
			return uuid.Nil, fmt.Errorf("head %s is %s, want %s: %w", code, h.Type, typ, ErrGroupTypeMismatch)
		}

		return h.ID, nil
	case !errors.Is(err, ErrNotFound):
		return uuid.Nil, fmt.Errorf("looking up head %s: %w", code, err)
	}

	root := rootGroup(groups, typ)
	if root == nil {
		return uuid.Nil, &MissingGroupError{Type: typ}
	}

	h = &Head{Name: name, Code: code, GroupID: root.ID, Type: root.Type}
	if err := s.repo.UpsertHead(ctx, h); err != nil {
		return uuid.Nil, fmt.Errorf("creating head %s: %w", code, err)
	}

	return h.ID, nil
}

func rootGroup(groups []*Group, typ GroupType) *Group {
	for _, g := range groups {
		if g.ParentID == nil && g.Type == typ {
			return g
		}
	}

	return nil
}
