package ledger

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed chart.yaml
var defaultChart []byte

// Chart describes a chart of accounts to seed. Groups are listed parents first
// and refer to their parent by name.
type Chart struct {
	Groups      []ChartGroup      `yaml:"groups"`
	Heads       []ChartHead       `yaml:"heads"`
	CostCenters []ChartCostCenter `yaml:"cost_centers,omitempty"`
}

type ChartGroup struct {
	Name   string    `yaml:"name"`
	Type   GroupType `yaml:"type,omitempty"`
	Parent string    `yaml:"parent,omitempty"`
}

type ChartHead struct {
	Name  string `yaml:"name"`
	Code  string `yaml:"code"`
	Group string `yaml:"group"`
}

type ChartCostCenter struct {
	Name   string          `yaml:"name"`
	Code   string          `yaml:"code"`
	Budget decimal.Decimal `yaml:"budget,omitempty"`
}

// ParseChart decodes a YAML chart of accounts. Unknown keys are rejected.
func ParseChart(r io.Reader) (*Chart, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Chart
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding chart: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks that every head and cost center carries a code. Seeding
// matches existing rows by code, so a code-less entry would be inserted again
// on every run.
func (c *Chart) Validate() error {
	for _, h := range c.Heads {
		if strings.TrimSpace(h.Code) == "" {
			return fmt.Errorf("%w: head %q has no code", ErrInvalidChart, h.Name)
		}
	}

	for _, cc := range c.CostCenters {
		if strings.TrimSpace(cc.Code) == "" {
			return fmt.Errorf("%w: cost center %q has no code", ErrInvalidChart, cc.Name)
		}
	}

	return nil
}

// DefaultChart returns the built-in chart of accounts.
func DefaultChart() (*Chart, error) {
	return ParseChart(bytes.NewReader(defaultChart))
}

// Seed creates every group, head and cost center of the chart that does not
// exist yet, then resolves the well-known heads. Running it twice is a no-op.
func (s *Service) Seed(ctx context.Context, chart *Chart) (WellKnown, error) {
	if err := chart.Validate(); err != nil {
		return WellKnown{}, err
	}

	byName := make(map[string]*Group, len(chart.Groups))

	for _, cg := range chart.Groups {
		g, err := s.seedGroup(ctx, cg, byName)
		if err != nil {
			return WellKnown{}, fmt.Errorf("seeding group %q: %w", cg.Name, err)
		}

		byName[g.Name] = g
	}

	for _, ch := range chart.Heads {
		g, err := s.groupNamed(ctx, ch.Group, byName)
		if err != nil {
			return WellKnown{}, fmt.Errorf("seeding head %q: %w", ch.Name, err)
		}

		if _, err := s.UpsertHead(ctx, HeadParams{Name: ch.Name, Code: ch.Code, GroupID: g.ID}); err != nil {
			return WellKnown{}, fmt.Errorf("seeding head %q: %w", ch.Name, err)
		}
	}

	for _, cc := range chart.CostCenters {
		_, err := s.CostCenterByCode(ctx, cc.Code)
		if err == nil {
			continue
		}

		if !errors.Is(err, ErrNotFound) {
			return WellKnown{}, fmt.Errorf("seeding cost center %q: %w", cc.Code, err)
		}

		if _, err := s.CreateCostCenter(ctx, CostCenterParams(cc)); err != nil {
			return WellKnown{}, fmt.Errorf("seeding cost center %q: %w", cc.Code, err)
		}
	}

	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return WellKnown{}, fmt.Errorf("listing groups: %w", err)
	}

	if err := ValidateTree(groups); err != nil {
		return WellKnown{}, err
	}

	return s.Bootstrap(ctx)
}

func (s *Service) seedGroup(ctx context.Context, cg ChartGroup, byName map[string]*Group) (*Group, error) {
	existing, err := s.repo.GroupByName(ctx, cg.Name)
	if err == nil {
		if cg.Type != "" && existing.Type != cg.Type {
			return nil, fmt.Errorf("%w: stored as %s", ErrGroupTypeMismatch, existing.Type)
		}

		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	params := GroupParams{Name: cg.Name, Type: cg.Type}

	if cg.Parent != "" {
		parent, err := s.groupNamed(ctx, cg.Parent, byName)
		if err != nil {
			return nil, err
		}

		params.ParentID = &parent.ID
	}

	return s.CreateGroup(ctx, params)
}

func (s *Service) groupNamed(ctx context.Context, name string, byName map[string]*Group) (*Group, error) {
	if g, ok := byName[name]; ok {
		return g, nil
	}

	g, err := s.repo.GroupByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}

	return g, nil
}
