// Package tax splits a flat GST rate into its central, state and integrated parts.
package tax

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownState = errors.New("state of supply is unknown")

var two = decimal.NewFromInt(2)

// Components are the percentage rates that make up a GST rate.
type Components struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Split divides rate between CGST and SGST when the place of supply is the
// company's own state and charges it all as IGST otherwise. States compare
// case-insensitively. An empty state on either side never matches, so the
// supply is treated as inter-state.
func Split(rate decimal.Decimal, placeOfSupply, companyState string) Components {
	pos := normalizeState(placeOfSupply)
	own := normalizeState(companyState)

	if pos == "" || own == "" || pos != own {
		return Components{CGST: decimal.Zero, SGST: decimal.Zero, IGST: rate}
	}

	half := rate.Div(two)

	return Components{CGST: half, SGST: half, IGST: decimal.Zero}
}

// SplitStrict is Split for callers that must not guess: an empty state is an
// error instead of an inter-state supply.
func SplitStrict(rate decimal.Decimal, placeOfSupply, companyState string) (Components, error) {
	if normalizeState(placeOfSupply) == "" || normalizeState(companyState) == "" {
		return Components{}, ErrUnknownState
	}

	return Split(rate, placeOfSupply, companyState), nil
}

func (c Components) IsInterState() bool {
	return c.IGST.IsPositive()
}

// Rate is the combined rate.
func (c Components) Rate() decimal.Decimal {
	return c.CGST.Add(c.SGST).Add(c.IGST)
}

// Amounts is the tax charged on a taxable value, in currency units.
type Amounts struct {
	CGST  decimal.Decimal
	SGST  decimal.Decimal
	IGST  decimal.Decimal
	Total decimal.Decimal
}

// Apply computes the tax on taxable. Each component is rounded to paise on its
// own and Total is their sum, so the printed lines always add up.
func (c Components) Apply(taxable decimal.Decimal) Amounts {
	pct := func(r decimal.Decimal) decimal.Decimal {
		return taxable.Mul(r).Div(decimal.NewFromInt(100)).Round(2)
	}

	a := Amounts{
		CGST: pct(c.CGST),
		SGST: pct(c.SGST),
		IGST: pct(c.IGST),
	}
	a.Total = a.CGST.Add(a.SGST).Add(a.IGST)

	return a
}

func normalizeState(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
