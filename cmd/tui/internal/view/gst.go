package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/tax"
)

var gstRates = []string{"0", "0.25", "3", "5", "12", "18", "28"}

// GSTModel splits a GST rate for a place of supply and applies it to a taxable
// value.
type GSTModel struct {
	CommonModel
	companyState string

	form   *huh.Form
	result string
}

func NewGSTModel(companyState string) GSTModel {
	return GSTModel{
		companyState: companyState,
		form:         newGSTForm(companyState),
	}
}

func (m GSTModel) Title() string { return "GST Calculator" }

func (m GSTModel) ShortHelp() string {
	if m.result != "" {
		return "Enter: new calculation | Esc: back"
	}

	return "Enter: next | Esc: back"
}

func newGSTForm(companyState string) *huh.Form {
	rate := "18"
	placeOfSupply := companyState

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("rate").
				Title("Rate (%)").
				Options(huh.NewOptions(gstRates...)...).
				Value(&rate),
			huh.NewInput().
				Key("place_of_supply").
				Title("Place of supply").
				Description("Company state: "+companyState).
				Value(&placeOfSupply),
			huh.NewInput().
				Key("taxable").
				Title("Taxable value").
				Placeholder("optional").
				Validate(validateAmount),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m GSTModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m GSTModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.result != "" && keyMsg.Type == tea.KeyEnter {
			m.result = ""
			m.form = newGSTForm(m.companyState)

			return m, m.form.Init()
		}
	}

	if m.result != "" {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.result = gstResult(
			m.form.GetString("rate"),
			m.form.GetString("place_of_supply"),
			m.companyState,
			m.form.GetString("taxable"),
		)
		return m, nil
	}

	return m, cmd
}

func (m GSTModel) View() string {
	body := m.form.View()
	if m.result != "" {
		body = m.result
	}

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.Title()),
		"",
		body,
		"",
		helpStyle.Render(m.ShortHelp()),
	))
}

func validateAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}

	if d.IsNegative() {
		return fmt.Errorf("cannot be negative")
	}

	return nil
}

// gstResult renders the split of rate and, when taxable is set, the tax due
// on it.
func gstResult(rate, placeOfSupply, companyState, taxable string) string {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return errStyle.Render(fmt.Sprintf("Invalid rate %q", rate))
	}

	c := tax.Split(r, placeOfSupply, companyState)

	kind := "Intra-state"
	if c.IsInterState() {
		kind = "Inter-state"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s supply at %s%%\n\n", kind, c.Rate())
	fmt.Fprintf(&b, "%-6s %8s%%\n", "CGST", c.CGST)
	fmt.Fprintf(&b, "%-6s %8s%%\n", "SGST", c.SGST)
	fmt.Fprintf(&b, "%-6s %8s%%\n", "IGST", c.IGST)

	if strings.TrimSpace(taxable) == "" {
		return strings.TrimRight(b.String(), "\n")
	}

	value, err := decimal.NewFromString(strings.TrimSpace(taxable))
	if err != nil {
		return errStyle.Render(fmt.Sprintf("Invalid taxable value %q", taxable))
	}

	a := c.Apply(value)

	fmt.Fprintf(&b, "\nOn %s:\n", value.StringFixed(2))
	fmt.Fprintf(&b, "%-6s %14s\n", "CGST", a.CGST.StringFixed(2))
	fmt.Fprintf(&b, "%-6s %14s\n", "SGST", a.SGST.StringFixed(2))
	fmt.Fprintf(&b, "%-6s %14s\n", "IGST", a.IGST.StringFixed(2))
	fmt.Fprintf(&b, "%-6s %14s", "Total", a.Total.StringFixed(2))

	return b.String()
}
