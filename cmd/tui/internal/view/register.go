package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

type Vouchers interface {
	List(ctx context.Context, filter voucher.ListFilter) ([]*voucher.Voucher, error)
	Reverse(ctx context.Context, id uuid.UUID, date time.Time, narration string) (*voucher.Voucher, error)
}

// typeFilters is the cycle walked by the type filter key. The empty type shows all.
var typeFilters = []voucher.Type{"", voucher.TypePayment, voucher.TypeReceipt, voucher.TypeJournal, voucher.TypeContra}

type registerState int

const (
	registerStateBrowse registerState = iota
	registerStateReverse
)

// RegisterModel lists the vouchers of one month with the entries of the
// selected voucher underneath.
type RegisterModel struct {
	CommonModel
	vouchers Vouchers
	accounts map[uuid.UUID]string

	state   registerState
	table   table.Model
	list    []*voucher.Voucher
	month   time.Time
	typeIdx int

	form   *huh.Form
	target *voucher.Voucher

	status string
	err    error
}

func NewRegisterModel(vouchers Vouchers, accounts map[uuid.UUID]string, now time.Time) RegisterModel {
	columns := []table.Column{
		{Title: "Number", Width: 20},
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 14},
		{Title: "Narration", Width: 40},
	}

	return RegisterModel{
		vouchers: vouchers,
		accounts: accounts,
		table:    newTable(columns, 12),
		month:    monthStart(now),
	}
}

func (m RegisterModel) Title() string { return "Voucher Register" }

func (m RegisterModel) ShortHelp() string {
	if m.state == registerStateReverse {
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | [/]: month | t: type | x: reverse | r: refresh"
}

func (m RegisterModel) Init() tea.Cmd {
	return m.loadCmd()
}

type registerLoadedMsg struct {
	vouchers []*voucher.Voucher
	err      error
}

type reversedMsg struct {
	voucher *voucher.Voucher
	err     error
}

func (m RegisterModel) filter() voucher.ListFilter {
	start, end := m.month, monthEnd(m.month)

	f := voucher.ListFilter{StartDate: &start, EndDate: &end}
	if t := typeFilters[m.typeIdx]; t != "" {
		f.Type = &t
	}

	return f
}

func (m RegisterModel) loadCmd() tea.Cmd {
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		vs, err := m.vouchers.List(ctx, filter)

		return registerLoadedMsg{vouchers: vs, err: err}
	}
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registerLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.list = msg.vouchers
			m.table.SetRows(registerRows(m.list))
		}

		return m, nil

	case reversedMsg:
		m.state = registerStateBrowse
		m.form = nil
		m.target = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errStyle.Render(fmt.Sprintf("Reversal failed: %v", msg.err))
			return m, nil
		}

		m.status = okStyle.Render("Posted " + msg.voucher.Number)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-16, 5))

		return m, nil
	}

	if m.state == registerStateReverse {
		return m.updateReverse(msg)
	}

	return m.updateBrowse(msg)
}

func (m RegisterModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "[":
			m.month = m.month.AddDate(0, -1, 0)
			return m, m.loadCmd()
		case "]":
			m.month = m.month.AddDate(0, 1, 0)
			return m, m.loadCmd()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(typeFilters)
			return m, m.loadCmd()
		case "r":
			m.status = ""
			return m, m.loadCmd()
		case "x":
			return m.enterReverse()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RegisterModel) selected() *voucher.Voucher {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.list) {
		return nil
	}

	return m.list[idx]
}

func (m RegisterModel) enterReverse() (tea.Model, tea.Cmd) {
	v := m.selected()
	if v == nil {
		return m, nil
	}

	if v.ReversalOf != nil {
		m.status = errStyle.Render("A reversal cannot itself be reversed")
		return m, nil
	}

	narration := "Reversal of " + v.Number
	confirm := false

	m.target = v
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("narration").
				Title("Narration").
				Value(&narration).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("narration cannot be empty")
					}

					return nil
				}),
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Reverse %s?", v.Number)).
				Affirmative("Reverse").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = registerStateReverse
	m.table.Blur()

	return m, m.form.Init()
}

func (m RegisterModel) updateReverse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = registerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		m.state = registerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	id := m.target.ID
	narration := m.form.GetString("narration")

	return m, func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rev, err := m.vouchers.Reverse(ctx, id, time.Time{}, narration)

		return reversedMsg{voucher: rev, err: err}
	}
}

func (m RegisterModel) View() string {
	if m.state == registerStateReverse && m.form != nil {
		return padded.Render(m.form.View())
	}

	kind := "all types"
	if t := typeFilters[m.typeIdx]; t != "" {
		kind = string(t)
	}

	header := titleStyle.Render(fmt.Sprintf("%s %d", m.month.Month(), m.month.Year())) +
		helpStyle.Render("  "+kind)

	parts := []string{header, "", m.table.View()}

	if m.err != nil {
		parts = append(parts, errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if v := m.selected(); v != nil {
		parts = append(parts, "", entriesView(v, m.accounts))
	}

	if m.status != "" {
		parts = append(parts, "", m.status)
	}

	parts = append(parts, "", helpStyle.Render(m.ShortHelp()))

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func registerRows(vs []*voucher.Voucher) []table.Row {
	rows := make([]table.Row, len(vs))

	for i, v := range vs {
		debit, _ := v.Totals()

		narration := v.Narration
		if v.ReversalOf != nil {
			narration = "↺ " + narration
		}

		rows[i] = table.Row{v.Number, FormatDate(v.Date), string(v.Type), debit.StringFixed(2), narration}
	}

	return rows
}

func entriesView(v *voucher.Voucher, accounts map[uuid.UUID]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-30s %14s %14s\n", "Account", "Debit", "Credit")

	for _, e := range v.Entries {
		name, ok := accounts[e.AccountID]
		if !ok {
			name = e.AccountID.String()[:8]
		}

		debit, credit := "", ""
		if !e.Debit.IsZero() {
			debit = e.Debit.StringFixed(2)
		}

		if !e.Credit.IsZero() {
			credit = e.Credit.StringFixed(2)
		}

		if e.Currency != voucher.DefaultCurrency && e.ForeignAmount != nil {
			name += fmt.Sprintf(" (%s %s)", e.Currency, e.ForeignAmount.StringFixed(2))
		}

		fmt.Fprintf(&b, "%-30s %14s %14s\n", name, debit, credit)
	}

	return strings.TrimRight(b.String(), "\n")
}
