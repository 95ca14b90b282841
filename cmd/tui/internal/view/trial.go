package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

type TrialBalancer interface {
	TrialBalance(ctx context.Context, asOf time.Time) ([]*voucher.Balance, error)
}

// TrialModel shows every head's balance as of the end of a month.
type TrialModel struct {
	CommonModel
	balances TrialBalancer

	table  table.Model
	asOf   time.Time
	debit  decimal.Decimal
	credit decimal.Decimal
	err    error
}

func NewTrialModel(balances TrialBalancer, now time.Time) TrialModel {
	columns := []table.Column{
		{Title: "Code", Width: 12},
		{Title: "Account", Width: 32},
		{Title: "Debit", Width: 16},
		{Title: "Credit", Width: 16},
	}

	return TrialModel{
		balances: balances,
		table:    newTable(columns, 15),
		asOf:     monthEnd(now),
	}
}

func (m TrialModel) Title() string { return "Trial Balance" }

func (m TrialModel) ShortHelp() string {
	return "Esc: back | [/]: month | r: refresh"
}

func (m TrialModel) Init() tea.Cmd {
	return m.loadCmd()
}

type trialLoadedMsg struct {
	balances []*voucher.Balance
	err      error
}

func (m TrialModel) loadCmd() tea.Cmd {
	asOf := m.asOf

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bs, err := m.balances.TrialBalance(ctx, asOf)

		return trialLoadedMsg{balances: bs, err: err}
	}
}

func (m TrialModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trialLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.table.SetRows(trialRows(msg.balances))
			m.debit, m.credit = voucher.TrialTotals(msg.balances)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "[":
			m.asOf = monthEnd(m.asOf.AddDate(0, 0, 1-m.asOf.Day()).AddDate(0, -1, 0))
			return m, m.loadCmd()
		case "]":
			m.asOf = monthEnd(m.asOf.AddDate(0, 0, 1))
			return m, m.loadCmd()
		case "r":
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TrialModel) View() string {
	parts := []string{
		titleStyle.Render("Trial balance as of " + FormatDate(m.asOf)),
		"",
		m.table.View(),
	}

	if m.err != nil {
		parts = append(parts, errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		total := fmt.Sprintf("%-46s %16s %16s", "Total", m.debit.StringFixed(2), m.credit.StringFixed(2))
		if m.debit.Equal(m.credit) {
			total = okStyle.Render(total)
		} else {
			total = errStyle.Render(total)
		}

		parts = append(parts, total)
	}

	parts = append(parts, "", helpStyle.Render(m.ShortHelp()))

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// trialRows puts each head's net position in the column it falls on.
func trialRows(bs []*voucher.Balance) []table.Row {
	rows := make([]table.Row, 0, len(bs))

	for _, b := range bs {
		net := b.Debit.Sub(b.Credit)
		if net.IsZero() {
			continue
		}

		debit, credit := "", ""
		if net.IsPositive() {
			debit = net.StringFixed(2)
		} else {
			credit = net.Neg().StringFixed(2)
		}

		rows = append(rows, table.Row{b.AccountCode, b.AccountName, debit, credit})
	}

	return rows
}
