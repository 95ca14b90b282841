package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/khata/internal/cashflow"
	"github.com/MrJamesThe3rd/khata/internal/export"
)

type Projector interface {
	Collect(ctx context.Context, ref time.Time) ([]cashflow.Bucket, error)
}

type cashflowState int

const (
	cashflowStateBrowse cashflowState = iota
	cashflowStateExport
)

// CashflowModel shows the trailing, current and projected months around a
// reference month.
type CashflowModel struct {
	CommonModel
	projector Projector

	state   cashflowState
	table   table.Model
	ref     time.Time
	buckets []cashflow.Bucket

	form *huh.Form

	status string
	err    error
}

func NewCashflowModel(projector Projector, now time.Time) CashflowModel {
	columns := []table.Column{
		{Title: "Month", Width: 10},
		{Title: "Inflow", Width: 16},
		{Title: "Outflow", Width: 16},
		{Title: "Net", Width: 16},
		{Title: "", Width: 10},
	}

	return CashflowModel{
		projector: projector,
		table:     newTable(columns, cashflow.Months),
		ref:       monthStart(now),
	}
}

func (m CashflowModel) Title() string { return "Cash Flow" }

func (m CashflowModel) ShortHelp() string {
	if m.state == cashflowStateExport {
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | [/]: month | x: export xlsx | r: refresh"
}

func (m CashflowModel) Init() tea.Cmd {
	return m.loadCmd()
}

type cashflowLoadedMsg struct {
	buckets []cashflow.Bucket
	err     error
}

type cashflowExportedMsg struct {
	path string
	err  error
}

func (m CashflowModel) loadCmd() tea.Cmd {
	ref := m.ref

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bs, err := m.projector.Collect(ctx, ref)

		return cashflowLoadedMsg{buckets: bs, err: err}
	}
}

func (m CashflowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cashflowLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.buckets = msg.buckets
			m.table.SetRows(cashflowRows(msg.buckets))
		}

		return m, nil

	case cashflowExportedMsg:
		if msg.err != nil {
			m.status = errStyle.Render(fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			m.status = okStyle.Render("Saved " + msg.path)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.state == cashflowStateExport {
		return m.updateExport(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "[":
			m.ref = m.ref.AddDate(0, -1, 0)
			return m, m.loadCmd()
		case "]":
			m.ref = m.ref.AddDate(0, 1, 0)
			return m, m.loadCmd()
		case "r":
			m.status = ""
			return m, m.loadCmd()
		case "x":
			if len(m.buckets) == 0 {
				return m, nil
			}

			return m.enterExport()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CashflowModel) enterExport() (tea.Model, tea.Cmd) {
	path := defaultWorkbookPath(m.ref)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Save workbook to").
				Value(&path).
				Validate(func(s string) error {
					if !strings.HasSuffix(strings.ToLower(s), ".xlsx") {
						return fmt.Errorf("file must end in .xlsx")
					}

					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = cashflowStateExport
	m.table.Blur()

	return m, m.form.Init()
}

func (m CashflowModel) updateExport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = cashflowStateBrowse
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

	path := m.form.GetString("path")

	m.state = cashflowStateBrowse
	m.form = nil
	m.table.Focus()

	return m, saveWorkbookCmd(path, m.buckets)
}

func saveWorkbookCmd(path string, buckets []cashflow.Bucket) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return cashflowExportedMsg{err: err}
		}

		if err := export.CashflowXLSX(buckets, f); err != nil {
			f.Close()
			return cashflowExportedMsg{err: err}
		}

		return cashflowExportedMsg{path: path, err: f.Close()}
	}
}

func (m CashflowModel) View() string {
	if m.state == cashflowStateExport && m.form != nil {
		return padded.Render(m.form.View())
	}

	parts := []string{
		titleStyle.Render(fmt.Sprintf("Cash flow around %s %d", m.ref.Month(), m.ref.Year())),
		"",
		m.table.View(),
	}

	if m.err != nil {
		parts = append(parts, errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if len(m.buckets) > 0 {
		parts = append(parts, "", totalsView(cashflow.Totals(m.buckets)))
	}

	if m.status != "" {
		parts = append(parts, "", m.status)
	}

	parts = append(parts, "", helpStyle.Render(m.ShortHelp()))

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func cashflowRows(buckets []cashflow.Bucket) []table.Row {
	rows := make([]table.Row, len(buckets))

	for i, b := range buckets {
		kind := "actual"
		if b.IsFuture {
			kind = "projected"
		}

		rows[i] = table.Row{b.Label, b.Inflow.StringFixed(2), b.Outflow.StringFixed(2), b.Net.StringFixed(2), kind}
	}

	return rows
}

func totalsView(s cashflow.Summary) string {
	return fmt.Sprintf("%-10s %16s %16s %16s\n%-10s %16s %16s %16s",
		"Actual", s.Actual.Inflow.StringFixed(2), s.Actual.Outflow.StringFixed(2), s.Actual.Net.StringFixed(2),
		"Projected", s.Projected.Inflow.StringFixed(2), s.Projected.Outflow.StringFixed(2), s.Projected.Net.StringFixed(2),
	)
}

func defaultWorkbookPath(ref time.Time) string {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	return filepath.Join(dir, "cashflow_"+ref.Format("200601")+".xlsx")
}
