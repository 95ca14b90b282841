package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/khata/internal/importer"
)

const importTimeout = 2 * time.Minute

type Importer interface {
	Import(ctx context.Context, format importer.Format, r io.Reader) (*importer.Result, error)
}

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importer Importer

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string

	results list.Model
	summary string
	err     error
}

func NewImportModel(imp Importer) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return ImportModel{
		importer:   imp,
		filePicker: fp,
		spinner:    sp,
	}
}

func (m ImportModel) Title() string { return "Import Day Book" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "↑/↓: scroll | Esc: pick another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err == nil {
			m.summary = importSummary(msg.result)
			m.results = newResultList(msg.result, m.Width, m.Height)
		}

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}

	switch m.state {
	case importStateResult:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)

		return m, cmd
	case importStateImporting:
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.path = path

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.summary = ""

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return padded.Render(
			titleStyle.Render("Select a day book CSV to import") + "\n\n" + m.filePicker.View() +
				"\n" + helpStyle.Render(m.ShortHelp()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Importing %s...", m.spinner.View(), m.path),
		)
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + helpStyle.Render(m.ShortHelp()),
		)
	}

	return padded.Render(m.summary + "\n\n" + m.results.View() + "\n" + helpStyle.Render(m.ShortHelp()))
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := m.importer.Import(ctx, importer.FormatDaybook, f)

		return importResultMsg{result: res, err: err}
	}
}

func importSummary(res *importer.Result) string {
	posted := okStyle.Render(fmt.Sprintf("%d posted", len(res.Posted)))
	if len(res.Failed) == 0 {
		return posted
	}

	return posted + ", " + errStyle.Render(fmt.Sprintf("%d failed", len(res.Failed)))
}

// Result list

type resultItem struct {
	ok     bool
	ref    string
	detail string
}

func (i resultItem) Title() string       { return i.ref }
func (i resultItem) Description() string { return i.detail }
func (i resultItem) FilterValue() string { return i.ref }

func resultItems(res *importer.Result) []list.Item {
	items := make([]list.Item, 0, len(res.Posted)+len(res.Failed))

	for _, f := range res.Failed {
		items = append(items, resultItem{
			ref:    f.Ref,
			detail: fmt.Sprintf("line %d: %v", f.Line, f.Err),
		})
	}

	for _, v := range res.Posted {
		debit, _ := v.Totals()
		items = append(items, resultItem{
			ok:     true,
			ref:    v.Reference,
			detail: fmt.Sprintf("%s  %s  %s", v.Number, FormatDate(v.Date), debit.StringFixed(2)),
		})
	}

	return items
}

func newResultList(res *importer.Result, width, height int) list.Model {
	if width == 0 {
		width = 80
	}

	l := list.New(resultItems(res), resultDelegate{}, width, max(height-8, 10))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

type resultDelegate struct{}

func (d resultDelegate) Height() int                             { return 1 }
func (d resultDelegate) Spacing() int                            { return 0 }
func (d resultDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d resultDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(resultItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	mark := okStyle.Render("✓")
	if !item.ok {
		mark = errStyle.Render("✗")
	}

	fmt.Fprintf(w, "%s%s %-16s %s", cursor, mark, item.ref, item.detail)
}
