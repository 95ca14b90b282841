package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/khata/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/khata/internal/app"
	"github.com/MrJamesThe3rd/khata/internal/config"
	"github.com/MrJamesThe3rd/khata/internal/database"
)

type Screen int

const (
	ScreenMenu Screen = iota
	ScreenRegister
	ScreenTrial
	ScreenCashflow
	ScreenGST
	ScreenImport
)

type model struct {
	app      *app.App
	accounts map[uuid.UUID]string

	current Screen
	screen  view.View
	width   int
	height  int
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := view.DbCtx()
	defer cancel()

	a, err := app.New(ctx, cfg, db)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	return model{
		app:      a,
		accounts: accountNames(ctx, a),
		current:  ScreenMenu,
	}
}

// accountNames labels heads for the register's entry detail. A failure only
// costs the labels, so it is logged and the TUI still starts.
func accountNames(ctx context.Context, a *app.App) map[uuid.UUID]string {
	heads, err := a.Ledger.ListHeads(ctx)
	if err != nil {
		slog.Warn("failed to load account heads", "error", err)
		return nil
	}

	names := make(map[uuid.UUID]string, len(heads))
	for _, h := range heads {
		names[h.ID] = h.Code + " " + h.Name
	}

	return names
}

func (m model) open(s Screen) (tea.Model, tea.Cmd) {
	now := time.Now()

	switch s {
	case ScreenRegister:
		m.screen = view.NewRegisterModel(m.app.Vouchers, m.accounts, now)
	case ScreenTrial:
		m.screen = view.NewTrialModel(m.app.Vouchers, now)
	case ScreenCashflow:
		m.screen = view.NewCashflowModel(m.app.Projector, now)
	case ScreenGST:
		m.screen = view.NewGSTModel(m.app.Config.Ledger.CompanyState)
	case ScreenImport:
		m.screen = view.NewImportModel(m.app.Importer)
	default:
		return m, nil
	}

	m.current = s

	cmds := []tea.Cmd{m.screen.Init()}
	if m.width > 0 {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
		cmds = append(cmds, func() tea.Msg { return size })
	}

	return m, tea.Batch(cmds...)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == ScreenMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.open(ScreenRegister)
			case "2":
				return m.open(ScreenTrial)
			case "3":
				return m.open(ScreenCashflow)
			case "4":
				return m.open(ScreenGST)
			case "5":
				return m.open(ScreenImport)
			}

			return m, nil
		}

	case view.BackMsg:
		m.current = ScreenMenu
		m.screen = nil

		return m, nil
	}

	if m.screen == nil {
		return m, nil
	}

	next, cmd := m.screen.Update(msg)
	if v, ok := next.(view.View); ok {
		m.screen = v
	}

	return m, cmd
}

func (m model) View() string {
	if m.current != ScreenMenu && m.screen != nil {
		return m.screen.View()
	}

	return lipgloss.NewStyle().Padding(2).Render(
		"Khata\n\n" +
			"1. Voucher Register\n" +
			"2. Trial Balance\n" +
			"3. Cash Flow\n" +
			"4. GST Calculator\n" +
			"5. Import Day Book\n\n" +
			"q. Quit",
	)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
