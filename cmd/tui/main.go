package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/cibercrimen/casetrack/cmd/tui/internal/view"
	"github.com/cibercrimen/casetrack/internal/config"
	"github.com/cibercrimen/casetrack/internal/cybercase"
	caseStore "github.com/cibercrimen/casetrack/internal/cybercase/store"
	"github.com/cibercrimen/casetrack/internal/database"
	"github.com/cibercrimen/casetrack/internal/importer"
	"github.com/cibercrimen/casetrack/internal/stats"
	statsStore "github.com/cibercrimen/casetrack/internal/stats/store"
)

type model struct {
	caseService   *cybercase.Service
	statsService  *stats.Service
	importService *importer.Service
	operator      string

	currentView View

	statsView    view.StatsModel
	listView     view.ListModel
	registerView view.RegisterModel
	importView   view.ImportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewStats    View = 1
	ViewList     View = 2
	ViewRegister View = 3
	ViewImport   View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), 2, 1)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	caseSvc := cybercase.NewService(caseStore.New(db))
	statsSvc := stats.NewService(statsStore.New(db))
	impSvc := importer.NewService()
	operator := cfg.App.Operator

	return model{
		caseService:   caseSvc,
		statsService:  statsSvc,
		importService: impSvc,
		operator:      operator,
		currentView:   ViewMenu,
		statsView:     view.NewStatsModel(statsSvc, operator),
		listView:      view.NewListModel(caseSvc),
		registerView:  view.NewRegisterModel(caseSvc, operator),
		importView:    view.NewImportModel(caseSvc, impSvc, operator),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewStats
				m.statsView = view.NewStatsModel(m.statsService, m.operator)

				return m, m.statsView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.caseService)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewRegister
				m.registerView = view.NewRegisterModel(m.caseService, m.operator)

				return m, m.registerView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.caseService, m.importService, m.operator)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewStats:
		var newModel tea.Model
		newModel, cmd = m.statsView.Update(msg)
		m.statsView = newModel.(view.StatsModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"CaseTrack TUI\n\n" +
				"1. Dashboard\n" +
				"2. Browse Cases\n" +
				"3. Register Case\n" +
				"4. Import Cases\n\n" +
				"q. Quit",
		)
	case ViewStats:
		return m.statsView.View()
	case ViewList:
		return m.listView.View()
	case ViewRegister:
		return m.registerView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
