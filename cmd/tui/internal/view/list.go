package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

const listPageSize = 20

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
)

type ListModel struct {
	CommonModel
	caseService *cybercase.Service

	state listState
	table table.Model
	cases []*cybercase.Case
	total int
	form  *huh.Form

	// Filter cycling
	crimeFilterIdx int
	dateFilterIdx  int

	filter  cybercase.Filter
	page    cybercase.Page
	loading bool
	err     error
	status  string

	// Form bindings
	formSearch string
}

func NewListModel(caseSvc *cybercase.Service) ListModel {
	columns := []table.Column{
		{Title: "Fecha", Width: 12},
		{Title: "Expediente", Width: 16},
		{Title: "Delito", Width: 26},
		{Title: "Estado", Width: 14},
		{Title: "Monto", Width: 12},
		{Title: "Víctima", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(listPageSize),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		caseService: caseSvc,
		table:       t,
		filter:      cybercase.Filter{},
		page:        cybercase.Page{Number: 1, Limit: listPageSize},
	}
}

func (m ListModel) Title() string { return "Case Browser" }
func (m ListModel) ShortHelp() string {
	if m.state == listStateSearch {
		return "Enter: apply | Esc: cancel"
	}

	return "Esc: back | /: search | t: crime filter | d: date filter | n/p: page | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCasesCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.cases = msg.list.Cases
		m.total = msg.list.Total
		m.status = ""
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateSearch:
		return m.updateSearch(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCasesCmd()
		case "/":
			return m.enterSearchMode()
		case "t":
			m.crimeFilterIdx = (m.crimeFilterIdx + 1) % (len(cybercase.CrimeTypeCatalog()) + 1)
			m.applyCrimeFilter()
			m.page.Number = 1

			return m, m.loadCasesCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyDateFilter()
			m.page.Number = 1

			return m, m.loadCasesCmd()
		case "n":
			if m.page.Number < m.totalPages() {
				m.page.Number++
				return m, m.loadCasesCmd()
			}

			return m, nil
		case "p":
			if m.page.Number > 1 {
				m.page.Number--
				return m, m.loadCasesCmd()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterSearchMode() (tea.Model, tea.Cmd) {
	m.formSearch = m.filter.Search

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("search").
				Title("Buscar").
				Placeholder("expediente, delito o víctima").
				Value(&m.formSearch),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateSearch
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.filter.Search = m.formSearch
	m.page.Number = 1
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()
	m.loading = true

	return m, m.loadCasesCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading cases...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	crimeLabel := "Todos"
	if m.filter.CrimeType != "" {
		crimeLabel = m.filter.CrimeType
	}

	searchLabel := "-"
	if m.filter.Search != "" {
		searchLabel = m.filter.Search
	}

	dateLabels := []string{"Todo", "Este mes", "Mes anterior"}

	header := fmt.Sprintf(
		"[t] Delito: %s | [d] Fecha: %s | [/] Buscar: %s | Página %d/%d (%d casos)",
		activeStyle(crimeLabel),
		activeStyle(dateLabels[m.dateFilterIdx]),
		activeStyle(searchLabel),
		m.page.Number, max(m.totalPages(), 1), m.total,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateSearch && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Buscar casos\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) applyCrimeFilter() {
	if m.crimeFilterIdx == 0 {
		m.filter.CrimeType = ""
		return
	}

	m.filter.CrimeType = string(cybercase.CrimeTypeCatalog()[m.crimeFilterIdx-1])
}

// applyDateFilter sets inclusive case-date bounds; case dates live at
// UTC midnight.
func (m *ListModel) applyDateFilter() {
	now := time.Now().UTC()

	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, -1)
		m.filter.DateFrom = &s
		m.filter.DateTo = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, -1)
		m.filter.DateFrom = &s
		m.filter.DateTo = &e
	default:
		m.filter.DateFrom = nil
		m.filter.DateTo = nil
	}
}

func (m ListModel) totalPages() int {
	return cybercase.CaseList{Total: m.total}.TotalPages(m.page.Limit)
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.cases))
	for _, c := range m.cases {
		rows = append(rows, table.Row{
			FormatDate(c.CaseDate),
			c.ExpedientNumber,
			string(c.CrimeType),
			string(c.Status),
			FormatAmount(c.StolenAmount),
			c.Victim,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	list *cybercase.CaseList
	err  error
}

func (m ListModel) loadCasesCmd() tea.Cmd {
	filter := m.filter
	page := m.page

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		list, err := m.caseService.List(ctx, filter, page)
		return loadListMsg{list: list, err: err}
	}
}
