package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cibercrimen/casetrack/internal/stats"
)

var monthLabels = [stats.MonthBuckets]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

type StatsModel struct {
	CommonModel
	statsService *stats.Service
	operator     string

	summary *stats.Summary
	loading bool
	err     error
}

func NewStatsModel(statsSvc *stats.Service, operator string) StatsModel {
	return StatsModel{
		statsService: statsSvc,
		operator:     operator,
		loading:      true,
	}
}

func (m StatsModel) Title() string     { return "Dashboard" }
func (m StatsModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m StatsModel) Init() tea.Cmd {
	return m.loadStatsCmd()
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStatsMsg:
		m.loading = false
		m.summary = msg.summary
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadStatsCmd()
		}
	}

	return m, nil
}

func (m StatsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	s := m.summary

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	boxStyle := lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	totals := boxStyle.Render(fmt.Sprintf(
		"Casos: %d\nActivos: %d\nResueltos: %d\nMonto total: %s",
		s.TotalCases, s.ActiveCases, s.ResolvedCases, FormatAmount(s.TotalAmount),
	))

	monthly := boxStyle.Render(
		titleStyle.Render(fmt.Sprintf("Casos por mes (%d)", time.Now().Year())) +
			"\n" + renderMonthly(s.MonthlyCases),
	)

	crimes := boxStyle.Render(
		titleStyle.Render("Por tipo de delito") + "\n" + renderCrimeTypes(s.CrimeTypes),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, totals, " ", monthly),
		crimes,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func renderMonthly(counts [stats.MonthBuckets]int) string {
	peak := 0
	for _, n := range counts {
		if n > peak {
			peak = n
		}
	}

	var b strings.Builder
	for i, n := range counts {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", n*20/peak)
		}

		fmt.Fprintf(&b, "%s %3d %s\n", monthLabels[i], n, bar)
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderCrimeTypes(counts []stats.CrimeTypeCount) string {
	if len(counts) == 0 {
		return "Sin casos registrados."
	}

	var b strings.Builder
	for _, ct := range counts {
		fmt.Fprintf(&b, "%-30s %d\n", ct.Type, ct.Count)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Messages

type loadStatsMsg struct {
	summary *stats.Summary
	err     error
}

func (m StatsModel) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.statsService.Dashboard(ctx, m.operator)
		return loadStatsMsg{summary: summary, err: err}
	}
}
