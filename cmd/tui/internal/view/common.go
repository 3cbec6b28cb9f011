package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderOutcome shows a final success or failure message for the
// register and import flows.
func renderOutcome(status string, failed bool) string {
	style := okStyle
	if failed {
		style = failStyle
	}

	return lipgloss.NewStyle().Padding(2).Render(
		style.Render(status) + "\n\n(Esc to go back)",
	)
}
