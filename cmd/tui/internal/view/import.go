package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cibercrimen/casetrack/internal/cybercase"
	"github.com/cibercrimen/casetrack/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	CommonModel
	caseService   *cybercase.Service
	importService *importer.Service
	operator      string

	state      importState
	filePicker filepicker.Model

	conflicts    []cybercase.Conflict
	conflictList list.Model

	status string
	err    error
}

func NewImportModel(caseSvc *cybercase.Service, impSvc *importer.Service, operator string) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AllowedTypes = []string{".csv"}
	fp.SetHeight(15)

	return ImportModel{
		caseService:   caseSvc,
		importService: impSvc,
		operator:      operator,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Cases" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateConflicts {
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateConflicts {
			var cmd tea.Cmd
			m.conflictList, cmd = m.conflictList.Update(msg)

			return m, cmd
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d cases.", len(msg.result.Imported))

			return m, nil
		}

		// Conflicting expedients block the whole batch; nothing was
		// written, so show what collided.
		m.conflicts = msg.result.Conflicts
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c}
		}

		m.conflictList = list.New(items, conflictDelegate{}, 90, 20)
		m.conflictList.Title = "Expedientes duplicados"
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""

		return m, nil
	case importStateConflicts:
		m.state = importStateFilePick
		m.conflicts = nil

		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select CSV file to import:\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(m.conflictList.View())
	case importStateResult:
		return renderOutcome(m.status, m.err != nil)
	}

	return ""
}

// Messages

type importResultMsg struct {
	result *cybercase.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(importer.SourceFiscalia, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.caseService.ImportBatch(ctx, params, m.operator)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

// Conflict list item

type conflictItem struct {
	conflict cybercase.Conflict
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

// Conflict list delegate

type conflictDelegate struct{}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	line1 := fmt.Sprintf("%s%s  %s  %s  %s",
		cursor,
		incoming.ExpedientNumber,
		FormatDate(incoming.CaseDate),
		FormatAmount(incoming.StolenAmount),
		incoming.Victim,
	)

	line2 := fmt.Sprintf("    Existing: %s  %s  %s [%s]",
		FormatDate(existing.CaseDate),
		FormatAmount(existing.StolenAmount),
		existing.Victim,
		existing.Status,
	)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
