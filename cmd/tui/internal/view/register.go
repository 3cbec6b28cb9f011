package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

type registerState int

const (
	registerStateForm registerState = iota
	registerStateSaving
	registerStateResult
)

// RegisterModel is the case registration form. Saved cases are attributed
// to the configured operator.
type RegisterModel struct {
	CommonModel
	caseService *cybercase.Service
	operator    string

	state registerState
	form  *huh.Form

	status string
	err    error

	// Form bindings
	formDate      string
	formExpedient string
	formCrimeType string
	formStatus    string
	formAmount    string
	formSender    string
	formReceiver  string
	formResearch  string
	formObs       string
	formVictim    string
}

func NewRegisterModel(caseSvc *cybercase.Service, operator string) RegisterModel {
	m := RegisterModel{
		caseService: caseSvc,
		operator:    operator,
		formDate:    time.Now().Format(time.DateOnly),
		formStatus:  string(cybercase.StatusPending),
	}
	m.form = m.newForm()

	return m
}

func (m *RegisterModel) newForm() *huh.Form {
	crimeOptions := make([]huh.Option[string], 0, len(cybercase.CrimeTypeCatalog()))
	for _, ct := range cybercase.CrimeTypeCatalog() {
		crimeOptions = append(crimeOptions, huh.NewOption(string(ct), string(ct)))
	}

	statusOptions := make([]huh.Option[string], 0, len(cybercase.StatusCatalog()))
	for _, st := range cybercase.StatusCatalog() {
		statusOptions = append(statusOptions, huh.NewOption(string(st), string(st)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("case_date").
				Title("Fecha del caso").
				Placeholder("2006-01-02").
				Value(&m.formDate).
				Validate(validDate),

			huh.NewInput().
				Key("expedient_number").
				Title("Número de expediente").
				Value(&m.formExpedient).
				Validate(notBlank),

			huh.NewSelect[string]().
				Key("crime_type").
				Title("Tipo de delito").
				Options(crimeOptions...).
				Value(&m.formCrimeType),

			huh.NewSelect[string]().
				Key("investigation_status").
				Title("Estado de investigación").
				Options(statusOptions...).
				Value(&m.formStatus),

			huh.NewInput().
				Key("stolen_amount").
				Title("Monto sustraído").
				Placeholder("0.00").
				Value(&m.formAmount).
				Validate(validAmount),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("sender_account_data").
				Title("Cuenta emisora").
				Value(&m.formSender).
				Validate(notBlank),

			huh.NewInput().
				Key("receiver_account_data").
				Title("Cuenta receptora").
				Value(&m.formReceiver).
				Validate(notBlank),

			huh.NewInput().
				Key("receiver_account_research").
				Title("Investigación cuenta receptora").
				Value(&m.formResearch),

			huh.NewText().
				Key("observations").
				Title("Observaciones").
				Value(&m.formObs),

			huh.NewInput().
				Key("victim").
				Title("Víctima").
				Value(&m.formVictim).
				Validate(notBlank),
		),
	).WithWidth(60).WithShowHelp(false)
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("este campo es obligatorio")
	}

	return nil
}

func validDate(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("formato esperado: 2006-01-02")
	}

	return nil
}

func validAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("monto inválido")
	}

	return nil
}

func (m RegisterModel) Title() string { return "Register Case" }

func (m RegisterModel) ShortHelp() string {
	if m.state == registerStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back"
}

func (m RegisterModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == registerStateResult {
				m.state = registerStateForm
				m.err = nil
				m.status = ""
				m.form = m.newForm()

				return m, m.form.Init()
			}

			return m, Back
		}

	case registerResultMsg:
		m.state = registerStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Caso %s registrado.", msg.expedient)

		return m, nil
	}

	if m.state != registerStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = registerStateSaving

	return m, m.saveCmd()
}

func (m RegisterModel) View() string {
	switch m.state {
	case registerStateForm:
		return lipgloss.NewStyle().Padding(1, 2).Render(
			"Registrar caso\n\n" + m.form.View(),
		)
	case registerStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving case...")
	case registerStateResult:
		return renderOutcome(m.status, m.err != nil)
	}

	return ""
}

// Messages

type registerResultMsg struct {
	expedient string
	err       error
}

func (m RegisterModel) saveCmd() tea.Cmd {
	// Reads go through the form keys; the validators already vetted date
	// and amount, so parse errors fall through to the service's own checks.
	caseDate, _ := time.Parse(time.DateOnly, m.form.GetString("case_date"))

	amount := decimal.Zero
	if s := strings.TrimSpace(m.form.GetString("stolen_amount")); s != "" {
		amount, _ = decimal.NewFromString(s)
	}

	params := cybercase.CreateParams{
		CaseDate:                caseDate,
		ExpedientNumber:         strings.TrimSpace(m.form.GetString("expedient_number")),
		CrimeType:               cybercase.CrimeType(m.form.GetString("crime_type")),
		Status:                  cybercase.Status(m.form.GetString("investigation_status")),
		StolenAmount:            amount,
		SenderAccountData:       strings.TrimSpace(m.form.GetString("sender_account_data")),
		ReceiverAccountData:     strings.TrimSpace(m.form.GetString("receiver_account_data")),
		ReceiverAccountResearch: strings.TrimSpace(m.form.GetString("receiver_account_research")),
		Observations:            strings.TrimSpace(m.form.GetString("observations")),
		Victim:                  strings.TrimSpace(m.form.GetString("victim")),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.caseService.Create(ctx, params, m.operator)
		if err != nil {
			return registerResultMsg{err: err}
		}

		return registerResultMsg{expedient: c.ExpedientNumber}
	}
}
