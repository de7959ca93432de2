package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/dashboard"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/component"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/router"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
)

// Form field order.
const (
	fieldStart = iota
	fieldEnd
	fieldRolling
	fieldCAGR
	fieldSharpe
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldStart:   "Start",
	fieldEnd:     "End",
	fieldRolling: "Rolling (months)",
	fieldCAGR:    "CAGR (years)",
	fieldSharpe:  "Sharpe (years)",
}

// formChromeHeight is everything above and below the results viewport.
const formChromeHeight = 10

// DashboardScreen shows the parameter form and the analysis results.
type DashboardScreen struct {
	dispatch *ui.Dispatcher
	charts   *component.TerminalTarget
	keyMap   ui.KeyMap
	helpBar  *component.HelpBar

	inputs  [fieldCount]textinput.Model
	focus   int
	spinner spinner.Model
	results viewport.Model

	width  int
	height int

	labelStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	hintStyle    lipgloss.Style
}

// NewDashboardScreen creates the dashboard screen.
func NewDashboardScreen(dispatch *ui.Dispatcher, charts *component.TerminalTarget) *DashboardScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	s := &DashboardScreen{
		dispatch: dispatch,
		charts:   charts,
		keyMap:   keyMap,
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteDashboard)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		results:  viewport.New(80, 10),

		labelStyle: lipgloss.NewStyle().
			Foreground(palette.TextSecondary),

		focusedStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
	s.spinner.Style = lipgloss.NewStyle().Foreground(palette.Warning)

	for i := range s.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 10
		ti.Width = 10
		s.inputs[i] = ti
	}
	s.inputs[fieldStart].Placeholder = analysis.DateLayout
	s.inputs[fieldEnd].Placeholder = analysis.DateLayout
	s.inputs[fieldRolling].CharLimit = 3
	s.inputs[fieldCAGR].CharLimit = 3
	s.inputs[fieldSharpe].CharLimit = 3
	s.inputs[fieldStart].Focus()

	s.pullForm()
	return s
}

// Init starts the loading spinner.
func (s *DashboardScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

// SetSize sets the screen dimensions
func (s *DashboardScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)

	s.results.Width = width - 2
	s.results.Height = height - formChromeHeight
	if s.results.Height < 5 {
		s.results.Height = 5
	}
}

// Update handles form input and scrolling.
func (s *DashboardScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	s.pullForm()

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Tab):
			s.setFocus((s.focus + 1) % fieldCount)
			return s, nil
		case key.Matches(msg, s.keyMap.ShiftTab):
			s.setFocus((s.focus + fieldCount - 1) % fieldCount)
			return s, nil
		case key.Matches(msg, s.keyMap.Enter):
			return s, s.dispatch.Do(ui.Action{Kind: ui.ActionRunAnalysis})
		case key.Matches(msg, s.keyMap.Up), key.Matches(msg, s.keyMap.Down),
			msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			s.results, cmd = s.results.Update(msg)
			return s, cmd
		}

		before := s.inputs[s.focus].Value()
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		if s.inputs[s.focus].Value() != before {
			return s, tea.Batch(cmd, s.dispatch.Do(ui.Action{Kind: ui.ActionUpdateForm, Form: s.form()}))
		}
		return s, cmd
	}

	return s, nil
}

// View renders the dashboard screen
func (s *DashboardScreen) View() string {
	s.pullForm()
	ctrl := s.dispatch.Controller()
	state := ctrl.State()

	s.results.SetContent(component.Results(state, s.charts, s.results.Width))

	sections := []string{
		s.renderForm(),
		s.renderStatus(),
		s.results.View(),
		s.helpBar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *DashboardScreen) renderForm() string {
	cells := make([]string, 0, fieldCount)
	for i := range s.inputs {
		label := s.labelStyle.Render(fieldLabels[i])
		if i == s.focus {
			label = s.focusedStyle.Render(fieldLabels[i])
		}
		cells = append(cells, lipgloss.JoinVertical(lipgloss.Left, label, "["+s.inputs[i].View()+"]"))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, spaced(cells)...)
	return style.Panel.Render(row)
}

func (s *DashboardScreen) renderStatus() string {
	ctrl := s.dispatch.Controller()
	l := ctrl.Ledger()

	flows := "no additional cashflows"
	if n := len(l.Snapshot()); n > 0 {
		flows = fmt.Sprintf("%d cashflows, net %s", n, l.Total().StringFixed(2))
	}
	status := s.hintStyle.Render(flows + " (ctrl+f to edit)")

	if ctrl.State().Loading {
		status = s.spinner.View() + " Analyzing…  " + status
	}
	return status
}

// form reads the raw inputs.
func (s *DashboardScreen) form() dashboard.Form {
	return dashboard.Form{
		StartDate:     s.inputs[fieldStart].Value(),
		EndDate:       s.inputs[fieldEnd].Value(),
		RollingWindow: s.inputs[fieldRolling].Value(),
		CAGRPeriod:    s.inputs[fieldCAGR].Value(),
		SharpePeriod:  s.inputs[fieldSharpe].Value(),
	}
}

// pullForm copies controller-side form changes (period shortcuts) into the inputs.
func (s *DashboardScreen) pullForm() {
	f := s.dispatch.Controller().Form()
	values := [fieldCount]string{
		fieldStart:   f.StartDate,
		fieldEnd:     f.EndDate,
		fieldRolling: f.RollingWindow,
		fieldCAGR:    f.CAGRPeriod,
		fieldSharpe:  f.SharpePeriod,
	}
	for i, v := range values {
		if s.inputs[i].Value() != v {
			s.inputs[i].SetValue(v)
		}
	}
}

func (s *DashboardScreen) setFocus(i int) {
	s.inputs[s.focus].Blur()
	s.focus = i
	s.inputs[s.focus].Focus()
}

func spaced(cells []string) []string {
	out := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			out = append(out, strings.Repeat(" ", 3))
		}
		out = append(out, c)
	}
	return out
}
