package screen

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/logger"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/component"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/router"
)

// AppModel is the root tea.Model: fund header, notice banner and the routed
// screen. Global keys become actions; background results go to the
// dispatcher first and are then forwarded so screens can redraw.
type AppModel struct {
	dispatch *ui.Dispatcher
	router   *router.Router
	keyMap   ui.KeyMap
	header   *component.FundHeader
	width    int
	height   int
}

// NewAppModel creates the application model.
func NewAppModel(dispatch *ui.Dispatcher, charts *component.TerminalTarget, logs *logger.LogBuffer) (*AppModel, error) {
	r, err := router.New(ui.RouteDashboard, map[ui.Route]router.Factory{
		ui.RouteDashboard: func() router.Screen { return NewDashboardScreen(dispatch, charts) },
		ui.RouteCashflows: func() router.Screen { return NewCashflowScreen(dispatch) },
		ui.RouteLogs:      func() router.Screen { return NewLogsScreen(logs) },
	})
	if err != nil {
		return nil, err
	}

	return &AppModel{
		dispatch: dispatch,
		router:   r,
		keyMap:   ui.DefaultKeyMap(),
		header:   component.NewFundHeader(),
	}, nil
}

// Router exposes the screen stack.
func (m *AppModel) Router() *router.Router { return m.router }

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), m.dispatch.Init())
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.router.SetSize(msg.Width, msg.Height-m.header.GetHeight())
		return m, nil

	case tea.KeyMsg:
		if action, ok := m.keyMap.GlobalAction(msg); ok {
			return m, m.dispatch.Do(action)
		}
	}

	if cmd, ok := m.dispatch.Handle(msg); ok {
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.router.Update(msg))

	return m, tea.Batch(cmds...)
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	ctrl := m.dispatch.Controller()
	state := ctrl.State()
	m.header.SetFund(state.Fund)
	m.header.SetPeriod(state.PeriodMonths)
	m.header.SetInFlight(ctrl.InFlight())

	sections := []string{m.header.View()}
	if banner := component.NoticeBanner(ctrl.Notices(ctrl.Now()), m.width); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, m.router.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
