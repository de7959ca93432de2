package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/export"
)

// KeyMap defines keyboard shortcuts for the application.
// Plain letters and digits are left to the text inputs.
type KeyMap struct {
	// Global
	Quit       key.Binding
	Back       key.Binding
	Run        key.Binding
	Periods    []key.Binding
	ExportCSV  key.Binding
	ExportJSON key.Binding
	Cashflows  key.Binding
	Logs       key.Binding
	Dismiss    key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding

	// Cashflows
	AddFlow    key.Binding
	RemoveFlow key.Binding
	ToggleFlow key.Binding

	// Logs
	CycleLevel key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	periods := make([]key.Binding, 0, len(analysis.Periods))
	for i, p := range analysis.Periods {
		fkey := "f" + string(rune('1'+i))
		periods = append(periods, key.NewBinding(
			key.WithKeys(fkey),
			key.WithHelp(fkey, p.Label),
		))
	}

	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Run: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "analyze"),
		),
		Periods: periods,
		ExportCSV: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export csv"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "export json"),
		),
		Cashflows: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "cashflows"),
		),
		Logs: key.NewBinding(
			key.WithKeys("f12"),
			key.WithHelp("F12", "logs"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "dismiss"),
		),

		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "analyze"),
		),

		AddFlow: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "add"),
		),
		RemoveFlow: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "remove"),
		),
		ToggleFlow: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "deposit/withdraw"),
		),

		CycleLevel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "level"),
		),
	}
}

// GlobalAction maps the keys that work on every screen.
func (k KeyMap) GlobalAction(msg tea.KeyMsg) (Action, bool) {
	switch {
	case key.Matches(msg, k.Quit):
		return Action{Kind: ActionQuit}, true
	case key.Matches(msg, k.Run):
		return Action{Kind: ActionRunAnalysis}, true
	case key.Matches(msg, k.ExportCSV):
		return Action{Kind: ActionExport, Format: export.FormatCSV}, true
	case key.Matches(msg, k.ExportJSON):
		return Action{Kind: ActionExport, Format: export.FormatJSON}, true
	case key.Matches(msg, k.Cashflows):
		return Action{Kind: ActionNavigate, Route: RouteCashflows}, true
	case key.Matches(msg, k.Logs):
		return Action{Kind: ActionNavigate, Route: RouteLogs}, true
	case key.Matches(msg, k.Dismiss):
		return Action{Kind: ActionDismissNotice}, true
	}
	for i, b := range k.Periods {
		if key.Matches(msg, b) {
			return Action{Kind: ActionSelectPeriod, Months: analysis.Periods[i].Months}, true
		}
	}
	return Action{}, false
}

// ShortHelp returns the global bindings shown on every screen.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Cashflows, k.Logs, k.ExportCSV, k.ExportJSON, k.Dismiss, k.Quit}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteDashboard:
		bindings := []key.Binding{k.Tab, k.Enter, k.Up, k.Down}
		bindings = append(bindings, k.Periods...)
		return append(bindings, k.ShortHelp()...)
	case RouteCashflows:
		return []key.Binding{k.AddFlow, k.RemoveFlow, k.ToggleFlow, k.Up, k.Down, k.Tab, k.Run, k.Back, k.Quit}
	case RouteLogs:
		return []key.Binding{k.CycleLevel, k.Up, k.Down, k.Back, k.Quit}
	default:
		return k.ShortHelp()
	}
}
