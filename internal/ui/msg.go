package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/fund-analyzer/internal/dashboard"
	"github.com/rovshanmuradov/fund-analyzer/internal/export"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// AnalysisDoneMsg carries a finished analysis request back to the event loop.
type AnalysisDoneMsg struct {
	Outcome dashboard.Outcome
}

// ExportDoneMsg reports the end of a background export.
type ExportDoneMsg struct {
	Report export.Report
	Err    error
}

// PruneMsg fires periodically to drop expired notices.
type PruneMsg struct {
	Now time.Time
}

// Navigate returns a command that switches to route.
func Navigate(route Route) tea.Cmd {
	return func() tea.Msg {
		return RouterMsg{To: route}
	}
}

// Route represents different screens in the application
type Route int

const (
	RouteDashboard Route = iota
	RouteCashflows
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteDashboard:
		return "dashboard"
	case RouteCashflows:
		return "cashflows"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
