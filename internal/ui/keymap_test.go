package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/fund-analyzer/internal/export"
	"github.com/stretchr/testify/assert"
)

func TestGlobalActionMapping(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want Action
	}{
		{"run", tea.KeyMsg{Type: tea.KeyCtrlR}, Action{Kind: ActionRunAnalysis}},
		{"quit", tea.KeyMsg{Type: tea.KeyCtrlC}, Action{Kind: ActionQuit}},
		{"export csv", tea.KeyMsg{Type: tea.KeyCtrlE}, Action{Kind: ActionExport, Format: export.FormatCSV}},
		{"export json", tea.KeyMsg{Type: tea.KeyCtrlS}, Action{Kind: ActionExport, Format: export.FormatJSON}},
		{"cashflows", tea.KeyMsg{Type: tea.KeyCtrlF}, Action{Kind: ActionNavigate, Route: RouteCashflows}},
		{"logs", tea.KeyMsg{Type: tea.KeyF12}, Action{Kind: ActionNavigate, Route: RouteLogs}},
		{"dismiss", tea.KeyMsg{Type: tea.KeyCtrlX}, Action{Kind: ActionDismissNotice}},
		{"1M", tea.KeyMsg{Type: tea.KeyF1}, Action{Kind: ActionSelectPeriod, Months: 1}},
		{"1Y", tea.KeyMsg{Type: tea.KeyF4}, Action{Kind: ActionSelectPeriod, Months: 12}},
		{"5Y", tea.KeyMsg{Type: tea.KeyF6}, Action{Kind: ActionSelectPeriod, Months: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.GlobalAction(tt.msg)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypingIsNotGlobal(t *testing.T) {
	km := DefaultKeyMap()
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyRunes, Runes: []rune("1")},
		{Type: tea.KeyEnter},
		{Type: tea.KeyTab},
	} {
		_, ok := km.GlobalAction(msg)
		assert.False(t, ok, msg.String())
	}
}

func TestContextualHelpPerRoute(t *testing.T) {
	km := DefaultKeyMap()
	assert.Len(t, km.ContextualHelp(RouteDashboard), 4+len(km.Periods)+len(km.ShortHelp()))
	assert.Contains(t, km.ContextualHelp(RouteCashflows), km.AddFlow)
	assert.Contains(t, km.ContextualHelp(RouteLogs), km.CycleLevel)
	assert.Equal(t, "cashflows", RouteCashflows.String())
	assert.Equal(t, "run_analysis", ActionRunAnalysis.String())
}
