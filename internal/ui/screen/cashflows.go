package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/ledger"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/component"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/router"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
)

// CashflowScreen edits the additional cashflow ledger. The selected row is
// edited in place; every keystroke is written back to the ledger.
type CashflowScreen struct {
	dispatch *ui.Dispatcher
	keyMap   ui.KeyMap
	helpBar  *component.HelpBar

	cursor    int
	seen      int
	editingID string
	field     int // 0 date, 1 amount
	date      textinput.Model
	amount    textinput.Model

	width  int
	height int

	titleStyle    lipgloss.Style
	headerStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	invalidStyle  lipgloss.Style
	mutedStyle    lipgloss.Style
}

// NewCashflowScreen creates the ledger editor.
func NewCashflowScreen(dispatch *ui.Dispatcher) *CashflowScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	date := textinput.New()
	date.Prompt = ""
	date.Placeholder = analysis.DateLayout
	date.CharLimit = 10
	date.Width = 12

	amount := textinput.New()
	amount.Prompt = ""
	amount.Placeholder = "0.00"
	amount.CharLimit = 16
	amount.Width = 14

	s := &CashflowScreen{
		dispatch: dispatch,
		keyMap:   keyMap,
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteCashflows)),
		date:     date,
		amount:   amount,

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			MarginBottom(1),

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true),

		selectedStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		invalidStyle: lipgloss.NewStyle().
			Foreground(palette.Warning),

		mutedStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
	s.seen = dispatch.Controller().Ledger().Len()
	s.sync()
	return s
}

// Init initializes the screen
func (s *CashflowScreen) Init() tea.Cmd {
	return nil
}

// SetSize sets the screen dimensions
func (s *CashflowScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
}

// Update handles ledger editing keys.
func (s *CashflowScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	s.sync()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch {
	case key.Matches(keyMsg, s.keyMap.AddFlow):
		cmd := s.dispatch.Do(ui.Action{Kind: ui.ActionAddFlow})
		s.sync()
		return s, cmd

	case key.Matches(keyMsg, s.keyMap.RemoveFlow):
		if s.editingID == "" {
			return s, nil
		}
		cmd := s.dispatch.Do(ui.Action{Kind: ui.ActionRemoveFlow, FlowID: s.editingID})
		s.sync()
		return s, cmd

	case key.Matches(keyMsg, s.keyMap.ToggleFlow):
		if s.editingID == "" {
			return s, nil
		}
		return s, s.dispatch.Do(ui.Action{Kind: ui.ActionToggleFlow, FlowID: s.editingID})

	case key.Matches(keyMsg, s.keyMap.Up):
		if s.cursor > 0 {
			s.cursor--
		}
		s.sync()
		return s, nil

	case key.Matches(keyMsg, s.keyMap.Down):
		s.cursor++
		s.sync()
		return s, nil

	case key.Matches(keyMsg, s.keyMap.Tab), key.Matches(keyMsg, s.keyMap.ShiftTab):
		s.setField(1 - s.field)
		return s, nil

	case key.Matches(keyMsg, s.keyMap.Enter):
		return s, s.dispatch.Do(ui.Action{Kind: ui.ActionRunAnalysis})
	}

	if s.editingID == "" {
		return s, nil
	}

	dateBefore, amountBefore := s.date.Value(), s.amount.Value()
	var cmd tea.Cmd
	if s.field == 0 {
		s.date, cmd = s.date.Update(keyMsg)
	} else {
		s.amount, cmd = s.amount.Update(keyMsg)
	}
	if s.date.Value() == dateBefore && s.amount.Value() == amountBefore {
		return s, cmd
	}
	return s, tea.Batch(cmd, s.dispatch.Do(ui.Action{
		Kind:   ui.ActionUpdateFlow,
		FlowID: s.editingID,
		Date:   s.date.Value(),
		Amount: s.amount.Value(),
	}))
}

// sync aligns the cursor and the editors with the ledger. A newly added row
// is selected; switching rows loads its raw values into the editors.
func (s *CashflowScreen) sync() {
	entries := s.dispatch.Controller().Ledger().Entries()
	if len(entries) > s.seen {
		s.cursor = len(entries) - 1
	}
	s.seen = len(entries)

	if len(entries) == 0 {
		s.cursor = 0
		s.editingID = ""
		s.date.Blur()
		s.amount.Blur()
		return
	}
	if s.cursor >= len(entries) {
		s.cursor = len(entries) - 1
	}

	current := entries[s.cursor]
	if current.ID != s.editingID {
		s.editingID = current.ID
		s.date.SetValue(current.Date)
		s.amount.SetValue(current.Amount)
		s.setField(s.field)
	}
}

func (s *CashflowScreen) setField(f int) {
	s.field = f
	if f == 0 {
		s.date.Focus()
		s.amount.Blur()
	} else {
		s.amount.Focus()
		s.date.Blur()
	}
}

// View renders the ledger editor
func (s *CashflowScreen) View() string {
	s.sync()
	l := s.dispatch.Controller().Ledger()
	entries := l.Entries()

	var b strings.Builder
	b.WriteString(s.titleStyle.Render("Additional cashflows"))
	b.WriteString("\n")
	b.WriteString(s.headerStyle.Render(fmt.Sprintf("  %-12s  %-16s  %-9s", "Date", "Amount", "Type")))

	if len(entries) == 0 {
		b.WriteString("\n")
		b.WriteString(s.mutedStyle.Render("  No cashflows. Press ctrl+n to add one."))
	}

	for i, e := range entries {
		b.WriteString("\n")
		b.WriteString(s.renderRow(i, e))
	}

	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Net flow %s across %d of %d rows",
		style.Signed(l.Total().InexactFloat64(), l.Total().StringFixed(2)),
		len(l.Snapshot()), len(entries)))

	return lipgloss.JoinVertical(lipgloss.Left, style.Panel.Render(b.String()), s.helpBar.View())
}

func (s *CashflowScreen) renderRow(i int, e ledger.Entry) string {
	direction := ui.FlowDirectionLabel(e.Direction)

	if i == s.cursor {
		return s.selectedStyle.Render("▸ ") +
			fmt.Sprintf("%-12s  %-16s  ", s.date.View(), s.amount.View()) +
			s.selectedStyle.Render(direction) + s.validity(e)
	}

	date, amount := e.Date, e.Amount
	if date == "" {
		date = "-"
	}
	if amount == "" {
		amount = "-"
	}
	return fmt.Sprintf("  %-12s  %-16s  %-9s", date, amount, direction) + s.validity(e)
}

func (s *CashflowScreen) validity(e ledger.Entry) string {
	if e.Valid() {
		return ""
	}
	return s.invalidStyle.Render("  ignored")
}
