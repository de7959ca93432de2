package screen

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/logger"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/component"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/router"
)

const logsRefreshInterval = time.Second

var logsTickSeq atomic.Uint64

// logsTickMsg refreshes one logs screen instance. Ticks of screens that
// were closed are ignored, so re-opening never doubles the refresh rate.
type logsTickMsg struct {
	id uint64
}

// LogsScreen represents the logs viewing screen
type LogsScreen struct {
	keyMap  ui.KeyMap
	viewer  *component.LogViewer
	helpBar *component.HelpBar
	tickID  uint64
}

// NewLogsScreen creates a new logs screen over buffer.
func NewLogsScreen(buffer *logger.LogBuffer) *LogsScreen {
	keyMap := ui.DefaultKeyMap()
	return &LogsScreen{
		keyMap:  keyMap,
		viewer:  component.NewLogViewer(buffer),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs)),
		tickID:  logsTickSeq.Add(1),
	}
}

// Init loads the buffer and starts the refresh loop.
func (s *LogsScreen) Init() tea.Cmd {
	s.viewer.Refresh()
	return s.tick()
}

func (s *LogsScreen) tick() tea.Cmd {
	id := s.tickID
	return tea.Tick(logsRefreshInterval, func(time.Time) tea.Msg {
		return logsTickMsg{id: id}
	})
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.helpBar.SetWidth(width)
	s.viewer.SetSize(width, height-4)
}

// Update handles level filtering, scrolling and periodic refresh.
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case logsTickMsg:
		if msg.id != s.tickID {
			return s, nil
		}
		s.viewer.Refresh()
		return s, s.tick()

	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.CycleLevel) {
			s.viewer.CycleLevel()
			return s, nil
		}
		return s, s.viewer.Update(msg)
	}
	return s, nil
}

// View renders the logs screen
func (s *LogsScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, s.viewer.View(), s.helpBar.View())
}
