package component

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/logger"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
	"go.uber.org/zap/zapcore"
)

const logViewerDepth = 500

// LogViewer shows the most recent entries of a LogBuffer at or above a
// minimum level.
type LogViewer struct {
	buffer   *logger.LogBuffer
	viewport viewport.Model
	minLevel zapcore.Level
	style    logViewerStyle
	width    int
	height   int
}

type logViewerStyle struct {
	container lipgloss.Style
	title     lipgloss.Style
	timestamp lipgloss.Style
	name      lipgloss.Style
	fields    lipgloss.Style
	error     lipgloss.Style
	warning   lipgloss.Style
	info      lipgloss.Style
	debug     lipgloss.Style
}

// NewLogViewer creates a log viewer over buffer.
func NewLogViewer(buffer *logger.LogBuffer) *LogViewer {
	palette := style.DefaultPalette()

	return &LogViewer{
		buffer:   buffer,
		minLevel: zapcore.DebugLevel,
		style: logViewerStyle{
			container: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Info).
				Padding(0, 1),

			title: lipgloss.NewStyle().
				Foreground(palette.Info).
				Bold(true),

			timestamp: lipgloss.NewStyle().
				Foreground(palette.TextMuted),

			name: lipgloss.NewStyle().
				Foreground(palette.Secondary),

			fields: lipgloss.NewStyle().
				Foreground(palette.TextMuted),

			error: lipgloss.NewStyle().
				Foreground(palette.Error).
				Bold(true),

			warning: lipgloss.NewStyle().
				Foreground(palette.Warning).
				Bold(true),

			info: lipgloss.NewStyle().
				Foreground(palette.Text),

			debug: lipgloss.NewStyle().
				Foreground(palette.TextMuted),
		},
		viewport: viewport.New(76, 10),
	}
}

// SetSize sets the component dimensions
func (lv *LogViewer) SetSize(width, height int) {
	lv.width = width
	lv.height = height
	if width > 4 {
		lv.style.container = lv.style.container.Width(width - 4)
	}

	vw, vh := width-6, height-3 // border, padding, title
	if vw < 20 {
		vw = 20
	}
	if vh < 2 {
		vh = 2
	}
	lv.viewport.Width = vw
	lv.viewport.Height = vh
	lv.Refresh()
}

// MinLevel returns the current level filter.
func (lv *LogViewer) MinLevel() zapcore.Level { return lv.minLevel }

// CycleLevel steps the filter debug → info → warn → error → debug.
func (lv *LogViewer) CycleLevel() {
	if lv.minLevel >= zapcore.ErrorLevel {
		lv.minLevel = zapcore.DebugLevel
	} else {
		lv.minLevel++
	}
	lv.Refresh()
}

// Update forwards scrolling keys to the viewport.
func (lv *LogViewer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	lv.viewport, cmd = lv.viewport.Update(msg)
	return cmd
}

// Refresh reloads the viewport from the buffer. It keeps following the tail
// when the view was already at the bottom.
func (lv *LogViewer) Refresh() {
	follow := lv.viewport.AtBottom()
	lv.viewport.SetContent(lv.Content())
	if follow {
		lv.viewport.GotoBottom()
	}
}

// Content renders the filtered entries, oldest first.
func (lv *LogViewer) Content() string {
	if lv.buffer == nil {
		return "No log buffer available"
	}

	var lines []string
	for _, entry := range lv.buffer.Recent(logViewerDepth) {
		if entryLevel(entry) < lv.minLevel {
			continue
		}
		lines = append(lines, lv.format(entry))
	}
	if len(lines) == 0 {
		return "No logs match current filter"
	}
	return strings.Join(lines, "\n")
}

// View renders the log viewer
func (lv *LogViewer) View() string {
	title := fmt.Sprintf("Logs (level ≥ %s)", strings.ToUpper(lv.minLevel.String()))
	return lv.style.container.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		lv.style.title.Render(title),
		lv.viewport.View(),
	))
}

func (lv *LogViewer) format(entry logger.LogEntry) string {
	var msg lipgloss.Style
	switch entryLevel(entry) {
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		msg = lv.style.error
	case zapcore.WarnLevel:
		msg = lv.style.warning
	case zapcore.DebugLevel:
		msg = lv.style.debug
	default:
		msg = lv.style.info
	}

	parts := []string{lv.style.timestamp.Render(entry.Timestamp.Format("15:04:05"))}
	if entry.Logger != "" {
		parts = append(parts, lv.style.name.Render(entry.Logger))
	}
	parts = append(parts, msg.Render(entry.Message))
	if len(entry.Fields) > 0 {
		parts = append(parts, lv.style.fields.Render(formatFields(entry.Fields)))
	}
	return strings.Join(parts, " ")
}

func entryLevel(entry logger.LogEntry) zapcore.Level {
	level, err := zapcore.ParseLevel(strings.ToLower(entry.Level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
