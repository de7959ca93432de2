package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/dashboard"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
)

// NoticeBanner renders the active notices, newest last. It renders nothing
// when there are none.
func NoticeBanner(notices []dashboard.Notice, width int) string {
	if len(notices) == 0 {
		return ""
	}
	palette := style.DefaultPalette()

	rendered := make([]string, 0, len(notices))
	for _, n := range notices {
		color := palette.Info
		if n.Level == dashboard.NoticeError {
			color = palette.Error
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(color).
			Foreground(color).
			PaddingLeft(1)
		if width > 4 {
			box = box.Width(width - 4)
		}
		rendered = append(rendered, box.Render(n.Text))
	}
	return strings.Join(rendered, "\n")
}
