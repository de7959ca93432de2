package component

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a row of block characters. Longer series are
// resampled to width; shorter ones are padded with spaces.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) == 0 {
		return strings.Repeat("▁", width)
	}

	points := resample(data, width)
	min, max := minMax(points)

	var b strings.Builder
	for _, v := range points {
		if min == max {
			b.WriteRune('▄')
			continue
		}
		idx := int((v - min) / (max - min) * float64(len(sparkChars)-1))
		if idx < 0 {
			idx = 0
		} else if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteRune(sparkChars[idx])
	}
	if pad := width - len(points); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	return b.String()
}

// resample picks width evenly spaced points, always keeping the last one.
func resample(data []float64, width int) []float64 {
	if len(data) <= width {
		return data
	}
	out := make([]float64, width)
	step := 0.0
	if width > 1 {
		step = float64(len(data)-1) / float64(width-1)
	}
	for i := range out {
		out[i] = data[int(float64(i)*step+0.5)]
	}
	out[width-1] = data[len(data)-1]
	return out
}

func minMax(data []float64) (float64, float64) {
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Trend returns an arrow for the direction from the first to the last value.
func Trend(data []float64) string {
	if len(data) < 2 {
		return "→"
	}
	first, last := data[0], data[len(data)-1]
	switch {
	case last > first:
		return "↗"
	case last < first:
		return "↘"
	default:
		return "→"
	}
}

// TerminalTarget keeps the last figure of every chart kind and renders them
// as labelled sparklines.
type TerminalTarget struct {
	mu      sync.RWMutex
	figures map[chart.Kind]chart.Figure
}

// NewTerminalTarget creates an empty terminal target.
func NewTerminalTarget() *TerminalTarget {
	return &TerminalTarget{figures: make(map[chart.Kind]chart.Figure)}
}

// React replaces what the target shows for kind.
func (t *TerminalTarget) React(kind chart.Kind, fig chart.Figure) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.figures[kind] = fig
	return nil
}

// Figure returns the figure last shown for kind.
func (t *TerminalTarget) Figure(kind chart.Kind) (chart.Figure, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fig, ok := t.figures[kind]
	return fig, ok
}

// View renders one chart: the title, then one sparkline per trace with its
// latest value. Empty figures render a muted placeholder.
func (t *TerminalTarget) View(kind chart.Kind, width int) string {
	fig, ok := t.Figure(kind)
	if !ok {
		return ""
	}

	var b strings.Builder
	title := fig.Layout.Title
	if title == "" {
		title = string(kind)
	}
	b.WriteString(style.Title.Render(title))
	b.WriteString("\n")

	if fig.Empty() {
		b.WriteString(style.Muted.Render("  no data for this period"))
		return b.String()
	}

	nameWidth := 0
	for _, tr := range fig.Traces {
		if w := lipgloss.Width(tr.Name); w > nameWidth {
			nameWidth = w
		}
	}
	sparkWidth := width - nameWidth - 18
	if sparkWidth < 8 {
		sparkWidth = 8
	}

	for i, tr := range fig.Traces {
		if len(tr.Y) == 0 {
			continue
		}
		last := tr.Y[len(tr.Y)-1]
		line := fmt.Sprintf("  %-*s %s %s %s",
			nameWidth, tr.Name,
			lipgloss.NewStyle().Foreground(style.TraceColor(i)).Render(Sparkline(tr.Y, sparkWidth)),
			Trend(tr.Y),
			style.Value.Render(fmt.Sprintf("%.2f%s", last, fig.Layout.YSuffix)))
		b.WriteString(line)
		if i < len(fig.Traces)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
