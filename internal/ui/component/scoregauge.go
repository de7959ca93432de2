package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
)

// MaxScore is the top of the recommendation scale.
const MaxScore = 10.0

// ScoreGauge draws a recommendation score as a horizontal bar.
type ScoreGauge struct {
	value int
	score float64
	width int

	// Thresholds for color coding
	strongThreshold float64
	weakThreshold   float64
}

// NewScoreGauge creates a gauge width cells wide.
func NewScoreGauge(width int) *ScoreGauge {
	return &ScoreGauge{
		width:           width,
		strongThreshold: 7,
		weakThreshold:   4,
	}
}

// SetScore sets the score; values outside 0..10 are clamped.
func (g *ScoreGauge) SetScore(score float64) *ScoreGauge {
	switch {
	case score < 0:
		score = 0
	case score > MaxScore:
		score = MaxScore
	}
	g.score = score
	g.value = int(score/MaxScore*float64(g.width) + 0.5)
	return g
}

// SetWidth sets the gauge width
func (g *ScoreGauge) SetWidth(width int) *ScoreGauge {
	g.width = width
	return g.SetScore(g.score)
}

// Filled returns the number of filled cells.
func (g *ScoreGauge) Filled() int { return g.value }

// Status names the score band.
func (g *ScoreGauge) Status() string {
	switch {
	case g.score >= g.strongThreshold:
		return "Strong"
	case g.score <= g.weakThreshold:
		return "Weak"
	default:
		return "Moderate"
	}
}

// Color returns the band color.
func (g *ScoreGauge) Color() lipgloss.Color {
	palette := style.DefaultPalette()

	switch {
	case g.score >= g.strongThreshold:
		return palette.Success
	case g.score <= g.weakThreshold:
		return palette.Error
	default:
		return palette.Warning
	}
}

// View renders the filled bar followed by the band name.
func (g *ScoreGauge) View() string {
	if g.width <= 0 {
		return ""
	}
	color := g.Color()
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", g.value)) +
		style.Muted.Render(strings.Repeat("░", g.width-g.value))
	return bar + " " + lipgloss.NewStyle().Foreground(color).Bold(true).Render(g.Status())
}
