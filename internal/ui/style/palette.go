package style

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#2AFFAA") // Gains / success
	Red     = lipgloss.Color("#FF5555") // Losses / errors
	Blue    = lipgloss.Color("#3B82F6") // Info
	Purple  = lipgloss.Color("#8B5CF6") // Secondary accent

	Base03 = lipgloss.Color("#1B1D23") // Background
	Base02 = lipgloss.Color("#262831") // Darker background
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
	Base1  = lipgloss.Color("#B4BCC8") // Secondary text
)

// Trace colors, in the order chart traces are drawn.
var TraceColors = []lipgloss.Color{Cyan, Magenta, Yellow, Purple, Blue, Green}

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Background    lipgloss.Color
	BackgroundAlt lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color

	// Gain and Loss color signed numbers such as outperformance.
	Gain lipgloss.Color
	Loss lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Success:   Green,
		Error:     Red,
		Warning:   Yellow,
		Info:      Blue,

		Background:    Base03,
		BackgroundAlt: Base02,
		Text:          Base2,
		TextMuted:     Base01,
		TextSecondary: Base1,

		Gain: Green,
		Loss: Red,
	}
}

// TraceColor returns the color of the i-th trace.
func TraceColor(i int) lipgloss.Color {
	return TraceColors[i%len(TraceColors)]
}

// Shared styles.
var Title = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

var SectionTitle = lipgloss.NewStyle().Foreground(Magenta).Bold(true).MarginTop(1)

var Muted = lipgloss.NewStyle().Foreground(Base01)

var Label = lipgloss.NewStyle().Foreground(Base1).Width(22)

var Value = lipgloss.NewStyle().Foreground(Base2).Bold(true)

var Panel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Base01).
	Padding(0, 1)

// Signed colors a value green when positive and red when negative.
func Signed(v float64, text string) string {
	switch {
	case v > 0:
		return lipgloss.NewStyle().Foreground(Green).Render(text)
	case v < 0:
		return lipgloss.NewStyle().Foreground(Red).Render(text)
	default:
		return text
	}
}
