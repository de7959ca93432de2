package component

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
)

// FundHeader shows the fund identity, the selected period and whether an
// analysis is running.
type FundHeader struct {
	fund     *analysis.FundInfo
	period   int
	inFlight int
	width    int
	style    FundHeaderStyle
}

// FundHeaderStyle contains all styling for the fund header
type FundHeaderStyle struct {
	container lipgloss.Style
	title     lipgloss.Style
	detail    lipgloss.Style
	period    lipgloss.Style
	busy      lipgloss.Style
	idle      lipgloss.Style
}

// NewFundHeader creates a new fund header component
func NewFundHeader() *FundHeader {
	palette := style.DefaultPalette()

	return &FundHeader{
		style: FundHeaderStyle{
			container: lipgloss.NewStyle().
				Foreground(palette.Text).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 2),

			title: lipgloss.NewStyle().
				Foreground(palette.Primary).
				Bold(true),

			detail: lipgloss.NewStyle().
				Foreground(palette.TextSecondary),

			period: lipgloss.NewStyle().
				Foreground(palette.Secondary).
				Bold(true),

			busy: lipgloss.NewStyle().
				Foreground(palette.Warning).
				Bold(true),

			idle: lipgloss.NewStyle().
				Foreground(palette.TextMuted),
		},
	}
}

// SetFund updates the fund identity; nil shows a placeholder.
func (h *FundHeader) SetFund(fund *analysis.FundInfo) {
	h.fund = fund
}

// SetPeriod updates the selected reporting period in months.
func (h *FundHeader) SetPeriod(months int) {
	h.period = months
}

// SetInFlight updates the number of running analyses.
func (h *FundHeader) SetInFlight(n int) {
	h.inFlight = n
}

// SetWidth sets the component width for responsive layout
func (h *FundHeader) SetWidth(width int) {
	h.width = width
	if width > 4 {
		h.style.container = h.style.container.Width(width - 4)
	}
}

// View renders the fund header
func (h *FundHeader) View() string {
	name := "Fund details unavailable"
	details := ""
	if h.fund != nil {
		name = h.fund.SchemeName
		details = fmt.Sprintf("%s | ISIN %s", h.fund.AMCName, h.fund.ISIN)
	}

	parts := []string{h.style.title.Render(name)}
	if details != "" {
		parts = append(parts, " | ", h.style.detail.Render(details))
	}
	if h.period > 0 {
		parts = append(parts, " | ", h.style.period.Render("Period "+analysis.PeriodName(h.period)))
	}
	parts = append(parts, " | ", h.renderActivity())

	return h.style.container.Render(lipgloss.JoinHorizontal(lipgloss.Left, parts...))
}

func (h *FundHeader) renderActivity() string {
	switch {
	case h.inFlight > 1:
		return h.style.busy.Render(fmt.Sprintf("Analyzing (%d)", h.inFlight))
	case h.inFlight == 1:
		return h.style.busy.Render("Analyzing")
	default:
		return h.style.idle.Render("Idle")
	}
}

// GetHeight returns the component height for layout calculations
func (h *FundHeader) GetHeight() int {
	return 3 // Border + content
}
