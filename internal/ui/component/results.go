package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
	"github.com/rovshanmuradov/fund-analyzer/internal/view"
)

const scoreGaugeWidth = 20

// Results renders every visible panel of the state: metrics, recommendation,
// comparison, trends and the charts last pushed to charts.
func Results(state *view.State, charts *TerminalTarget, width int) string {
	if !state.PanelsVisible {
		return style.Muted.Render("No analysis yet. Press enter to analyze.")
	}

	sections := []string{metricsSection(state)}
	if rec := state.Recommendation; rec != nil {
		sections = append(sections, recommendationSection(rec))
	}
	if cmp := state.Comparative; cmp != nil {
		sections = append(sections, comparativeSection(cmp))
	}
	if tr := state.Trends; tr != nil && len(tr.Lines) > 0 {
		sections = append(sections, trendSection(tr, width))
	}
	if charts != nil {
		for _, kind := range append([]chart.Kind{chart.KindHistorical}, chart.PeriodKinds...) {
			if v := charts.View(kind, width); v != "" {
				sections = append(sections, "\n"+v)
			}
		}
	}
	return strings.Join(sections, "\n")
}

func metricsSection(state *view.State) string {
	var b strings.Builder
	b.WriteString(style.SectionTitle.Render("Metrics"))
	for _, name := range state.MetricNames() {
		b.WriteString("\n")
		b.WriteString(style.Label.Render(view.MetricLabel(name)))
		b.WriteString(style.Value.Render(state.MetricText[name]))
	}
	return b.String()
}

func recommendationSection(rec *view.RecommendationPanel) string {
	var b strings.Builder
	b.WriteString(style.SectionTitle.Render("Recommendation"))
	b.WriteString("\n")
	b.WriteString(style.Value.Render(rec.Label))
	if rec.ScoreText != "" {
		b.WriteString("  ")
		b.WriteString(style.Muted.Render("score " + rec.ScoreText))
		b.WriteString("  ")
		b.WriteString(NewScoreGauge(scoreGaugeWidth).SetScore(rec.Score).View())
	}
	writeList(&b, "Reasons", rec.Reasons)
	writeList(&b, "Action items", rec.ActionItems)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(style.Muted.Render(title + ":"))
	for _, item := range items {
		b.WriteString("\n  • ")
		b.WriteString(item)
	}
}

// comparisonColumns lays out the comparison table.
var comparisonColumns = []TableColumn{
	{Header: "Compared with", Width: 22, Align: lipgloss.Left},
	{Header: "Fund", Width: 10, Align: lipgloss.Right},
	{Header: "Peers", Width: 10, Align: lipgloss.Right},
	{Header: "Difference", Width: 12, Align: lipgloss.Right},
}

func comparativeSection(cmp *view.ComparativePanel) string {
	table := NewTable(comparisonColumns...)
	for _, row := range []*view.ComparisonRow{cmp.Category, cmp.Benchmark} {
		if row == nil {
			continue
		}
		out := row.Outperformance
		if row.Outperforming {
			out = lipgloss.NewStyle().Foreground(style.Green).Render(out)
		} else if out != view.NotAvailable {
			out = lipgloss.NewStyle().Foreground(style.Red).Render(out)
		}
		table.AddRow(row.Name, row.FundReturn, row.PeerReturn, out)
	}
	if table.Len() == 0 {
		return style.SectionTitle.Render("Comparison") + "\n" + style.Muted.Render(view.NotAvailable)
	}
	return style.SectionTitle.Render("Comparison") + "\n" + table.View()
}

func trendSection(tr *view.TrendPanel, width int) string {
	sparkWidth := width - 60
	if sparkWidth < 10 {
		sparkWidth = 10
	}

	var b strings.Builder
	b.WriteString(style.SectionTitle.Render("Trends"))
	for _, line := range tr.Lines {
		b.WriteString("\n")
		b.WriteString(style.Label.Render(line.Name))
		b.WriteString(fmt.Sprintf("%s → %s  %s %s",
			line.From, line.To,
			Sparkline(line.Values, sparkWidth),
			style.Signed(line.Last-line.First, line.Change)))
	}
	return b.String()
}
