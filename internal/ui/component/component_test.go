package component

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
	"github.com/rovshanmuradov/fund-analyzer/internal/dashboard"
	"github.com/rovshanmuradov/fund-analyzer/internal/logger"
	"github.com/rovshanmuradov/fund-analyzer/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▁▁▁", Sparkline(nil, 4))
	assert.Equal(t, "▄▄  ", Sparkline([]float64{5, 5}, 4))
	assert.Equal(t, "▁▄█", Sparkline([]float64{0, 0.5, 1}, 3))
	assert.Equal(t, "", Sparkline([]float64{1}, 0))

	long := make([]float64, 100)
	for i := range long {
		long[i] = float64(i)
	}
	line := Sparkline(long, 10)
	assert.Equal(t, 10, len([]rune(line)))
	assert.True(t, strings.HasPrefix(line, "▁"))
	assert.True(t, strings.HasSuffix(line, "█"))
}

func TestTrend(t *testing.T) {
	assert.Equal(t, "↗", Trend([]float64{1, 2}))
	assert.Equal(t, "↘", Trend([]float64{2, 1}))
	assert.Equal(t, "→", Trend([]float64{1}))
}

func TestTerminalTargetReplacesFigures(t *testing.T) {
	target := NewTerminalTarget()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, target.React(chart.KindHistorical, chart.Figure{
		Traces: []chart.Trace{{Name: "1Y", X: []time.Time{day, day.AddDate(0, 0, 1)}, Y: []float64{100, 101.5}}},
		Layout: chart.Layout{Title: "NAV history"},
	}))
	out := target.View(chart.KindHistorical, 60)
	assert.Contains(t, out, "NAV history")
	assert.Contains(t, out, "1Y")
	assert.Contains(t, out, "101.50")

	require.NoError(t, target.React(chart.KindHistorical, chart.Figure{Layout: chart.Layout{Title: "NAV history"}}))
	out = target.View(chart.KindHistorical, 60)
	assert.Contains(t, out, "no data")
	assert.NotContains(t, out, "101.50")

	assert.Empty(t, target.View(chart.KindCAGR, 60))
}

func TestTerminalTargetThroughRegistry(t *testing.T) {
	target := NewTerminalTarget()
	reg := chart.NewRegistry()
	reg.SetFallback(target)

	require.NoError(t, reg.React(chart.KindRollingReturns, chart.Figure{
		Traces: []chart.Trace{{Name: "12M rolling", Y: []float64{4, 5, 6}}},
		Layout: chart.Layout{Title: "Rolling", YSuffix: "%"},
	}))
	fig, ok := target.Figure(chart.KindRollingReturns)
	require.True(t, ok)
	assert.Equal(t, "Rolling", fig.Layout.Title)
	assert.Contains(t, target.View(chart.KindRollingReturns, 40), "6.00%")
}

func TestFundHeader(t *testing.T) {
	h := NewFundHeader()
	h.SetWidth(120)
	assert.Contains(t, h.View(), "Fund details unavailable")

	h.SetFund(&analysis.FundInfo{SchemeName: "Bluechip Fund", AMCName: "Acme AMC", ISIN: "INF000K01AB1"})
	h.SetPeriod(36)
	h.SetInFlight(2)
	out := h.View()
	assert.Contains(t, out, "Bluechip Fund")
	assert.Contains(t, out, "INF000K01AB1")
	assert.Contains(t, out, "3Y")
	assert.Contains(t, out, "Analyzing (2)")
}

func TestHelpBarWraps(t *testing.T) {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "analyze")),
		key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "cashflows")),
		key.NewBinding(key.WithKeys("f12"), key.WithHelp("F12", "logs")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled()),
	}
	h := NewHelpBar().SetKeyBindings(bindings).SetWidth(200)
	out := h.View()
	assert.Contains(t, out, "analyze")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)

	narrow := NewHelpBar().SetKeyBindings(bindings).SetWidth(20).View()
	assert.Greater(t, strings.Count(strings.TrimSpace(narrow), "\n"), 0)

	assert.Empty(t, NewHelpBar().View())
}

func TestNoticeBanner(t *testing.T) {
	assert.Empty(t, NoticeBanner(nil, 80))

	out := NoticeBanner([]dashboard.Notice{
		{ID: "a", Level: dashboard.NoticeError, Text: "Analysis failed. Please try again."},
		{ID: "b", Level: dashboard.NoticeInfo, Text: "Report saved"},
	}, 80)
	assert.Contains(t, out, "Analysis failed")
	assert.Contains(t, out, "Report saved")
}

func TestResultsPanels(t *testing.T) {
	state := view.NewState(nil, 12)
	assert.Contains(t, Results(state, nil, 80), "No analysis yet")

	cagr, fund, peer, diff := 12.3, 14.0, 11.0, 3.0
	result := &analysis.AnalysisResult{
		Metrics: map[string]*float64{"cagr": &cagr, "sharpe_ratio": nil},
		Recommendation: analysis.Recommendation{
			Label:       "CONTINUE HOLDING",
			Score:       6,
			Reasons:     []string{"Consistent returns"},
			ActionItems: []string{"Review in 6 months"},
		},
		Comparative: &analysis.Comparative{
			Category: &analysis.Comparison{Name: "Large Cap", FundReturn: &fund, PeerReturn: &peer, Outperformance: &diff},
		},
	}
	view.NewSynchronizer(nil, zap.NewNop()).Apply(state, result, analysis.AnalysisParameters{RollingWindowMonths: 12, CAGRPeriodYears: 3})

	out := Results(state, NewTerminalTarget(), 100)
	assert.Contains(t, out, "CAGR")
	assert.Contains(t, out, "12.30%")
	assert.Contains(t, out, "Sharpe Ratio")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "CONTINUE HOLDING")
	assert.Contains(t, out, "6/10")
	assert.Contains(t, out, "Review in 6 months")
	assert.Contains(t, out, "Large Cap")
	assert.NotContains(t, out, "Trends")
}

func TestLogViewerFiltersByLevel(t *testing.T) {
	buffer, err := logger.NewLogBuffer(50, filepath.Join(t.TempDir(), "spill.log"), 0, zap.NewNop())
	require.NoError(t, err)
	defer buffer.Close()

	log, err := logger.CreateTUILoggerWithBuffer(true, buffer)
	require.NoError(t, err)
	log.Named("dashboard").Debug("Analysis dispatched", zap.Uint64("seq", 1))
	log.Named("dashboard").Error("Analysis request failed", zap.Int("status", 500))

	lv := NewLogViewer(buffer)
	content := lv.Content()
	assert.Contains(t, content, "Analysis dispatched")
	assert.Contains(t, content, "status=500")

	for lv.MinLevel() != zapcore.ErrorLevel {
		lv.CycleLevel()
	}
	content = lv.Content()
	assert.NotContains(t, content, "Analysis dispatched")
	assert.Contains(t, content, "Analysis request failed")

	lv.CycleLevel()
	assert.Equal(t, zapcore.DebugLevel, lv.MinLevel())
	assert.Contains(t, NewLogViewer(nil).Content(), "No log buffer")
}

func TestScoreGauge(t *testing.T) {
	g := NewScoreGauge(20).SetScore(7.5)
	assert.Equal(t, 15, g.Filled())
	assert.Equal(t, "Strong", g.Status())
	assert.Contains(t, g.View(), "Strong")

	assert.Equal(t, 0, g.SetScore(-3).Filled())
	assert.Equal(t, "Weak", g.Status())
	assert.Equal(t, 20, g.SetScore(42).Filled())
	assert.Equal(t, "Moderate", g.SetScore(5).Status())
	assert.Equal(t, 5, g.SetWidth(10).Filled())
	assert.Empty(t, NewScoreGauge(0).SetScore(5).View())
}

func TestTable(t *testing.T) {
	table := NewTable(
		TableColumn{Header: "Name", Width: 6, Align: lipgloss.Left},
		TableColumn{Header: "Value", Width: 5, Align: lipgloss.Right},
	)
	assert.Equal(t, 0, table.Len())

	table.AddRow("Benchmark", "1.5%").AddRow("Cat")
	assert.Equal(t, 2, table.Len())

	lines := strings.Split(table.View(), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[1], "┼")
	assert.Contains(t, lines[2], "Bench…")
	assert.Contains(t, lines[2], " 1.5%")
	assert.Contains(t, lines[3], "Cat")
	for _, line := range lines[2:] {
		assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(line))
	}

	assert.Empty(t, NewTable().View())
}
