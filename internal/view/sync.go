// internal/view/sync.go
package view

import (
	"fmt"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
	"go.uber.org/zap"
)

// Synchronizer fans an analysis result out to the view state and its charts.
// Every panel and chart is rebuilt from scratch, so applying the same result
// twice leaves the state exactly as applying it once.
type Synchronizer struct {
	renderers *chart.Renderers
	logger    *zap.Logger
}

// NewSynchronizer creates a synchronizer. A nil renderer set means the defaults.
func NewSynchronizer(renderers *chart.Renderers, logger *zap.Logger) *Synchronizer {
	if renderers == nil {
		renderers = chart.DefaultRenderers()
	}
	return &Synchronizer{
		renderers: renderers,
		logger:    logger.Named("view_sync"),
	}
}

// Apply replaces everything the state shows with result. It never fails;
// chart target errors are logged and the remaining charts still update.
func (s *Synchronizer) Apply(state *State, result *analysis.AnalysisResult, params analysis.AnalysisParameters) {
	if result == nil {
		return
	}

	state.Result = result
	state.Metrics = result.Metrics
	state.HistoricalData = result.HistoricalData

	state.MetricText = make(map[string]string, len(result.Metrics))
	for name, value := range result.Metrics {
		state.MetricText[name] = FormatMetricValue(name, value)
		s.react(state, chart.MetricKind(name), chart.MetricFigure(MetricLabel(name), value, MetricSuffix(name)))
	}

	in := chart.Input{
		Historical:          result.HistoricalData,
		PeriodMonths:        state.PeriodMonths,
		RollingWindowMonths: params.RollingWindowMonths,
		CAGRPeriodYears:     params.CAGRPeriodYears,
	}
	s.react(state, chart.KindHistorical, s.renderers.Lookup(chart.KindHistorical).Prepare(in))
	for _, kind := range chart.PeriodKinds {
		s.react(state, kind, s.renderers.Lookup(kind).Prepare(in))
	}

	state.Recommendation = recommendationPanel(result.Recommendation)
	state.Comparative = comparativePanel(result.Comparative)
	state.Trends = trendPanel(result.Trends)
	state.PanelsVisible = true
}

// Rerender rebuilds the period charts of the current result, e.g. after the
// reporting period changed without a new analysis.
func (s *Synchronizer) Rerender(state *State, params analysis.AnalysisParameters) {
	if state.Result == nil {
		return
	}
	s.Apply(state, state.Result, params)
}

func (s *Synchronizer) react(state *State, kind chart.Kind, fig chart.Figure) {
	if state.Charts == nil {
		return
	}
	if err := state.Charts.React(kind, fig); err != nil {
		s.logger.Warn("Chart update failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func recommendationPanel(r analysis.Recommendation) *RecommendationPanel {
	return &RecommendationPanel{
		Label:       r.Label,
		Score:       r.Score,
		ScoreText:   formatScore(r.Score),
		Reasons:     append([]string{}, r.Reasons...),
		ActionItems: append([]string{}, r.ActionItems...),
	}
}

func comparativePanel(c *analysis.Comparative) *ComparativePanel {
	if c == nil || (c.Category == nil && c.Benchmark == nil) {
		return nil
	}
	return &ComparativePanel{
		Category:  comparisonRow(c.Category, "Category"),
		Benchmark: comparisonRow(c.Benchmark, "Benchmark"),
	}
}

func comparisonRow(c *analysis.Comparison, fallbackName string) *ComparisonRow {
	if c == nil {
		return nil
	}
	name := c.Name
	if name == "" {
		name = fallbackName
	}
	return &ComparisonRow{
		Name:           name,
		FundReturn:     formatPercent(c.FundReturn),
		PeerReturn:     formatPercent(c.PeerReturn),
		Outperformance: formatPercent(c.Outperformance),
		Outperforming:  c.Outperformance != nil && *c.Outperformance > 0,
	}
}

func trendPanel(t *analysis.Trends) *TrendPanel {
	if t == nil {
		return nil
	}
	panel := &TrendPanel{}
	for _, item := range []struct {
		name   string
		series *analysis.Series
	}{
		{"NAV", t.NAV},
		{"Returns", t.Returns},
		{"Risk", t.Risk},
	} {
		if item.series == nil || item.series.Len() == 0 {
			continue
		}
		panel.Lines = append(panel.Lines, trendLine(item.name, *item.series))
	}
	if len(panel.Lines) == 0 {
		return nil
	}
	return panel
}

func trendLine(name string, s analysis.Series) TrendLine {
	n := s.Len()
	line := TrendLine{
		Name:   name,
		From:   s.Dates[0].Format(analysis.DateLayout),
		To:     s.Dates[n-1].Format(analysis.DateLayout),
		First:  s.Values[0],
		Last:   s.Values[n-1],
		Values: append([]float64{}, s.Values[:n]...),
		Change: NotAvailable,
	}
	if line.First != 0 {
		line.Change = fmt.Sprintf("%+.2f%%", (line.Last/line.First-1)*100)
	}
	return line
}
