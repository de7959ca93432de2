// internal/view/state.go
package view

import (
	"sort"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
)

// State is the single application view state. It is owned by the dashboard
// controller and only mutated on the UI goroutine.
type State struct {
	Result         *analysis.AnalysisResult
	Metrics        map[string]*float64
	HistoricalData map[string]analysis.Series
	MetricText     map[string]string

	Recommendation *RecommendationPanel
	Comparative    *ComparativePanel
	Trends         *TrendPanel
	PanelsVisible  bool

	PeriodMonths int
	Loading      bool
	Fund         *analysis.FundInfo
	Charts       *chart.Registry

	// AppliedSeq is the sequence number of the response currently shown.
	AppliedSeq uint64
}

// NewState returns the startup state: no result, panels hidden.
func NewState(charts *chart.Registry, periodMonths int) *State {
	if charts == nil {
		charts = chart.NewRegistry()
	}
	return &State{
		PeriodMonths: periodMonths,
		Charts:       charts,
	}
}

// MetricNames returns the metric names of the current result, sorted.
func (s *State) MetricNames() []string {
	names := make([]string, 0, len(s.Metrics))
	for name := range s.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasResult reports whether any analysis has been applied yet.
func (s *State) HasResult() bool {
	return s.Result != nil
}

// RecommendationPanel is the rendered recommendation block.
type RecommendationPanel struct {
	Label       string
	Score       float64
	ScoreText   string
	Reasons     []string
	ActionItems []string
}

// ComparativePanel is the rendered comparison block. Rows are nil when the
// backend sent no data for them.
type ComparativePanel struct {
	Category  *ComparisonRow
	Benchmark *ComparisonRow
}

// ComparisonRow is one formatted comparison line.
type ComparisonRow struct {
	Name           string
	FundReturn     string
	PeerReturn     string
	Outperformance string
	Outperforming  bool
}

// TrendPanel is the rendered historical trend block.
type TrendPanel struct {
	Lines []TrendLine
}

// TrendLine summarises one trend series.
type TrendLine struct {
	Name   string
	From   string
	To     string
	First  float64
	Last   float64
	Change string
	Values []float64
}

// Snapshot returns a shallow copy safe to read off the UI goroutine. Apply
// replaces maps and panels rather than mutating them, so the copy stays
// consistent while the original moves on.
func (s *State) Snapshot() *State {
	cp := *s
	return &cp
}
