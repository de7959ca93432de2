// internal/chart/figure.go
package chart

import (
	"strings"
	"time"
)

// Kind identifies a chart on the dashboard.
type Kind string

const (
	KindHistorical      Kind = "historical"
	KindAbsoluteReturns Kind = "absolute_returns"
	KindRollingReturns  Kind = "rolling_returns"
	KindCAGR            Kind = "cagr"
	KindXIRR            Kind = "xirr"
	KindSharpeRatio     Kind = "sharpe_ratio"

	metricPrefix = "metric:"
)

// PeriodKinds are the period-specific charts rebuilt on every analysis.
var PeriodKinds = []Kind{
	KindAbsoluteReturns,
	KindRollingReturns,
	KindCAGR,
	KindXIRR,
	KindSharpeRatio,
}

// MetricKind is the mini-chart kind for one metric.
func MetricKind(metric string) Kind {
	return Kind(metricPrefix + metric)
}

// IsMetric reports whether the kind is a metric mini-chart, returning the metric name.
func (k Kind) IsMetric() (string, bool) {
	if strings.HasPrefix(string(k), metricPrefix) {
		return strings.TrimPrefix(string(k), metricPrefix), true
	}
	return "", false
}

// Trace is one named line.
type Trace struct {
	Name string
	X    []time.Time
	Y    []float64
}

// Layout describes how a figure is titled and labelled.
type Layout struct {
	Title   string
	XTitle  string
	YTitle  string
	YSuffix string
}

// Figure is the complete data and layout of one chart. Targets always
// receive a whole figure and replace whatever they showed before.
type Figure struct {
	Traces []Trace
	Layout Layout
}

// Empty reports whether the figure has no points at all.
func (f Figure) Empty() bool {
	for _, t := range f.Traces {
		if len(t.Y) > 0 {
			return false
		}
	}
	return true
}

// Clone deep-copies the figure so targets never share slices with the caller.
func (f Figure) Clone() Figure {
	out := Figure{Layout: f.Layout, Traces: make([]Trace, len(f.Traces))}
	for i, t := range f.Traces {
		out.Traces[i] = Trace{
			Name: t.Name,
			X:    append([]time.Time(nil), t.X...),
			Y:    append([]float64(nil), t.Y...),
		}
	}
	return out
}

// MetricFigure builds the single-value mini-chart for a metric. A nil value
// yields an empty figure.
func MetricFigure(title string, value *float64, suffix string) Figure {
	fig := Figure{
		Traces: []Trace{},
		Layout: Layout{Title: title, YSuffix: suffix},
	}
	if value != nil {
		fig.Traces = append(fig.Traces, Trace{Name: title, Y: []float64{*value}})
	}
	return fig
}
