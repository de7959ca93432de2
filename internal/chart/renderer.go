package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
)

// Input is what a renderer needs to prepare a figure.
type Input struct {
	Historical          map[string]analysis.Series
	PeriodMonths        int
	RollingWindowMonths int
	CAGRPeriodYears     int
}

// Renderer prepares the figure for one chart kind. Transforms are
// presentation only: they rebase or annualise series the backend returned.
type Renderer interface {
	Kind() Kind
	DefaultLayout() Layout
	Prepare(in Input) Figure
}

// Renderers is the lookup of renderers by kind.
type Renderers struct {
	byKind map[Kind]Renderer
}

// NewRenderers creates an empty lookup.
func NewRenderers() *Renderers {
	return &Renderers{byKind: make(map[Kind]Renderer)}
}

// DefaultRenderers returns the lookup with every built-in renderer registered.
func DefaultRenderers() *Renderers {
	r := NewRenderers()
	r.Register(HistoricalRenderer{})
	r.Register(AbsoluteReturnsRenderer{})
	r.Register(RollingReturnsRenderer{})
	r.Register(CAGRRenderer{})
	return r
}

// Register adds or replaces the renderer for its kind.
func (r *Renderers) Register(renderer Renderer) {
	r.byKind[renderer.Kind()] = renderer
}

// Lookup returns the renderer for kind. Unknown kinds get a renderer that
// produces no traces and a titled default layout.
func (r *Renderers) Lookup(kind Kind) Renderer {
	if renderer, ok := r.byKind[kind]; ok {
		return renderer
	}
	return emptyRenderer{kind: kind}
}

type emptyRenderer struct {
	kind Kind
}

func (e emptyRenderer) Kind() Kind { return e.kind }

func (e emptyRenderer) DefaultLayout() Layout {
	return Layout{Title: string(e.kind), XTitle: "Date"}
}

func (e emptyRenderer) Prepare(Input) Figure {
	return Figure{Traces: []Trace{}, Layout: e.DefaultLayout()}
}

// HistoricalRenderer draws NAV for every reporting period present.
type HistoricalRenderer struct{}

func (HistoricalRenderer) Kind() Kind { return KindHistorical }

func (HistoricalRenderer) DefaultLayout() Layout {
	return Layout{Title: "NAV History", XTitle: "Date", YTitle: "NAV"}
}

func (h HistoricalRenderer) Prepare(in Input) Figure {
	fig := Figure{Traces: make([]Trace, 0, len(in.Historical)), Layout: h.DefaultLayout()}
	for _, key := range analysis.SortedPeriodKeys(in.Historical) {
		name := key
		if months, ok := analysis.PeriodMonths(key); ok {
			name = analysis.PeriodName(months)
		}
		fig.Traces = append(fig.Traces, seriesTrace(name, in.Historical[key]))
	}
	return fig
}

// AbsoluteReturnsRenderer rebases the selected period to percent change from its first point.
type AbsoluteReturnsRenderer struct{}

func (AbsoluteReturnsRenderer) Kind() Kind { return KindAbsoluteReturns }

func (AbsoluteReturnsRenderer) DefaultLayout() Layout {
	return Layout{Title: "Absolute Returns", XTitle: "Date", YTitle: "Return", YSuffix: "%"}
}

func (a AbsoluteReturnsRenderer) Prepare(in Input) Figure {
	layout := a.DefaultLayout()
	series, ok := analysis.SeriesForPeriod(in.Historical, in.PeriodMonths)
	if !ok || series.Len() == 0 {
		return Figure{Traces: []Trace{}, Layout: layout}
	}
	layout.Title = fmt.Sprintf("Absolute Returns (%s)", analysis.PeriodName(in.PeriodMonths))

	base := series.Values[0]
	trace := Trace{Name: analysis.PeriodName(in.PeriodMonths)}
	if base != 0 {
		for i := 0; i < series.Len(); i++ {
			trace.X = append(trace.X, series.Dates[i].Time)
			trace.Y = append(trace.Y, (series.Values[i]/base-1)*100)
		}
	}
	return Figure{Traces: []Trace{trace}, Layout: layout}
}

// RollingReturnsRenderer shows the trailing-window return at each point of the
// selected period, looking back into the longest series available.
type RollingReturnsRenderer struct{}

func (RollingReturnsRenderer) Kind() Kind { return KindRollingReturns }

func (RollingReturnsRenderer) DefaultLayout() Layout {
	return Layout{Title: "Rolling Returns", XTitle: "Date", YTitle: "Return", YSuffix: "%"}
}

func (r RollingReturnsRenderer) Prepare(in Input) Figure {
	layout := r.DefaultLayout()
	if in.RollingWindowMonths <= 0 {
		return Figure{Traces: []Trace{}, Layout: layout}
	}
	layout.Title = fmt.Sprintf("Rolling Returns (%d-month window)", in.RollingWindowMonths)

	full := longestSeries(in.Historical)
	selected, ok := analysis.SeriesForPeriod(in.Historical, in.PeriodMonths)
	if !ok || full.Len() == 0 || selected.Len() == 0 {
		return Figure{Traces: []Trace{}, Layout: layout}
	}
	from := selected.Dates[0].Time

	trace := Trace{Name: fmt.Sprintf("%dM rolling", in.RollingWindowMonths)}
	j := -1
	for i := 0; i < full.Len(); i++ {
		at := full.Dates[i].Time
		cutoff := at.AddDate(0, -in.RollingWindowMonths, 0)
		for j+1 < i && !full.Dates[j+1].Time.After(cutoff) {
			j++
		}
		if j < 0 || full.Dates[j].Time.After(cutoff) || at.Before(from) {
			continue
		}
		if full.Values[j] == 0 {
			continue
		}
		trace.X = append(trace.X, at)
		trace.Y = append(trace.Y, (full.Values[i]/full.Values[j]-1)*100)
	}
	return Figure{Traces: []Trace{trace}, Layout: layout}
}

// minCAGRSpan keeps annualisation from exploding on the first few days.
const minCAGRSpan = 30 * 24 * time.Hour

// CAGRRenderer annualises the growth of the selected period from its first point.
type CAGRRenderer struct{}

func (CAGRRenderer) Kind() Kind { return KindCAGR }

func (CAGRRenderer) DefaultLayout() Layout {
	return Layout{Title: "CAGR", XTitle: "Date", YTitle: "Annualised growth", YSuffix: "%"}
}

func (c CAGRRenderer) Prepare(in Input) Figure {
	layout := c.DefaultLayout()
	if in.CAGRPeriodYears > 0 {
		layout.Title = fmt.Sprintf("CAGR (%dY target)", in.CAGRPeriodYears)
	}
	series, ok := analysis.SeriesForPeriod(in.Historical, in.PeriodMonths)
	if !ok || series.Len() == 0 || series.Values[0] <= 0 {
		return Figure{Traces: []Trace{}, Layout: layout}
	}

	start := series.Dates[0].Time
	base := series.Values[0]
	trace := Trace{Name: analysis.PeriodName(in.PeriodMonths)}
	for i := 1; i < series.Len(); i++ {
		span := series.Dates[i].Time.Sub(start)
		if span < minCAGRSpan || series.Values[i] <= 0 {
			continue
		}
		years := span.Hours() / 24 / 365
		trace.X = append(trace.X, series.Dates[i].Time)
		trace.Y = append(trace.Y, (math.Pow(series.Values[i]/base, 1/years)-1)*100)
	}
	return Figure{Traces: []Trace{trace}, Layout: layout}
}

func seriesTrace(name string, s analysis.Series) Trace {
	t := Trace{Name: name, X: make([]time.Time, 0, s.Len()), Y: make([]float64, 0, s.Len())}
	for i := 0; i < s.Len(); i++ {
		t.X = append(t.X, s.Dates[i].Time)
		t.Y = append(t.Y, s.Values[i])
	}
	return t
}

func longestSeries(data map[string]analysis.Series) analysis.Series {
	var best analysis.Series
	for _, key := range analysis.SortedPeriodKeys(data) {
		if s := data[key]; s.Len() > best.Len() {
			best = s
		}
	}
	return best
}
