package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vicanso/go-charts/v2"
	"go.uber.org/zap"
)

const (
	defaultPNGWidth  = 900
	defaultPNGHeight = 420
)

// PNGTarget renders figures to <dir>/<kind>.png with go-charts.
type PNGTarget struct {
	dir    string
	width  int
	height int
	logger *zap.Logger
}

// NewPNGTarget creates a target writing into dir.
func NewPNGTarget(dir string, logger *zap.Logger) *PNGTarget {
	return &PNGTarget{
		dir:    dir,
		width:  defaultPNGWidth,
		height: defaultPNGHeight,
		logger: logger.Named("png_chart"),
	}
}

// Path returns the file a kind is rendered to.
func (p *PNGTarget) Path(kind Kind) string {
	name := strings.NewReplacer(":", "_", "/", "_").Replace(string(kind))
	return filepath.Join(p.dir, name+".png")
}

// React renders the figure, replacing the previous image. An empty figure
// removes the image so no stale chart survives.
func (p *PNGTarget) React(kind Kind, fig Figure) error {
	path := p.Path(kind)

	if fig.Empty() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove stale chart: %w", err)
		}
		return nil
	}

	img, err := p.render(fig)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	p.logger.Debug("Chart rendered", zap.String("kind", string(kind)), zap.String("file", path))
	return nil
}

// render draws every trace against the x axis of the longest trace. All
// reporting periods end on the same date, so shorter traces are right-aligned
// and their missing leading points repeat the first value.
func (p *PNGTarget) render(fig Figure) ([]byte, error) {
	longest := 0
	for i, t := range fig.Traces {
		if len(t.Y) > len(fig.Traces[longest].Y) {
			longest = i
		}
	}
	axis := fig.Traces[longest]
	n := len(axis.Y)

	labels := make([]string, n)
	for i := range labels {
		if i < len(axis.X) {
			labels[i] = axis.X[i].Format("Jan 02 '06")
		}
	}

	values := make([][]float64, 0, len(fig.Traces))
	names := make([]string, 0, len(fig.Traces))
	yMin, yMax := axis.Y[0], axis.Y[0]
	for _, t := range fig.Traces {
		if len(t.Y) == 0 {
			continue
		}
		row := make([]float64, n)
		offset := n - len(t.Y)
		for i := range row {
			v := t.Y[0]
			if i >= offset {
				v = t.Y[i-offset]
			}
			row[i] = v
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
		values = append(values, row)
		names = append(names, t.Name)
	}

	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 1
	}
	yMin -= pad
	yMax += pad

	split := 8
	if n < split {
		split = n
	}

	title := fig.Layout.Title
	if fig.Layout.YSuffix != "" {
		title += " (" + fig.Layout.YSuffix + ")"
	}

	painter, err := charts.LineRender(values,
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.WidthOptionFunc(p.width),
		charts.HeightOptionFunc(p.height),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return painter.Bytes()
}
