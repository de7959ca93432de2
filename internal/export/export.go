package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
	"github.com/rovshanmuradov/fund-analyzer/internal/view"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

const maxConcurrentRenders = 4

// ErrNoResult is returned when there is no analysis to export yet.
var ErrNoResult = errors.New("no analysis result to export")

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format    ExportFormat
	OutputDir string
	// Charts also renders every non-empty chart to PNG next to the report.
	Charts bool
}

// Report lists the files one export produced.
type Report struct {
	Path       string
	ChartFiles []string
}

// ReportExporter writes the current analysis to disk. Exports are one-way
// reports; nothing reads them back.
type ReportExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewReportExporter creates a new report exporter
func NewReportExporter(logger *zap.Logger) *ReportExporter {
	return &ReportExporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// Export writes the report and, when requested, the chart images concurrently.
func (re *ReportExporter) Export(ctx context.Context, state *view.State, params analysis.AnalysisParameters, options ExportOptions) (Report, error) {
	if state == nil || !state.HasResult() {
		return Report{}, ErrNoResult
	}
	if options.Format != FormatCSV && options.Format != FormatJSON {
		return Report{}, fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return Report{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := re.baseName(state)
	report := Report{Path: filepath.Join(options.OutputDir, base+"."+string(options.Format))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRenders)

	g.Go(func() error {
		if options.Format == FormatCSV {
			return re.exportToCSV(state, report.Path)
		}
		return re.exportToJSON(state, params, report.Path)
	})

	var kinds []chart.Kind
	if options.Charts && state.Charts != nil {
		target := chart.NewPNGTarget(filepath.Join(options.OutputDir, base+"_charts"), re.logger)
		for _, kind := range state.Charts.Kinds() {
			// metric gauges are single values and only make sense in the terminal
			if _, ok := kind.IsMetric(); ok {
				continue
			}
			fig, _ := state.Charts.Figure(kind)
			if fig.Empty() {
				continue
			}
			kind := kind
			kinds = append(kinds, kind)
			report.ChartFiles = append(report.ChartFiles, target.Path(kind))
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return target.React(kind, fig)
			})
		}
	}

	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("export failed: %w", err)
	}

	re.logger.Info("Analysis exported",
		zap.String("file", report.Path),
		zap.String("format", string(options.Format)),
		zap.Int("charts", len(kinds)))

	return report, nil
}

func (re *ReportExporter) baseName(state *view.State) string {
	name := "analysis"
	if state.Fund != nil && state.Fund.ISIN != "" {
		name += "_" + state.Fund.ISIN
	}
	return fmt.Sprintf("%s_%s", name, re.now().Format("20060102_150405"))
}

// CSVHeaders is the header row of CSV exports.
func CSVHeaders() []string {
	return []string{"section", "name", "date", "value", "display"}
}

// csvRows flattens the state into section/name/date/value rows.
func csvRows(state *view.State) [][]string {
	var rows [][]string

	for _, name := range state.MetricNames() {
		value := ""
		if v := state.Metrics[name]; v != nil {
			value = strconv.FormatFloat(*v, 'f', -1, 64)
		}
		rows = append(rows, []string{"metric", name, "", value, state.MetricText[name]})
	}

	if rec := state.Recommendation; rec != nil {
		rows = append(rows, []string{"recommendation", "label", "", "", rec.Label})
		rows = append(rows, []string{"recommendation", "score", "", strconv.FormatFloat(rec.Score, 'f', -1, 64), rec.ScoreText})
		for _, r := range rec.Reasons {
			rows = append(rows, []string{"recommendation", "reason", "", "", r})
		}
		for _, a := range rec.ActionItems {
			rows = append(rows, []string{"recommendation", "action_item", "", "", a})
		}
	}

	if cmp := state.Comparative; cmp != nil {
		for _, row := range []*view.ComparisonRow{cmp.Category, cmp.Benchmark} {
			if row == nil {
				continue
			}
			rows = append(rows,
				[]string{"comparative", row.Name + " fund_return", "", "", row.FundReturn},
				[]string{"comparative", row.Name + " peer_return", "", "", row.PeerReturn},
				[]string{"comparative", row.Name + " outperformance", "", "", row.Outperformance},
			)
		}
	}

	for _, key := range analysis.SortedPeriodKeys(state.HistoricalData) {
		series := state.HistoricalData[key]
		for i := 0; i < series.Len(); i++ {
			rows = append(rows, []string{
				"historical",
				key,
				series.Dates[i].Format(analysis.DateLayout),
				strconv.FormatFloat(series.Values[i], 'f', -1, 64),
				"",
			})
		}
	}

	return rows
}

// exportToCSV exports the analysis to CSV format
func (re *ReportExporter) exportToCSV(state *view.State, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := writer.WriteAll(csvRows(state)); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// JSONReport is the document written by JSON exports.
type JSONReport struct {
	ExportTime     time.Time                  `json:"export_time"`
	Fund           *analysis.FundInfo         `json:"fund,omitempty"`
	Parameters     analysis.AnalysisRequest   `json:"parameters"`
	PeriodMonths   int                        `json:"period_months"`
	Metrics        map[string]*float64        `json:"metrics"`
	MetricText     map[string]string          `json:"metric_text"`
	Recommendation *view.RecommendationPanel  `json:"recommendation,omitempty"`
	Comparative    *view.ComparativePanel     `json:"comparative,omitempty"`
	Trends         *view.TrendPanel           `json:"trends,omitempty"`
	HistoricalData map[string]analysis.Series `json:"historical_data"`
	Summary        map[string]string          `json:"summary"`
}

// exportToJSON exports the analysis to JSON format
func (re *ReportExporter) exportToJSON(state *view.State, params analysis.AnalysisParameters, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	report := JSONReport{
		ExportTime:     re.now(),
		Fund:           state.Fund,
		Parameters:     params.Request(),
		PeriodMonths:   state.PeriodMonths,
		Metrics:        state.Metrics,
		MetricText:     state.MetricText,
		Recommendation: state.Recommendation,
		Comparative:    state.Comparative,
		Trends:         state.Trends,
		HistoricalData: state.HistoricalData,
		Summary:        summarize(state),
	}

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// summarize renders the headline numbers as labelled text.
func summarize(state *view.State) map[string]string {
	summary := make(map[string]string, len(state.MetricText)+2)
	for name, text := range state.MetricText {
		summary[view.MetricLabel(name)] = text
	}
	if rec := state.Recommendation; rec != nil {
		summary["Recommendation"] = strings.TrimSpace(rec.Label + " " + rec.ScoreText)
	}
	summary["Period"] = analysis.PeriodName(state.PeriodMonths)
	return summary
}
