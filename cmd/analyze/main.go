package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
	"github.com/rovshanmuradov/fund-analyzer/internal/client"
	"github.com/rovshanmuradov/fund-analyzer/internal/config"
	"github.com/rovshanmuradov/fund-analyzer/internal/dashboard"
	"github.com/rovshanmuradov/fund-analyzer/internal/export"
	"github.com/rovshanmuradov/fund-analyzer/internal/logger"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/component"
	"github.com/rovshanmuradov/fund-analyzer/internal/view"
	"go.uber.org/zap"
)

const outputWidth = 100

type options struct {
	configPath string
	backendURL string
	start      string
	end        string
	period     string
	window     int
	cagr       int
	sharpe     int
	flows      flowList
	format     string
	chartDir   string
	exportDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config file (default configs/config.json when present)")
	flag.StringVar(&opts.backendURL, "backend", "", "Backend base URL (overrides backend_url)")
	flag.StringVar(&opts.start, "start", "", "Start date YYYY-MM-DD (default: period start)")
	flag.StringVar(&opts.end, "end", "", "End date YYYY-MM-DD (default: today)")
	flag.StringVar(&opts.period, "period", "", "Reporting period: 1M, 3M, 6M, 1Y, 3Y, 5Y or months")
	flag.IntVar(&opts.window, "window", 0, "Rolling window in months (default from config)")
	flag.IntVar(&opts.cagr, "cagr", 0, "CAGR period in years (default from config)")
	flag.IntVar(&opts.sharpe, "sharpe", 0, "Sharpe period in years (default from config)")
	flag.Var(&opts.flows, "flow", "Additional cashflow date:amount, repeatable; negative amounts are withdrawals")
	flag.StringVar(&opts.format, "export", "", "Write a report: csv or json")
	flag.StringVar(&opts.chartDir, "charts", "", "Render charts as PNG into this directory")
	flag.StringVar(&opts.exportDir, "out", "", "Report directory (default export_dir)")
	flag.Parse()

	if opts.backendURL != "" {
		_ = os.Setenv(config.EnvPrefix+"_BACKEND_URL", opts.backendURL)
	}
	cfg, err := config.LoadConfig(config.ResolvePath(opts.configPath))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	code := run(cfg, opts, appLogger)
	_ = appLogger.Sync()
	os.Exit(code)
}

func run(cfg *config.Config, opts options, appLogger *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	terminal := component.NewTerminalTarget()
	charts := chart.NewRegistry()
	charts.SetFallback(terminal)
	if opts.chartDir != "" {
		png := chart.NewPNGTarget(opts.chartDir, appLogger)
		for _, kind := range append([]chart.Kind{chart.KindHistorical}, chart.PeriodKinds...) {
			charts.Register(kind, chart.Targets{terminal, png})
		}
	}

	backend := client.New(client.Options{
		BaseURL:          cfg.BackendURL,
		Timeout:          cfg.RequestTimeout(),
		BootstrapRetries: cfg.BootstrapRetries,
	}, appLogger)

	ctrl := dashboard.New(backend, view.NewSynchronizer(nil, appLogger), view.NewState(charts, cfg.DefaultPeriodMonths), dashboard.Options{
		PeriodMonths:        cfg.DefaultPeriodMonths,
		RollingWindowMonths: cfg.DefaultRollingWindow,
		CAGRPeriodYears:     cfg.DefaultCAGRYears,
		SharpePeriodYears:   cfg.DefaultSharpeYears,
	}, appLogger)

	if err := applyOptions(ctrl, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ctrl.Bootstrap(ctx); err != nil {
		appLogger.Warn("Continuing without fund details")
	}

	if err := ctrl.RunAnalysis(ctx); err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range verr.Messages {
				fmt.Fprintln(os.Stderr, msg)
			}
			return 2
		}
		fmt.Fprintln(os.Stderr, dashboard.MsgAnalysisFailed)
		return 1
	}

	state := ctrl.State()
	header := component.NewFundHeader()
	header.SetWidth(outputWidth)
	header.SetFund(state.Fund)
	header.SetPeriod(state.PeriodMonths)
	fmt.Println(lipgloss.JoinVertical(lipgloss.Left,
		header.View(),
		component.Results(state, terminal, outputWidth)))

	if opts.chartDir != "" {
		appLogger.Info("Charts written", zap.String("dir", opts.chartDir))
	}

	if opts.format == "" {
		return 0
	}
	dir := opts.exportDir
	if dir == "" {
		dir = cfg.ExportDir
	}
	report, err := export.NewReportExporter(appLogger).Export(ctx, state, ctrl.Params(), export.ExportOptions{
		Format:    export.ExportFormat(opts.format),
		OutputDir: dir,
	})
	if err != nil {
		appLogger.Error("Export failed", zap.Error(err))
		return 1
	}
	fmt.Println("Report saved to " + report.Path)
	return 0
}

// applyOptions overrides the controller defaults with the command line.
func applyOptions(ctrl *dashboard.Controller, opts options) error {
	if opts.period != "" {
		months, err := parsePeriod(opts.period)
		if err != nil {
			return err
		}
		ctrl.SelectPeriod(months)
	}

	form := ctrl.Form()
	if opts.start != "" {
		form.StartDate = opts.start
	}
	if opts.end != "" {
		form.EndDate = opts.end
	}
	if opts.window != 0 {
		form.RollingWindow = strconv.Itoa(opts.window)
	}
	if opts.cagr != 0 {
		form.CAGRPeriod = strconv.Itoa(opts.cagr)
	}
	if opts.sharpe != 0 {
		form.SharpePeriod = strconv.Itoa(opts.sharpe)
	}
	ctrl.SetForm(form)

	for _, f := range opts.flows {
		e := ctrl.Ledger().Add()
		ctrl.Ledger().Update(e.ID, f.Date, f.Amount, f.Direction)
	}
	return nil
}
