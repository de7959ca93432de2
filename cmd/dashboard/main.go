package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
	"github.com/rovshanmuradov/fund-analyzer/internal/client"
	"github.com/rovshanmuradov/fund-analyzer/internal/config"
	"github.com/rovshanmuradov/fund-analyzer/internal/dashboard"
	"github.com/rovshanmuradov/fund-analyzer/internal/export"
	"github.com/rovshanmuradov/fund-analyzer/internal/logger"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/component"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/screen"
	"github.com/rovshanmuradov/fund-analyzer/internal/view"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default configs/config.json when present)")
	flag.Parse()

	cfg, err := config.LoadConfig(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("Dashboard failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootLogger, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logBuffer, err := logger.NewLogBuffer(cfg.LogBufferSize, cfg.LogFile, 2*time.Second, bootLogger)
	if err != nil {
		return fmt.Errorf("create log buffer: %w", err)
	}
	defer logBuffer.Close()

	// The TUI owns the terminal, so logs only go to the buffer and its file.
	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, logBuffer)
	if err != nil {
		return fmt.Errorf("init TUI logger: %w", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	appLogger.Info("Starting fund analysis dashboard",
		zap.String("backend", cfg.BackendURL),
		zap.String("chart_dir", cfg.ChartDir))

	backend := client.New(client.Options{
		BaseURL:          cfg.BackendURL,
		Timeout:          cfg.RequestTimeout(),
		BootstrapRetries: cfg.BootstrapRetries,
	}, appLogger)

	terminal := component.NewTerminalTarget()
	charts := chartRegistry(cfg, terminal, appLogger)

	state := view.NewState(charts, cfg.DefaultPeriodMonths)
	ctrl := dashboard.New(backend, view.NewSynchronizer(nil, appLogger), state, dashboard.Options{
		NoticeTTL:           cfg.NoticeTTL(),
		PeriodMonths:        cfg.DefaultPeriodMonths,
		RollingWindowMonths: cfg.DefaultRollingWindow,
		CAGRPeriodYears:     cfg.DefaultCAGRYears,
		SharpePeriodYears:   cfg.DefaultSharpeYears,
	}, appLogger)

	// A missing fund identity is shown as a notice; the dashboard still works.
	_ = ctrl.Bootstrap(rootCtx)

	dispatch := ui.NewDispatcher(rootCtx, ctrl, export.NewReportExporter(appLogger), ui.DispatcherOptions{
		ExportDir:    cfg.ExportDir,
		ExportCharts: cfg.ChartDir != "",
	}, appLogger)

	model, err := screen.NewAppModel(dispatch, terminal, logBuffer)
	if err != nil {
		return fmt.Errorf("build UI: %w", err)
	}

	// A restart reuses the model; the controller keeps the last result.
	recovery := ui.NewRecoveryHandler(appLogger, func() (tea.Model, []tea.ProgramOption) {
		return ui.NewSafeModel(model, appLogger), []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithContext(rootCtx),
		}
	})

	if err := recovery.Run(rootCtx); err != nil {
		appLogger.Error("Dashboard stopped", zap.Error(err))
		return err
	}
	appLogger.Info("Dashboard closed")
	return nil
}

// chartRegistry routes every chart to the terminal. With chart_dir set the
// named charts are also rendered to PNG files.
func chartRegistry(cfg *config.Config, terminal *component.TerminalTarget, appLogger *zap.Logger) *chart.Registry {
	reg := chart.NewRegistry()
	reg.SetFallback(terminal)
	if cfg.ChartDir == "" {
		return reg
	}

	png := chart.NewPNGTarget(cfg.ChartDir, appLogger)
	for _, kind := range append([]chart.Kind{chart.KindHistorical}, chart.PeriodKinds...) {
		reg.Register(kind, chart.Targets{terminal, png})
	}
	return reg
}
