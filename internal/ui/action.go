package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/fund-analyzer/internal/dashboard"
	"github.com/rovshanmuradov/fund-analyzer/internal/export"
	"github.com/rovshanmuradov/fund-analyzer/internal/ledger"
	"go.uber.org/zap"
)

// ActionKind enumerates everything the user can ask the dashboard to do.
type ActionKind int

const (
	ActionRunAnalysis ActionKind = iota
	ActionSelectPeriod
	ActionUpdateForm
	ActionAddFlow
	ActionRemoveFlow
	ActionUpdateFlow
	ActionToggleFlow
	ActionExport
	ActionDismissNotice
	ActionNavigate
	ActionQuit
)

func (k ActionKind) String() string {
	switch k {
	case ActionRunAnalysis:
		return "run_analysis"
	case ActionSelectPeriod:
		return "select_period"
	case ActionUpdateForm:
		return "update_form"
	case ActionAddFlow:
		return "add_flow"
	case ActionRemoveFlow:
		return "remove_flow"
	case ActionUpdateFlow:
		return "update_flow"
	case ActionToggleFlow:
		return "toggle_flow"
	case ActionExport:
		return "export"
	case ActionDismissNotice:
		return "dismiss_notice"
	case ActionNavigate:
		return "navigate"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Action is one typed user intent. Only the fields relevant to Kind are read.
type Action struct {
	Kind ActionKind

	Months   int
	Form     dashboard.Form
	FlowID   string
	Date     string
	Amount   string
	Format   export.ExportFormat
	NoticeID string
	Route    Route
}

// User-facing export texts.
const (
	MsgNothingToExport = "Nothing to export yet. Run an analysis first."
	MsgExportFailed    = "Export failed."
	msgExported        = "Report saved to "
)

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	ExportDir    string
	ExportCharts bool
	// PruneEvery is the notice expiry check interval; 0 means one second.
	PruneEvery time.Duration
}

// Dispatcher is the single place where actions and background results
// mutate the controller. It must only be used from the event loop.
type Dispatcher struct {
	ctx      context.Context
	ctrl     *dashboard.Controller
	exporter *export.ReportExporter
	opts     DispatcherOptions
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher. ctx bounds every background request.
func NewDispatcher(ctx context.Context, ctrl *dashboard.Controller, exporter *export.ReportExporter, opts DispatcherOptions, logger *zap.Logger) *Dispatcher {
	if opts.PruneEvery <= 0 {
		opts.PruneEvery = time.Second
	}
	return &Dispatcher{
		ctx:      ctx,
		ctrl:     ctrl,
		exporter: exporter,
		opts:     opts,
		logger:   logger.Named("dispatch"),
	}
}

// Controller returns the controller screens render from.
func (d *Dispatcher) Controller() *dashboard.Controller { return d.ctrl }

// Init starts the notice pruning loop and the initial analysis.
func (d *Dispatcher) Init() tea.Cmd {
	return tea.Batch(d.schedulePrune(), d.Do(Action{Kind: ActionRunAnalysis}))
}

// Do applies an action and returns the follow-up command, if any.
func (d *Dispatcher) Do(a Action) tea.Cmd {
	d.logger.Debug("Action", zap.Stringer("kind", a.Kind))

	switch a.Kind {
	case ActionRunAnalysis:
		return d.runAnalysis()

	case ActionSelectPeriod:
		if !d.ctrl.SelectPeriod(a.Months) {
			return nil
		}
		d.ctrl.Rerender()
		return d.runAnalysis()

	case ActionUpdateForm:
		d.ctrl.SetForm(a.Form)

	case ActionAddFlow:
		d.ctrl.Ledger().Add()

	case ActionRemoveFlow:
		d.ctrl.Ledger().Remove(a.FlowID)

	case ActionUpdateFlow:
		if e, ok := d.ctrl.Ledger().Entry(a.FlowID); ok {
			d.ctrl.Ledger().Update(a.FlowID, a.Date, a.Amount, e.Direction)
		}

	case ActionToggleFlow:
		if e, ok := d.ctrl.Ledger().Entry(a.FlowID); ok {
			d.ctrl.Ledger().Update(e.ID, e.Date, e.Amount, e.Direction.Toggle())
		}

	case ActionExport:
		return d.export(a.Format)

	case ActionDismissNotice:
		id := a.NoticeID
		if id == "" {
			// oldest visible notice
			if active := d.ctrl.Notices(d.ctrl.Now()); len(active) > 0 {
				id = active[0].ID
			}
		}
		d.ctrl.Dismiss(id)

	case ActionNavigate:
		return Navigate(a.Route)

	case ActionQuit:
		return tea.Quit
	}
	return nil
}

// Handle consumes the background messages the dispatcher produced.
// It reports false for messages it does not own.
func (d *Dispatcher) Handle(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case AnalysisDoneMsg:
		d.ctrl.Complete(msg.Outcome)
		return nil, true

	case ExportDoneMsg:
		switch {
		case errors.Is(msg.Err, export.ErrNoResult):
			d.ctrl.Notify(MsgNothingToExport)
		case msg.Err != nil:
			d.logger.Error("Export failed", zap.Error(msg.Err))
			d.ctrl.NotifyError(MsgExportFailed)
		default:
			d.ctrl.Notify(msgExported + msg.Report.Path)
		}
		return nil, true

	case PruneMsg:
		d.ctrl.Prune(msg.Now)
		return d.schedulePrune(), true
	}
	return nil, false
}

func (d *Dispatcher) runAnalysis() tea.Cmd {
	t, ok := d.ctrl.Begin()
	if !ok {
		return nil
	}
	ctx := d.ctx
	return func() tea.Msg {
		return AnalysisDoneMsg{Outcome: d.ctrl.Execute(ctx, t)}
	}
}

// export works on a snapshot so later analyses cannot change what is written.
func (d *Dispatcher) export(format export.ExportFormat) tea.Cmd {
	if format == "" {
		format = export.FormatCSV
	}
	state := d.ctrl.State().Snapshot()
	params := d.ctrl.Params()
	opts := export.ExportOptions{
		Format:    format,
		OutputDir: d.opts.ExportDir,
		Charts:    d.opts.ExportCharts,
	}
	ctx := d.ctx
	return func() tea.Msg {
		report, err := d.exporter.Export(ctx, state, params, opts)
		return ExportDoneMsg{Report: report, Err: err}
	}
}

func (d *Dispatcher) schedulePrune() tea.Cmd {
	return tea.Tick(d.opts.PruneEvery, func(t time.Time) tea.Msg {
		return PruneMsg{Now: t}
	})
}

// FlowDirectionLabel renders a ledger direction for display.
func FlowDirectionLabel(dir ledger.Direction) string {
	if dir == ledger.Withdraw {
		return "Withdraw"
	}
	return "Deposit"
}
