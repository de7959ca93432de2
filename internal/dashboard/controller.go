// internal/dashboard/controller.go
package dashboard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/client"
	"github.com/rovshanmuradov/fund-analyzer/internal/ledger"
	"github.com/rovshanmuradov/fund-analyzer/internal/view"
	"go.uber.org/zap"
)

// User-facing texts. Causes are logged, never shown.
const (
	MsgAnalysisFailed  = "Analysis failed. Please try again."
	MsgFundLoadFailed  = "Could not load fund details."
	msgValidationTitle = "Please fix the following:"
)

const defaultNoticeTTL = 5 * time.Second

// Backend is the remote analysis service.
type Backend interface {
	FetchFund(ctx context.Context) (*analysis.FundInfo, error)
	Analyze(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisResult, error)
}

// Options configures a Controller.
type Options struct {
	NoticeTTL           time.Duration
	PeriodMonths        int
	RollingWindowMonths int
	CAGRPeriodYears     int
	SharpePeriodYears   int
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Form holds the raw parameter inputs exactly as typed.
type Form struct {
	StartDate     string
	EndDate       string
	RollingWindow string
	CAGRPeriod    string
	SharpePeriod  string
}

// Ticket identifies one dispatched analysis request.
type Ticket struct {
	Seq    uint64
	Params analysis.AnalysisParameters
}

// Outcome is the result of executing a ticket.
type Outcome struct {
	Ticket Ticket
	Result *analysis.AnalysisResult
	Err    error
}

// Controller owns the application state and orchestrates analysis requests.
// Begin, Complete and every mutator must run on the UI goroutine; only
// Execute may run elsewhere.
type Controller struct {
	backend Backend
	sync    *view.Synchronizer
	state   *view.State
	ledger  *ledger.Ledger
	logger  *zap.Logger
	now     func() time.Time

	form     Form
	notices  notices
	nextSeq  uint64
	inFlight int
}

// New creates a controller with the startup defaults: the default period
// ending today and an empty ledger.
func New(backend Backend, sync *view.Synchronizer, state *view.State, opts Options, logger *zap.Logger) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = defaultNoticeTTL
	}
	if opts.PeriodMonths <= 0 {
		opts.PeriodMonths = analysis.DefaultPeriodMonths
	}

	c := &Controller{
		backend: backend,
		sync:    sync,
		state:   state,
		ledger:  ledger.New(),
		logger:  logger.Named("dashboard"),
		now:     opts.Now,
		notices: notices{ttl: opts.NoticeTTL},
		form: Form{
			RollingWindow: strconv.Itoa(opts.RollingWindowMonths),
			CAGRPeriod:    strconv.Itoa(opts.CAGRPeriodYears),
			SharpePeriod:  strconv.Itoa(opts.SharpePeriodYears),
		},
	}
	c.setPeriod(opts.PeriodMonths)
	return c
}

// State returns the view state.
func (c *Controller) State() *view.State { return c.state }

// Ledger returns the cashflow ledger.
func (c *Controller) Ledger() *ledger.Ledger { return c.ledger }

// Form returns the current raw form values.
func (c *Controller) Form() Form { return c.form }

// SetForm replaces the raw form values.
func (c *Controller) SetForm(f Form) { c.form = f }

// Bootstrap loads the fund identity once. A failure is reported to the user
// but the dashboard stays usable.
func (c *Controller) Bootstrap(ctx context.Context) error {
	info, err := c.backend.FetchFund(ctx)
	if err != nil {
		c.logger.Error("Failed to load fund data", zap.Error(err))
		c.notices.post(NoticeError, MsgFundLoadFailed, c.now())
		return err
	}
	c.state.Fund = info
	c.logger.Info("Fund loaded",
		zap.String("scheme", info.SchemeName),
		zap.String("isin", info.ISIN))
	return nil
}

// SelectPeriod switches the reporting period and resets the date range to
// the period ending today. The caller triggers the analysis.
func (c *Controller) SelectPeriod(months int) bool {
	if months <= 0 {
		return false
	}
	c.setPeriod(months)
	c.logger.Debug("Period selected", zap.Int("months", months))
	return true
}

func (c *Controller) setPeriod(months int) {
	now := c.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	c.form.EndDate = end.Format(analysis.DateLayout)
	c.form.StartDate = monthsBefore(end, months).Format(analysis.DateLayout)
	c.state.PeriodMonths = months
}

// Params builds the analysis parameters from the form and a fresh ledger
// snapshot. Unparsable inputs become zero values and fail validation.
func (c *Controller) Params() analysis.AnalysisParameters {
	start, _ := analysis.ParseDate(strings.TrimSpace(c.form.StartDate))
	end, _ := analysis.ParseDate(strings.TrimSpace(c.form.EndDate))
	return analysis.AnalysisParameters{
		StartDate:           start,
		EndDate:             end,
		RollingWindowMonths: atoi(c.form.RollingWindow),
		CAGRPeriodYears:     atoi(c.form.CAGRPeriod),
		SharpePeriodYears:   atoi(c.form.SharpePeriod),
		AdditionalFlows:     c.ledger.Snapshot(),
	}
}

// Begin validates the current inputs and, if they pass, dispatches a new
// ticket and enters the loading state. On failure it posts one notice that
// lists every violation. Triggering is never blocked by requests in flight.
func (c *Controller) Begin() (Ticket, bool) {
	params := c.Params()
	if res := analysis.Validate(params); !res.OK {
		c.logger.Debug("Analysis parameters rejected", zap.Strings("errors", res.Errors))
		c.notices.post(NoticeError, validationText(res.Errors), c.now())
		return Ticket{}, false
	}

	c.nextSeq++
	c.inFlight++
	c.state.Loading = true

	c.logger.Debug("Analysis dispatched",
		zap.Uint64("seq", c.nextSeq),
		zap.Int("in_flight", c.inFlight),
		zap.Int("flows", len(params.AdditionalFlows)))

	return Ticket{Seq: c.nextSeq, Params: params}, true
}

// Execute performs the network call for t. It touches no controller state.
func (c *Controller) Execute(ctx context.Context, t Ticket) Outcome {
	result, err := c.backend.Analyze(ctx, t.Params.Request())
	return Outcome{Ticket: t, Result: result, Err: err}
}

// Complete applies an outcome. Failures leave the shown results untouched
// and post one generic notice. A response older than the one already shown
// is discarded. It reports whether the result was applied.
func (c *Controller) Complete(o Outcome) bool {
	defer c.finish()

	if o.Err == nil && o.Result == nil {
		o.Err = errors.New("empty analysis response")
	}
	if o.Err != nil {
		c.logFailure(o)
		c.notices.post(NoticeError, MsgAnalysisFailed, c.now())
		return false
	}

	if o.Ticket.Seq < c.state.AppliedSeq {
		c.logger.Debug("Discarding stale analysis response",
			zap.Uint64("seq", o.Ticket.Seq),
			zap.Uint64("applied_seq", c.state.AppliedSeq))
		return false
	}

	c.sync.Apply(c.state, o.Result, o.Ticket.Params)
	c.state.AppliedSeq = o.Ticket.Seq
	c.logger.Info("Analysis applied",
		zap.Uint64("seq", o.Ticket.Seq),
		zap.Int("metrics", len(o.Result.Metrics)))
	return true
}

// RunAnalysis runs Begin, Execute and Complete in sequence.
func (c *Controller) RunAnalysis(ctx context.Context) error {
	t, ok := c.Begin()
	if !ok {
		return analysis.Validate(c.Params()).Err()
	}
	o := c.Execute(ctx, t)
	c.Complete(o)
	return o.Err
}

// Rerender redraws the current result for the selected period without a
// network call.
func (c *Controller) Rerender() {
	c.sync.Rerender(c.state, c.Params())
}

// Now returns the controller clock.
func (c *Controller) Now() time.Time { return c.now() }

// InFlight returns the number of dispatched requests not yet completed.
func (c *Controller) InFlight() int { return c.inFlight }

// Notices returns the notices visible at now.
func (c *Controller) Notices(now time.Time) []Notice { return c.notices.active(now) }

// Notify posts an informational notice.
func (c *Controller) Notify(text string) Notice {
	return c.notices.post(NoticeInfo, text, c.now())
}

// NotifyError posts an error notice.
func (c *Controller) NotifyError(text string) Notice {
	return c.notices.post(NoticeError, text, c.now())
}

// Dismiss removes a notice before it expires.
func (c *Controller) Dismiss(id string) bool { return c.notices.dismiss(id) }

// Prune drops expired notices and returns how many were removed.
func (c *Controller) Prune(now time.Time) int { return c.notices.prune(now) }

func (c *Controller) finish() {
	if c.inFlight > 0 {
		c.inFlight--
	}
	c.state.Loading = c.inFlight > 0
}

func (c *Controller) logFailure(o Outcome) {
	fields := []zap.Field{zap.Uint64("seq", o.Ticket.Seq), zap.Error(o.Err)}

	var respErr *client.ResponseError
	var transportErr *client.TransportError
	switch {
	case errors.As(o.Err, &respErr):
		fields = append(fields, zap.String("kind", "response"), zap.Int("status", respErr.StatusCode))
	case errors.As(o.Err, &transportErr):
		fields = append(fields, zap.String("kind", "transport"))
	default:
		fields = append(fields, zap.String("kind", "unknown"))
	}
	c.logger.Error("Analysis request failed", fields...)
}

func validationText(errs []string) string {
	var b strings.Builder
	b.WriteString(msgValidationTitle)
	for _, e := range errs {
		b.WriteString("\n- ")
		b.WriteString(e)
	}
	return b.String()
}

// monthsBefore steps back whole months, clamping to the last day of the
// target month (Dec 31 minus 3 months is Sep 30, not Oct 1).
func monthsBefore(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()-time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
