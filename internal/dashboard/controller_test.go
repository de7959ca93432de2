package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/chart"
	"github.com/rovshanmuradov/fund-analyzer/internal/client"
	"github.com/rovshanmuradov/fund-analyzer/internal/ledger"
	"github.com/rovshanmuradov/fund-analyzer/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) FetchFund(ctx context.Context) (*analysis.FundInfo, error) {
	args := m.Called(ctx)
	info, _ := args.Get(0).(*analysis.FundInfo)
	return info, args.Error(1)
}

func (m *mockBackend) Analyze(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*analysis.AnalysisResult)
	return res, args.Error(1)
}

var fixedNow = time.Date(2024, 12, 31, 15, 30, 0, 0, time.UTC)

func newController(t *testing.T, backend Backend, logger *zap.Logger) *Controller {
	t.Helper()
	if logger == nil {
		logger = zap.NewNop()
	}
	state := view.NewState(chart.NewRegistry(), analysis.DefaultPeriodMonths)
	return New(backend, view.NewSynchronizer(nil, logger), state, Options{
		NoticeTTL:           5 * time.Second,
		PeriodMonths:        12,
		RollingWindowMonths: 12,
		CAGRPeriodYears:     3,
		SharpePeriodYears:   1,
		Now:                 func() time.Time { return fixedNow },
	}, logger)
}

func resultWithCAGR(v float64) *analysis.AnalysisResult {
	return &analysis.AnalysisResult{
		Metrics:        map[string]*float64{"cagr": &v},
		HistoricalData: map[string]analysis.Series{},
		Recommendation: analysis.Recommendation{Label: "Hold", Score: 6},
	}
}

func TestDefaults(t *testing.T) {
	c := newController(t, new(mockBackend), nil)

	f := c.Form()
	assert.Equal(t, "2023-12-31", f.StartDate)
	assert.Equal(t, "2024-12-31", f.EndDate)
	assert.Equal(t, "12", f.RollingWindow)
	assert.Equal(t, "3", f.CAGRPeriod)
	assert.Equal(t, "1", f.SharpePeriod)
	assert.Equal(t, 12, c.State().PeriodMonths)
	assert.Zero(t, c.Ledger().Len())
	assert.False(t, c.State().PanelsVisible)
}

func TestRunAnalysisAppliesResult(t *testing.T) {
	backend := new(mockBackend)
	c := newController(t, backend, nil)
	backend.On("Analyze", mock.Anything, mock.Anything).Return(resultWithCAGR(12.3), nil).Once()

	require.NoError(t, c.RunAnalysis(context.Background()))

	assert.Equal(t, "12.30%", c.State().MetricText["cagr"])
	assert.True(t, c.State().PanelsVisible)
	assert.False(t, c.State().Loading)
	assert.Equal(t, uint64(1), c.State().AppliedSeq)
	assert.Empty(t, c.Notices(fixedNow))
	backend.AssertExpectations(t)
}

func TestRequestIncludesLedgerSnapshot(t *testing.T) {
	backend := new(mockBackend)
	c := newController(t, backend, nil)

	e := c.Ledger().Add()
	c.Ledger().Update(e.ID, "2024-03-01", "250", ledger.Withdraw)
	c.Ledger().Add()

	backend.On("Analyze", mock.Anything, mock.MatchedBy(func(req analysis.AnalysisRequest) bool {
		return len(req.AdditionalFlows) == 1 &&
			req.AdditionalFlows[0].Amount == -250 &&
			req.AdditionalFlows[0].Date.Format(analysis.DateLayout) == "2024-03-01" &&
			req.RollingWindow == 12
	})).Return(resultWithCAGR(1), nil).Once()

	require.NoError(t, c.RunAnalysis(context.Background()))
	backend.AssertExpectations(t)
}

func TestValidationFailureBlocksRequest(t *testing.T) {
	backend := new(mockBackend)
	c := newController(t, backend, nil)

	f := c.Form()
	f.StartDate, f.EndDate = "2024-06-01", "2024-01-01"
	f.RollingWindow = "61"
	f.SharpePeriod = "abc"
	c.SetForm(f)

	err := c.RunAnalysis(context.Background())

	var vErr *analysis.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		analysis.ErrMsgDateOrder,
		analysis.ErrMsgRollingWindow,
		analysis.ErrMsgSharpePeriod,
	}, vErr.Messages)

	notices := c.Notices(fixedNow)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Level)
	assert.Contains(t, notices[0].Text, analysis.ErrMsgDateOrder)
	assert.Contains(t, notices[0].Text, analysis.ErrMsgRollingWindow)
	assert.Contains(t, notices[0].Text, analysis.ErrMsgSharpePeriod)

	assert.False(t, c.State().Loading)
	backend.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestServerErrorKeepsStateAndPostsOneNotice(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resultWithCAGR(12.3))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	backend := client.New(client.Options{BaseURL: srv.URL, Timeout: time.Second}, logger)
	c := newController(t, backend, logger)

	require.NoError(t, c.RunAnalysis(context.Background()))
	before := c.State().Metrics
	beforeText := c.State().MetricText

	err := c.RunAnalysis(context.Background())
	var respErr *client.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusInternalServerError, respErr.StatusCode)

	assert.Equal(t, before, c.State().Metrics)
	assert.Equal(t, beforeText, c.State().MetricText)
	assert.Equal(t, uint64(1), c.State().AppliedSeq)
	assert.False(t, c.State().Loading)

	notices := c.Notices(fixedNow)
	require.Len(t, notices, 1)
	assert.Equal(t, MsgAnalysisFailed, notices[0].Text)
	assert.NotContains(t, notices[0].Text, "500")

	failures := logs.FilterMessage("Analysis request failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), failures[0].ContextMap()["status"])
}

func TestTransportErrorPostsGenericNotice(t *testing.T) {
	backend := new(mockBackend)
	c := newController(t, backend, nil)
	backend.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, &client.TransportError{Op: "analyze", Err: errors.New("connection refused")})

	err := c.RunAnalysis(context.Background())
	require.Error(t, err)

	notices := c.Notices(fixedNow)
	require.Len(t, notices, 1)
	assert.Equal(t, MsgAnalysisFailed, notices[0].Text)
	assert.False(t, c.State().PanelsVisible)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	backend := new(mockBackend)
	c := newController(t, backend, nil)

	first, ok := c.Begin()
	require.True(t, ok)
	second, ok := c.Begin()
	require.True(t, ok)
	assert.Equal(t, 2, c.InFlight())
	assert.True(t, c.State().Loading)

	assert.True(t, c.Complete(Outcome{Ticket: second, Result: resultWithCAGR(20)}))
	assert.True(t, c.State().Loading)

	assert.False(t, c.Complete(Outcome{Ticket: first, Result: resultWithCAGR(10)}))
	assert.Equal(t, "20.00%", c.State().MetricText["cagr"])
	assert.Equal(t, second.Seq, c.State().AppliedSeq)
	assert.False(t, c.State().Loading)
	assert.Zero(t, c.InFlight())
}

func TestOlderResponseAppliesWhenNewerFailed(t *testing.T) {
	backend := new(mockBackend)
	c := newController(t, backend, nil)

	first, _ := c.Begin()
	second, _ := c.Begin()

	assert.False(t, c.Complete(Outcome{Ticket: second, Err: &client.ResponseError{Op: "analyze", StatusCode: 502}}))
	assert.True(t, c.Complete(Outcome{Ticket: first, Result: resultWithCAGR(10)}))
	assert.Equal(t, "10.00%", c.State().MetricText["cagr"])
}

func TestSelectPeriod(t *testing.T) {
	c := newController(t, new(mockBackend), nil)

	assert.False(t, c.SelectPeriod(0))
	require.True(t, c.SelectPeriod(3))

	assert.Equal(t, 3, c.State().PeriodMonths)
	assert.Equal(t, "2024-09-30", c.Form().StartDate)
	assert.Equal(t, "2024-12-31", c.Form().EndDate)
}

func TestBootstrap(t *testing.T) {
	backend := new(mockBackend)
	c := newController(t, backend, nil)
	info := &analysis.FundInfo{SchemeName: "Bluechip Fund", AMCName: "Acme AMC", ISIN: "INF000000001"}
	backend.On("FetchFund", mock.Anything).Return(info, nil).Once()

	require.NoError(t, c.Bootstrap(context.Background()))
	assert.Equal(t, info, c.State().Fund)
	assert.Empty(t, c.Notices(fixedNow))
}

func TestBootstrapFailureIsReported(t *testing.T) {
	backend := new(mockBackend)
	c := newController(t, backend, nil)
	backend.On("FetchFund", mock.Anything).Return(nil, errors.New("down")).Once()

	require.Error(t, c.Bootstrap(context.Background()))
	assert.Nil(t, c.State().Fund)
	notices := c.Notices(fixedNow)
	require.Len(t, notices, 1)
	assert.Equal(t, MsgFundLoadFailed, notices[0].Text)
}

func TestNoticesExpireAndDismiss(t *testing.T) {
	c := newController(t, new(mockBackend), nil)

	a := c.Notify("exported")
	b := c.NotifyError("disk full")

	assert.Len(t, c.Notices(fixedNow), 2)
	assert.Empty(t, c.Notices(fixedNow.Add(5*time.Second)))

	assert.True(t, c.Dismiss(a.ID))
	assert.False(t, c.Dismiss(a.ID))
	remaining := c.Notices(fixedNow)
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)

	assert.Equal(t, 1, c.Prune(fixedNow.Add(time.Minute)))
	assert.Empty(t, c.Notices(fixedNow))
}

func TestValidationNoticeListsEveryViolation(t *testing.T) {
	text := validationText([]string{"a", "b"})
	assert.Equal(t, 3, len(strings.Split(text, "\n")))
}
