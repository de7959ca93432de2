package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startServer(t *testing.T, opts Options) (*httptest.Server, *client.Client) {
	t.Helper()
	s, err := New(opts, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return srv, client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
}

func validRequest() analysis.AnalysisRequest {
	return analysis.AnalysisParameters{
		StartDate:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		RollingWindowMonths: 12,
		CAGRPeriodYears:     3,
		SharpePeriodYears:   1,
	}.Request()
}

func TestEmbeddedFixturesRoundTrip(t *testing.T) {
	_, c := startServer(t, Options{})
	ctx := context.Background()

	info, err := c.FetchFund(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INF000K01AB1", info.ISIN)

	result, err := c.Analyze(ctx, validRequest())
	require.NoError(t, err)
	require.NotNil(t, result.Metrics["cagr"])
	assert.Equal(t, 12.64, *result.Metrics["cagr"])
	assert.Len(t, result.HistoricalData, 6)
	assert.Equal(t, "CONTINUE HOLDING", result.Recommendation.Label)
	require.NotNil(t, result.Comparative)
	require.NotNil(t, result.Trends)
	assert.NotNil(t, result.Trends.Risk)

	s12 := result.HistoricalData["12_month"]
	assert.Equal(t, len(s12.Dates), len(s12.Values))
	assert.Equal(t, "2024-12-31", s12.Dates[len(s12.Dates)-1].Format(analysis.DateLayout))
}

func TestAnalyzeRejectsInvalidParameters(t *testing.T) {
	_, c := startServer(t, Options{})

	req := validRequest()
	req.RollingWindow = 61
	_, err := c.Analyze(context.Background(), req)

	var respErr *client.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
	assert.Contains(t, respErr.Body, analysis.ErrMsgRollingWindow)
}

func TestAnalyzeRejectsUnknownFieldsAndMissingFlows(t *testing.T) {
	srv, _ := startServer(t, Options{})

	for name, body := range map[string]string{
		"unknown field": `{"startDate":"2024-01-01","endDate":"2024-12-31","rollingWindow":12,"cagrPeriod":3,"sharpePeriod":1,"additionalFlows":[],"extra":1}`,
		"missing flows": `{"startDate":"2024-01-01","endDate":"2024-12-31","rollingWindow":12,"cagrPeriod":3,"sharpePeriod":1}`,
		"not json":      `nope`,
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/analyze", "application/json", strings.NewReader(body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestFailEveryInjectsServerErrors(t *testing.T) {
	_, c := startServer(t, Options{FailEvery: 2})
	ctx := context.Background()

	_, err := c.Analyze(ctx, validRequest())
	require.NoError(t, err)

	_, err = c.Analyze(ctx, validRequest())
	var respErr *client.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusInternalServerError, respErr.StatusCode)

	_, err = c.Analyze(ctx, validRequest())
	assert.NoError(t, err)
}

func TestFixtureDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FundFixture),
		[]byte(`{"scheme_name":"Local Fund","amc_name":"Local AMC","isin":"INF999"}`), 0600))

	srv, c := startServer(t, Options{Dir: dir})

	info, err := c.FetchFund(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Local Fund", info.SchemeName)

	resp, err := http.Post(srv.URL+"/analyze", "application/json", strings.NewReader(
		`{"startDate":"2024-01-01","endDate":"2024-12-31","rollingWindow":12,"cagrPeriod":3,"sharpePeriod":1,"additionalFlows":[]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New(Options{Dir: filepath.Join(t.TempDir(), "missing")}, zap.NewNop())
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv, _ := startServer(t, Options{})
	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
