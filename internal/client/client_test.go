package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string, retries int) *Client {
	return New(Options{
		BaseURL:          url,
		Timeout:          2 * time.Second,
		BootstrapRetries: retries,
		RetryInterval:    time.Millisecond,
	}, zap.NewNop())
}

func TestAnalyzeSendsRequestAndDecodesResult(t *testing.T) {
	var got analysis.AnalysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"metrics": {"sharpe_ratio": 1.2},
			"historical_data": {"1_month": {"dates": ["2024-01-01"], "values": [10]}},
			"recommendation": {"recommendation": "BUY MORE UNITS", "score": 8, "reasons": [], "action_items": []}
		}`))
	}))
	defer srv.Close()

	start, _ := analysis.ParseDate("2024-01-01")
	end, _ := analysis.ParseDate("2024-06-01")
	params := analysis.AnalysisParameters{
		StartDate: start, EndDate: end,
		RollingWindowMonths: 12, CAGRPeriodYears: 3, SharpePeriodYears: 1,
	}

	res, err := newTestClient(srv.URL, 1).Analyze(context.Background(), params.Request())
	require.NoError(t, err)

	assert.Equal(t, 12, got.RollingWindow)
	assert.Equal(t, "2024-06-01", got.EndDate.Format(analysis.DateLayout))
	assert.Equal(t, "BUY MORE UNITS", res.Recommendation.Label)
	assert.Equal(t, 1.2, *res.Metrics["sharpe_ratio"])
}

func TestAnalyzeNon2xxIsResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Analyze(context.Background(), analysis.AnalysisRequest{})
	require.Error(t, err)

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusInternalServerError, respErr.StatusCode)
	assert.Contains(t, respErr.Body, "boom")
}

func TestAnalyzeMalformedBodyIsResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"metrics": [`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Analyze(context.Background(), analysis.AnalysisRequest{})

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Error(t, respErr.Err)
}

func TestAnalyzeUnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, 1).Analyze(context.Background(), analysis.AnalysisRequest{})

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestAnalyzeIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 5).Analyze(context.Background(), analysis.AnalysisRequest{})
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchFundRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fund-data.json", r.URL.Path)
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"scheme_name": "Growth Fund", "amc_name": "Acme AMC", "isin": "INF000000001"}`))
	}))
	defer srv.Close()

	info, err := newTestClient(srv.URL, 5).FetchFund(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Growth Fund", info.SchemeName)
	assert.Equal(t, "INF000000001", info.ISIN)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchFundDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 5).FetchFund(context.Background())

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchFundGivesUpAfterMaxTries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).FetchFund(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
