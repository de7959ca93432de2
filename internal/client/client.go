// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"go.uber.org/zap"
)

const (
	fundDataPath = "/fund-data.json"
	analyzePath  = "/analyze"

	maxErrorBody = 512
)

// Options configures the backend client.
type Options struct {
	BaseURL          string
	Timeout          time.Duration
	BootstrapRetries int
	RetryInterval    time.Duration
}

// Client talks to the analysis backend.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *zap.Logger
	maxTries      uint
	retryInterval time.Duration
}

// New creates a backend client.
func New(opts Options, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tries := opts.BootstrapRetries
	if tries < 1 {
		tries = 1
	}
	interval := opts.RetryInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:        logger.Named("backend"),
		maxTries:      uint(tries),
		retryInterval: interval,
	}
}

// FetchFund loads the fund identity. It runs once at startup, so transient
// failures are retried with exponential backoff. 4xx responses are not retried.
func (c *Client) FetchFund(ctx context.Context) (*analysis.FundInfo, error) {
	operation := func() (*analysis.FundInfo, error) {
		var info analysis.FundInfo
		err := c.do(ctx, "fetch fund", http.MethodGet, fundDataPath, nil, &info)
		if err != nil {
			if isPermanent(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return &info, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("Fund data request failed, retrying",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		}),
	)
}

// Analyze issues exactly one POST /analyze. It is never retried.
func (c *Client) Analyze(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode analysis request: %w", err)
	}

	var result analysis.AnalysisResult
	if err := c.do(ctx, "analyze", http.MethodPost, analyzePath, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs one request and decodes a JSON body into out.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Backend responded",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ResponseError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ResponseError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	return nil
}

func isPermanent(err error) bool {
	respErr, ok := err.(*ResponseError)
	if !ok {
		return false
	}
	if respErr.Err != nil {
		return true
	}
	return respErr.StatusCode >= 400 && respErr.StatusCode < 500 && respErr.StatusCode != http.StatusTooManyRequests
}
