// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validConfigJSON = `{
    "backend_url": "http://localhost:5000/",
    "request_timeout_ms": 2500,
    "bootstrap_retries": 5,
    "debug_logging": true,
    "chart_dir": "charts",
    "default_period_months": 36
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "valid config with defaults",
			content: validConfigJSON,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:5000", cfg.BackendURL)
				assert.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout())
				assert.Equal(t, 5, cfg.BootstrapRetries)
				assert.True(t, cfg.DebugLogging)
				assert.Equal(t, "charts", cfg.ChartDir)
				assert.Equal(t, 36, cfg.DefaultPeriodMonths)

				assert.Equal(t, 5*time.Second, cfg.NoticeTTL())
				assert.Equal(t, DefaultLogFile, cfg.LogFile)
				assert.Equal(t, DefaultLogBufferSize, cfg.LogBufferSize)
				assert.Equal(t, DefaultExportDir, cfg.ExportDir)
				assert.Equal(t, 12, cfg.DefaultRollingWindow)
				assert.Equal(t, 3, cfg.DefaultCAGRYears)
				assert.Equal(t, 1, cfg.DefaultSharpeYears)
			},
		},
		{
			name:    "missing backend url",
			content: `{"request_timeout_ms": 1000}`,
			wantErr: "missing backend_url",
		},
		{
			name:    "unsupported scheme",
			content: `{"backend_url": "ftp://example.com"}`,
			wantErr: "invalid backend_url",
		},
		{
			name:    "negative timeout",
			content: `{"backend_url": "https://example.com", "request_timeout_ms": -1}`,
			wantErr: "invalid request_timeout_ms",
		},
		{
			name:    "rolling window out of bounds",
			content: `{"backend_url": "https://example.com", "default_rolling_window": 61}`,
			wantErr: "Rolling window must be between 1 and 60 months",
		},
		{
			name:    "zero retries",
			content: `{"backend_url": "https://example.com", "bootstrap_retries": 0}`,
			wantErr: "invalid bootstrap_retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FUND_ANALYZER_BACKEND_URL", "https://analysis.example.com")
	t.Setenv("FUND_ANALYZER_NOTICE_TTL_MS", "750")

	cfg, err := LoadConfig(writeConfig(t, validConfigJSON))
	require.NoError(t, err)

	assert.Equal(t, "https://analysis.example.com", cfg.BackendURL)
	assert.Equal(t, 750*time.Millisecond, cfg.NoticeTTL())
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("FUND_ANALYZER_BACKEND_URL", "http://127.0.0.1:8080")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.BackendURL)
	assert.Equal(t, DefaultRequestTimeoutMs, cfg.RequestTimeoutMs)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FUND_ANALYZER_TEST_DOTENV=loaded\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("FUND_ANALYZER_TEST_DOTENV") })

	require.NoError(t, loadDotEnv(envFile))
	assert.Equal(t, "loaded", os.Getenv("FUND_ANALYZER_TEST_DOTENV"))

	assert.NoError(t, loadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "custom.yaml", ResolvePath("custom.yaml"))
}
