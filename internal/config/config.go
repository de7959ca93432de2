// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/spf13/viper"
)

type Config struct {
	BackendURL           string `mapstructure:"backend_url"`
	RequestTimeoutMs     int    `mapstructure:"request_timeout_ms"`
	BootstrapRetries     int    `mapstructure:"bootstrap_retries"`
	NoticeTTLMs          int    `mapstructure:"notice_ttl_ms"`
	DebugLogging         bool   `mapstructure:"debug_logging"`
	LogFile              string `mapstructure:"log_file"`
	LogBufferSize        int    `mapstructure:"log_buffer_size"`
	ChartDir             string `mapstructure:"chart_dir"`
	ExportDir            string `mapstructure:"export_dir"`
	DefaultPeriodMonths  int    `mapstructure:"default_period_months"`
	DefaultRollingWindow int    `mapstructure:"default_rolling_window"`
	DefaultCAGRYears     int    `mapstructure:"default_cagr_years"`
	DefaultSharpeYears   int    `mapstructure:"default_sharpe_years"`
}

const (
	DefaultPath             = "configs/config.json"
	DefaultEnvFile          = ".env"
	EnvPrefix               = "FUND_ANALYZER"
	DefaultRequestTimeoutMs = 10000
	DefaultBootstrapRetries = 3
	DefaultNoticeTTLMs      = 5000
	DefaultLogFile          = "logs/dashboard.log"
	DefaultLogBufferSize    = 1000
	DefaultExportDir        = "exports"
	DefaultRollingWindow    = 12
	DefaultCAGRYears        = 3
	DefaultSharpeYears      = 1
)

// RequestTimeout is the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// NoticeTTL is how long a user notice stays visible.
func (c *Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeTTLMs) * time.Millisecond
}

// ResolvePath returns path, or DefaultPath when path is empty and the default
// file exists. An empty result means "no config file".
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

// LoadConfig reads the config file at path (skipped when empty), then applies
// FUND_ANALYZER_* environment overrides. A .env file in the working directory
// is loaded into the environment first when present.
func LoadConfig(path string) (*Config, error) {
	if err := loadDotEnv(DefaultEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()

	defaults := map[string]interface{}{
		"backend_url":            "",
		"request_timeout_ms":     DefaultRequestTimeoutMs,
		"bootstrap_retries":      DefaultBootstrapRetries,
		"notice_ttl_ms":          DefaultNoticeTTLMs,
		"debug_logging":          false,
		"log_file":               DefaultLogFile,
		"log_buffer_size":        DefaultLogBufferSize,
		"chart_dir":              "",
		"export_dir":             DefaultExportDir,
		"default_period_months":  analysis.DefaultPeriodMonths,
		"default_rolling_window": DefaultRollingWindow,
		"default_cagr_years":     DefaultCAGRYears,
		"default_sharpe_years":   DefaultSharpeYears,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")

	return &cfg, validateConfig(&cfg)
}

func loadDotEnv(file string) error {
	if _, err := os.Stat(file); err != nil {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.BackendURL == "" {
		return errors.New("missing backend_url in configuration")
	}
	if err := validateURLWithCache(cfg.BackendURL, "http"); err != nil {
		return fmt.Errorf("invalid backend_url: %w", err)
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.RequestTimeoutMs <= 0 {
		return errors.New("invalid request_timeout_ms")
	}
	if cfg.BootstrapRetries < 1 {
		return errors.New("invalid bootstrap_retries: must be at least 1")
	}
	if cfg.NoticeTTLMs <= 0 {
		return errors.New("invalid notice_ttl_ms")
	}
	if cfg.LogBufferSize <= 0 {
		return errors.New("invalid log_buffer_size")
	}
	if cfg.DefaultPeriodMonths <= 0 {
		return errors.New("invalid default_period_months")
	}

	defaults := analysis.AnalysisParameters{
		StartDate:           time.Unix(0, 0),
		EndDate:             time.Unix(1, 0),
		RollingWindowMonths: cfg.DefaultRollingWindow,
		CAGRPeriodYears:     cfg.DefaultCAGRYears,
		SharpePeriodYears:   cfg.DefaultSharpeYears,
	}
	if err := analysis.Validate(defaults).Err(); err != nil {
		return fmt.Errorf("invalid default analysis parameters: %w", err)
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) || parsed.Host == "" {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}
