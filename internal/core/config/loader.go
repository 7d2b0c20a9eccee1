package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	tg := &cfg.Upstreams.TronGrid
	if tg.BaseURL == "" {
		tg.BaseURL = "https://api.trongrid.io"
	}
	if tg.Timeout == 0 {
		tg.Timeout = 10 * time.Second
	}
	if tg.PageSize == 0 {
		tg.PageSize = 200
	}
	if tg.MaxTransactions == 0 {
		tg.MaxTransactions = 1000
	}
	if tg.PageRetries == 0 {
		tg.PageRetries = 1
	}

	ts := &cfg.Upstreams.Tronscan
	if ts.BaseURL == "" {
		ts.BaseURL = "https://apilist.tronscanapi.com"
	}
	if ts.Timeout == 0 {
		ts.Timeout = 10 * time.Second
	}

	ca := &cfg.Upstreams.Chainalysis
	if ca.BaseURL == "" {
		ca.BaseURL = "https://public.chainalysis.com"
	}
	if ca.Timeout == 0 {
		ca.Timeout = 10 * time.Second
	}
	if ca.CacheTTL == 0 {
		ca.CacheTTL = 10 * time.Minute
	}

	sc := &cfg.Screening
	if sc.TrackedAsset.Symbol == "" {
		sc.TrackedAsset = AssetConfig{
			Symbol:   "USDT",
			TokenID:  "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
			Decimals: 6,
		}
	}
	if sc.MinIntervalSeconds == 0 {
		sc.MinIntervalSeconds = 60
	}
	if sc.RelayTolerance == 0 {
		sc.RelayTolerance = 0.1
	}
	if sc.MinAccountTransactions == 0 {
		sc.MinAccountTransactions = 10
	}
}

// Validate checks the settings the service cannot run without.
func (cfg *AppConfig) Validate() error {
	if cfg.Upstreams.TronGrid.APIKey == "" {
		return fmt.Errorf("upstreams.trongrid.api_key is required")
	}
	if cfg.Upstreams.Chainalysis.APIKey == "" {
		return fmt.Errorf("upstreams.chainalysis.api_key is required")
	}
	if cfg.Upstreams.TronGrid.PageRetries < 0 {
		return fmt.Errorf("upstreams.trongrid.page_retries must be >= 0")
	}
	if cfg.Screening.MaxValueThreshold < cfg.Screening.MinValueThreshold {
		return fmt.Errorf("screening.max_value_threshold must be >= min_value_threshold")
	}
	w := cfg.Screening.Weights
	if w.Value < 0 || w.Transfers < 0 || w.Hiding < 0 {
		return fmt.Errorf("screening.weights must be non-negative")
	}
	return nil
}
