package config

import "time"

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Upstreams UpstreamsConfig `yaml:"upstreams"`
	Screening ScreeningConfig `yaml:"screening"`
	Redis     RedisConfig     `yaml:"redis"`
}

// RedisConfig holds settings for the optional upstream-response cache.
// An empty URL disables caching.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// UpstreamsConfig groups the external data sources.
type UpstreamsConfig struct {
	TronGrid    TronGridConfig    `yaml:"trongrid"`
	Tronscan    TronscanConfig    `yaml:"tronscan"`
	Chainalysis ChainalysisConfig `yaml:"chainalysis"`
}

// TronGridConfig holds settings for the transaction-history upstream.
type TronGridConfig struct {
	BaseURL         string        `yaml:"base_url"`
	APIKey          string        `yaml:"api_key"`
	Timeout         time.Duration `yaml:"timeout"`
	PageSize        int           `yaml:"page_size"`
	MaxTransactions int           `yaml:"max_transactions"` // soft cap, may overshoot by one page
	PageRetries     int           `yaml:"page_retries"`     // retries per page on transient failure
}

// TronscanConfig holds settings for the account-info upstream.
type TronscanConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ChainalysisConfig holds settings for the sanctions upstream.
type ChainalysisConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"` // verdict cache TTL, 0 = no caching
}

// ScreeningConfig holds the evaluation thresholds and weights.
type ScreeningConfig struct {
	TrackedAsset           AssetConfig   `yaml:"tracked_asset"`
	MinValueThreshold      int64         `yaml:"min_value_threshold"` // smallest units
	MaxValueThreshold      int64         `yaml:"max_value_threshold"` // smallest units
	MinIntervalSeconds     int64         `yaml:"min_interval_seconds"`
	RelayTolerance         float64       `yaml:"relay_tolerance"` // comparable-magnitude band for hiding detection
	MinAccountTransactions int64         `yaml:"min_account_transactions"`
	Weights                WeightsConfig `yaml:"weights"`
}

// AssetConfig identifies the single token whose transfers are analyzed.
type AssetConfig struct {
	Symbol   string `yaml:"symbol"`
	TokenID  string `yaml:"token_id"`
	Decimals int32  `yaml:"decimals"`
}

// WeightsConfig holds the score aggregation coefficients.
type WeightsConfig struct {
	Value     float64 `yaml:"value"`
	Transfers float64 `yaml:"transfers"`
	Hiding    float64 `yaml:"hiding"`
}
