package config

import "time"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Kind: StoreJSONL,
			Path: "stocklog.jsonl",
		},
		Market: MarketConfig{
			Provider:        "eodhd",
			BaseURL:         "https://eodhd.com",
			Exchange:        "US",
			QuoteTTL:        Duration{0},
			RefreshInterval: Duration{5 * time.Minute},
			Timeout:         Duration{30 * time.Second},
			RateLimit:       10,
		},
		Benchmark: BenchmarkConfig{
			Symbol: "SPY",
			TTL:    Duration{time.Hour},
		},
		Metrics: MetricsConfig{
			RiskFreeRate: 2.5,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
