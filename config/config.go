// Package config loads the stk configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Store kinds.
const (
	StoreJSONL  = "jsonl"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// DotEnv is the file of KEY=value pairs loaded into the environment, when it
// exists, before env overrides are applied. Variables already set win.
var DotEnv = ".env"

// Config represents the application configuration.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Market    MarketConfig    `toml:"market"`
	Benchmark BenchmarkConfig `toml:"benchmark"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Matching  MatchingConfig  `toml:"matching"`
	Logging   LoggingConfig   `toml:"logging"`
}

// StoreConfig selects where the ledger lives.
type StoreConfig struct {
	Kind string `toml:"kind"` // jsonl, sqlite or memory
	Path string `toml:"path"`
}

// MarketConfig contains the market data provider settings.
type MarketConfig struct {
	Provider        string   `toml:"provider"`
	APIKey          string   `toml:"api_key"`
	BaseURL         string   `toml:"base_url"`
	Exchange        string   `toml:"exchange"`
	QuoteTTL        Duration `toml:"quote_ttl"` // 0 disables the quote memo
	RefreshInterval Duration `toml:"refresh_interval"`
	Timeout         Duration `toml:"timeout"`
	RateLimit       float64  `toml:"rate_limit"` // requests per second, 0 is unlimited
	CacheDir        string   `toml:"cache_dir"`  // empty disables the response cache
}

// BenchmarkConfig contains the alpha baseline settings.
type BenchmarkConfig struct {
	Symbol string   `toml:"symbol"`
	TTL    Duration `toml:"ttl"`
}

// MetricsConfig contains the portfolio metrics settings.
type MetricsConfig struct {
	RiskFreeRate float64 `toml:"risk_free_rate"`
}

// MatchingConfig contains the lot matching settings.
type MatchingConfig struct {
	TolerateOverSell bool `toml:"tolerate_over_sell"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as "90s", "5m" or "1h" in TOML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files, missing files are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadDotEnv() error {
	if DotEnv == "" {
		return nil
	}
	if _, err := os.Stat(DotEnv); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(DotEnv); err != nil {
		return fmt.Errorf("failed to load %s: %w", DotEnv, err)
	}
	return nil
}

// applyEnvOverrides applies STOCKLOG_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if kind := os.Getenv("STOCKLOG_STORE"); kind != "" {
		config.Store.Kind = kind
	}
	if path := os.Getenv("STOCKLOG_LEDGER"); path != "" {
		config.Store.Path = path
	}
	if key := os.Getenv("STOCKLOG_EODHD_API_KEY"); key != "" {
		config.Market.APIKey = key
	}
	if u := os.Getenv("STOCKLOG_MARKET_BASE_URL"); u != "" {
		config.Market.BaseURL = u
	}
	if dir := os.Getenv("STOCKLOG_CACHE_DIR"); dir != "" {
		config.Market.CacheDir = dir
	}
	if symbol := os.Getenv("STOCKLOG_BENCHMARK"); symbol != "" {
		config.Benchmark.Symbol = symbol
	}
	if rate := os.Getenv("STOCKLOG_RISK_FREE_RATE"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			config.Metrics.RiskFreeRate = r
		}
	}
	if tolerate := os.Getenv("STOCKLOG_TOLERATE_OVER_SELL"); tolerate != "" {
		if b, err := strconv.ParseBool(tolerate); err == nil {
			config.Matching.TolerateOverSell = b
		}
	}
	if level := os.Getenv("STOCKLOG_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("STOCKLOG_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	// set by stk for its extensions
	if verbose, _ := strconv.ParseBool(os.Getenv("STOCKLOG_VERBOSE")); verbose {
		config.Logging.Level = "debug"
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, ledger string, verbose bool) {
	if ledger != "" {
		config.Store.Path = ledger
	}
	if verbose {
		config.Logging.Level = "debug"
	}
}

// Validate checks the values that cannot fall back to a default.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreJSONL, StoreSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store %s requires a path", c.Store.Kind)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store kind %q, want %s, %s or %s", c.Store.Kind, StoreJSONL, StoreSQLite, StoreMemory)
	}
	if c.Market.Provider != "eodhd" {
		return fmt.Errorf("unknown market provider %q", c.Market.Provider)
	}
	if ttl, every := c.Market.QuoteTTL.Duration, c.Market.RefreshInterval.Duration; ttl > 0 && every > 0 && ttl >= every {
		return fmt.Errorf("market quote_ttl (%s) must be shorter than refresh_interval (%s)", ttl, every)
	}
	if c.Market.RateLimit < 0 {
		return fmt.Errorf("market rate_limit must not be negative, got %v", c.Market.RateLimit)
	}
	return nil
}
