package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// noDotEnv points DotEnv to a missing file for the duration of the test.
func noDotEnv(t *testing.T) {
	t.Helper()
	old := DotEnv
	DotEnv = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { DotEnv = old })
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Store.Kind != StoreJSONL {
		t.Errorf("expected default store jsonl, got %s", cfg.Store.Kind)
	}
	if cfg.Benchmark.Symbol != "SPY" {
		t.Errorf("expected default benchmark SPY, got %s", cfg.Benchmark.Symbol)
	}
	if cfg.Benchmark.TTL.Duration != time.Hour {
		t.Errorf("expected default benchmark ttl 1h, got %s", cfg.Benchmark.TTL)
	}
	if cfg.Market.RefreshInterval.Duration != 5*time.Minute {
		t.Errorf("expected default refresh interval 5m, got %s", cfg.Market.RefreshInterval)
	}
	if cfg.Market.QuoteTTL.Duration != 0 {
		t.Errorf("expected quotes fetched on every refresh, got quote ttl %s", cfg.Market.QuoteTTL)
	}
	if cfg.Metrics.RiskFreeRate != 2.5 {
		t.Errorf("expected default risk free rate 2.5, got %v", cfg.Metrics.RiskFreeRate)
	}
	if cfg.Matching.TolerateOverSell {
		t.Error("over-sell must not be tolerated by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	noDotEnv(t)
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Store.Path != "stocklog.jsonl" {
		t.Errorf("expected default ledger stocklog.jsonl, got %s", cfg.Store.Path)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	noDotEnv(t)
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[store]
kind = "sqlite"
path = "/tmp/ledger.db"

[market]
api_key = "k"
quote_ttl = "30s"
refresh_interval = "90s"

[benchmark]
symbol = "QQQ"

[metrics]
risk_free_rate = 4.0

[matching]
tolerate_over_sell = true

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Store.Kind != StoreSQLite || cfg.Store.Path != "/tmp/ledger.db" {
		t.Errorf("unexpected store %+v", cfg.Store)
	}
	if cfg.Market.APIKey != "k" {
		t.Errorf("expected api key k, got %s", cfg.Market.APIKey)
	}
	if cfg.Market.QuoteTTL.Duration != 30*time.Second {
		t.Errorf("expected quote ttl 30s, got %s", cfg.Market.QuoteTTL)
	}
	if cfg.Market.RefreshInterval.Duration != 90*time.Second {
		t.Errorf("expected refresh interval 90s, got %s", cfg.Market.RefreshInterval)
	}
	if cfg.Market.Exchange != "US" {
		t.Errorf("unset keys keep their default, got exchange %s", cfg.Market.Exchange)
	}
	if cfg.Benchmark.Symbol != "QQQ" {
		t.Errorf("expected benchmark QQQ, got %s", cfg.Benchmark.Symbol)
	}
	if cfg.Metrics.RiskFreeRate != 4 {
		t.Errorf("expected risk free rate 4, got %v", cfg.Metrics.RiskFreeRate)
	}
	if !cfg.Matching.TolerateOverSell {
		t.Error("expected tolerate_over_sell true")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	noDotEnv(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")
	os.WriteFile(first, []byte("[benchmark]\nsymbol = \"QQQ\"\n"), 0644)
	os.WriteFile(second, []byte("[benchmark]\nsymbol = \"DIA\"\n"), 0644)

	cfg, err := LoadFromFiles(first, filepath.Join(dir, "missing.toml"), second)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Benchmark.Symbol != "DIA" {
		t.Errorf("expected benchmark DIA, got %s", cfg.Benchmark.Symbol)
	}
}

func TestLoadFromFiles_Invalid(t *testing.T) {
	noDotEnv(t)
	dir := t.TempDir()
	tests := map[string]string{
		"syntax":       "[store\nkind = ",
		"store kind":   "[store]\nkind = \"s3\"\n",
		"duration":     "[market]\nquote_ttl = \"soon\"\n",
		"provider":     "[market]\nprovider = \"yahoo\"\n",
		"missing path": "[store]\npath = \"\"\n",
		"stale quotes": "[market]\nquote_ttl = \"1h\"\nrefresh_interval = \"5m\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFromFiles(path); err == nil {
				t.Error("LoadFromFiles() expected an error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	noDotEnv(t)
	t.Setenv("STOCKLOG_STORE", "memory")
	t.Setenv("STOCKLOG_EODHD_API_KEY", "from-env")
	t.Setenv("STOCKLOG_BENCHMARK", "VTI")
	t.Setenv("STOCKLOG_RISK_FREE_RATE", "3.25")
	t.Setenv("STOCKLOG_TOLERATE_OVER_SELL", "true")
	t.Setenv("STOCKLOG_LOG_LEVEL", "error")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Store.Kind != StoreMemory {
		t.Errorf("expected store memory, got %s", cfg.Store.Kind)
	}
	if cfg.Market.APIKey != "from-env" {
		t.Errorf("expected api key from-env, got %s", cfg.Market.APIKey)
	}
	if cfg.Benchmark.Symbol != "VTI" {
		t.Errorf("expected benchmark VTI, got %s", cfg.Benchmark.Symbol)
	}
	if cfg.Metrics.RiskFreeRate != 3.25 {
		t.Errorf("expected risk free rate 3.25, got %v", cfg.Metrics.RiskFreeRate)
	}
	if !cfg.Matching.TolerateOverSell {
		t.Error("expected tolerate over-sell from env")
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected log level error, got %s", cfg.Logging.Level)
	}
}

func TestEnvOverrides_Verbose(t *testing.T) {
	noDotEnv(t)
	t.Setenv("STOCKLOG_LOG_LEVEL", "error")
	t.Setenv("STOCKLOG_VERBOSE", "true")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("STOCKLOG_EODHD_API_KEY=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	old := DotEnv
	DotEnv = envPath
	t.Cleanup(func() { DotEnv = old })
	// registers the restoration of the variable, then leaves it unset for .env to fill.
	t.Setenv("STOCKLOG_EODHD_API_KEY", "")
	os.Unsetenv("STOCKLOG_EODHD_API_KEY")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Market.APIKey != "from-dotenv" {
		t.Errorf("expected api key from-dotenv, got %q", cfg.Market.APIKey)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, "", false)
	if cfg.Store.Path != "stocklog.jsonl" || cfg.Logging.Level != "warn" {
		t.Errorf("empty flags must not override, got %+v", cfg)
	}
	ApplyFlagOverrides(cfg, "other.jsonl", true)
	if cfg.Store.Path != "other.jsonl" {
		t.Errorf("expected ledger other.jsonl, got %s", cfg.Store.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected -v to set debug, got %s", cfg.Logging.Level)
	}
}
