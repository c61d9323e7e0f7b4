// Package cmd implements the stk command line application to track a stock
// portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/config"
	"github.com/etnz/stocklog/date"
	"github.com/etnz/stocklog/eodhd"
	"github.com/etnz/stocklog/logging"
	"github.com/etnz/stocklog/sqlite"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{kind: stocklog.Buy}, "transactions")
	c.Register(&addCmd{kind: stocklog.Sell}, "transactions")
	c.Register(&addCmd{kind: stocklog.Dividend}, "transactions")
	c.Register(&editCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&clearCmd{}, "transactions")
	c.Register(&logCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")
	c.Register(&exportCmd{}, "transactions")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&closedCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&sectorsCmd{}, "reports")
	c.Register(&reportCmd{}, "reports")
	c.Register(&watchCmd{}, "reports")

	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the TOML configuration file. Defaults to stocklog.toml and the user config directory.")
	ledgerFile = flag.String("ledger", "", "Path to the ledger, overrides the configuration.")
	Verbose    = flag.Bool("v", false, "Enable debug logging.")
	rawOutput  = flag.Bool("raw", false, "Print reports as raw markdown.")
)

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// configFiles returns the configuration files in increasing priority.
func configFiles() []string {
	if *configFile != "" {
		return []string{*configFile}
	}
	if file := os.Getenv(EnvConfigFile); file != "" {
		return []string{file}
	}
	var files []string
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "stocklog", "config.toml"))
	}
	return append(files, "stocklog.toml")
}

// app holds everything a command needs, built from the configuration.
type app struct {
	config  *config.Config
	logger  *log.Logger
	journal *stocklog.Journal
	market  stocklog.Provider
	close   func() error
}

// openApp loads the configuration and opens the ledger.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFromFiles(configFiles()...)
	if err != nil {
		return nil, err
	}
	config.ApplyFlagOverrides(cfg, *ledgerFile, *Verbose)

	a := &app{
		config: cfg,
		logger: logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr),
		close:  func() error { return nil },
	}

	var store stocklog.Store
	switch cfg.Store.Kind {
	case config.StoreJSONL:
		store = stocklog.NewFileStore(cfg.Store.Path)
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		store, a.close = db, db.Close
	case config.StoreMemory:
		store = stocklog.NewMemoryStore()
	}
	a.journal = stocklog.NewJournal(store)
	a.logger.Debug().Str("store", cfg.Store.Kind).Str("path", cfg.Store.Path).Msg("ledger opened")

	m := cfg.Market
	apiKey := m.APIKey
	if apiKey == "" {
		a.logger.Warn().Msg("no EODHD api key configured, using the demo key")
		apiKey = eodhd.DemoKey
	}
	opts := []eodhd.Option{
		eodhd.WithBaseURL(m.BaseURL),
		eodhd.WithExchange(m.Exchange),
		eodhd.WithTimeout(m.Timeout.Duration),
		eodhd.WithQuoteTTL(m.QuoteTTL.Duration),
		eodhd.WithLogger(a.logger),
	}
	if m.RateLimit > 0 {
		opts = append(opts, eodhd.WithRateLimit(m.RateLimit, 1))
	}
	if m.CacheDir != "" {
		opts = append(opts, eodhd.WithDiskCache(m.CacheDir))
	}
	a.market = eodhd.New(apiKey, opts...)
	return a, nil
}

// tracker returns the Tracker of the ledger. An offline tracker values
// positions at cost and has no benchmark.
func (a *app) tracker(offline bool) *stocklog.Tracker {
	t := &stocklog.Tracker{
		Journal: a.journal,
		Options: stocklog.TrackerOptions{
			Match:   stocklog.MatchOptions{TolerateOverSell: a.config.Matching.TolerateOverSell},
			Metrics: stocklog.MetricsOptions{RiskFreeRate: a.config.Metrics.RiskFreeRate},
		},
	}
	if offline {
		return t
	}
	t.Comparator = stocklog.NewComparator(a.market, a.config.Benchmark.Symbol,
		stocklog.WithTTL(a.config.Benchmark.TTL.Duration),
		stocklog.WithLogger(a.logger),
	)
	t.Refresher = stocklog.NewRefresher(a.market, t.Comparator, stocklog.RefreshLogger(a.logger))
	return t
}

// withApp opens the app, runs f and closes the app, reporting errors on stderr.
func withApp(ctx context.Context, f func(a *app) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	err = f(a)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// errUsage marks errors caused by invalid command line arguments.
var errUsage = errors.New("invalid arguments")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// parseDay parses a date flag, empty means today.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, usageErrorf("%v", err)
	}
	return d, nil
}

// printMarkdown prints md to stdout, rendered for the terminal unless raw
// output was requested.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
