package stocklog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/etnz/stocklog/cache"
	"github.com/etnz/stocklog/date"
	"github.com/etnz/stocklog/logging"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBenchmark is the symbol positions are compared against.
	DefaultBenchmark = "SPY"
	// DefaultBenchmarkTTL is how long a benchmark return is reused.
	DefaultBenchmarkTTL = time.Hour
	// DefaultFetchConcurrency bounds the number of in-flight provider requests.
	DefaultFetchConcurrency = 8
)

type benchmarkResult struct {
	value Percent
	ok    bool
}

// Comparator computes the benchmark return over holding windows.
//
// Provider failures never escape a Comparator, they are logged and reported
// as an unavailable return.
type Comparator struct {
	provider    Provider
	symbol      string
	ttl         time.Duration
	now         func() time.Time
	logger      *log.Logger
	concurrency int
	results     *cache.Cache[date.Range, benchmarkResult]
}

// ComparatorOption configures a Comparator.
type ComparatorOption func(*Comparator)

// WithTTL sets how long a computed return is reused.
func WithTTL(ttl time.Duration) ComparatorOption { return func(c *Comparator) { c.ttl = ttl } }

// WithClock sets the clock used for cache expiry and for "now" windows.
func WithClock(now func() time.Time) ComparatorOption { return func(c *Comparator) { c.now = now } }

// WithLogger sets the logger receiving provider failures.
func WithLogger(l *log.Logger) ComparatorOption { return func(c *Comparator) { c.logger = l } }

// WithConcurrency bounds the number of windows fetched at once.
func WithConcurrency(n int) ComparatorOption {
	return func(c *Comparator) { c.concurrency = n }
}

// NewComparator returns a Comparator of symbol's returns fetched from p.
// An empty symbol means DefaultBenchmark.
func NewComparator(p Provider, symbol string, opts ...ComparatorOption) *Comparator {
	if symbol == "" {
		symbol = DefaultBenchmark
	}
	c := &Comparator{
		provider:    p,
		symbol:      symbol,
		ttl:         DefaultBenchmarkTTL,
		now:         time.Now,
		concurrency: DefaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	if c.concurrency <= 0 {
		c.concurrency = 1
	}
	c.results = cache.New[date.Range, benchmarkResult](c.ttl, 0, c.now)
	return c
}

// Symbol returns the benchmark symbol.
func (c *Comparator) Symbol() string { return c.symbol }

// today returns the current day according to the comparator's clock.
func (c *Comparator) today() date.Date { return date.Of(c.now()) }

// Return returns the benchmark percentage return between the first and the
// last close in [from, to]. A zero to means today.
//
// ok is false when the provider failed or returned less than two bars.
func (c *Comparator) Return(ctx context.Context, from, to date.Date) (ret Percent, ok bool) {
	if to.IsZero() {
		to = c.today()
	}
	window := date.Range{From: from, To: to}
	if r, hit := c.results.Get(window); hit {
		return r.value, r.ok
	}

	r, err := c.fetch(ctx, window)
	if err != nil {
		c.logger.Warn().Str("symbol", c.symbol).Str("window", window.String()).Err(err).Msg("benchmark unavailable")
		if ctx.Err() != nil {
			// A cancelled request says nothing about the data.
			return 0, false
		}
	}
	c.results.Set(window, r)
	return r.value, r.ok
}

func (c *Comparator) fetch(ctx context.Context, window date.Range) (benchmarkResult, error) {
	if window.To.Before(window.From) {
		return benchmarkResult{}, fmt.Errorf("window %s ends before it starts", window)
	}
	bars, err := c.provider.DailyBars(ctx, c.symbol, Between(window.From, window.To))
	if err != nil {
		return benchmarkResult{}, fmt.Errorf("fetching %s bars: %w", c.symbol, err)
	}
	var closes date.History[float64]
	for _, b := range bars {
		closes.Append(b.Date, b.Close)
	}
	if closes.Len() < 2 {
		return benchmarkResult{}, fmt.Errorf("%d bars for %s: %w", closes.Len(), c.symbol, ErrNoData)
	}
	change, ok := closes.Change()
	if !ok {
		return benchmarkResult{}, errors.New("first close is not positive")
	}
	return benchmarkResult{value: Percent(finite(change)), ok: true}, nil
}

// returns computes the returns of windows concurrently. Missing windows are
// absent from the result.
func (c *Comparator) returns(ctx context.Context, windows []date.Range) map[date.Range]Percent {
	var (
		mu  sync.Mutex
		out = make(map[date.Range]Percent, len(windows))
		g   errgroup.Group
	)
	g.SetLimit(c.concurrency)
	for _, w := range windows {
		g.Go(func() error {
			if r, ok := c.Return(ctx, w.From, w.To); ok {
				mu.Lock()
				out[w] = r
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// ForClosed returns a copy of closed with BenchmarkReturn filled for every
// position whose window has benchmark data.
func (c *Comparator) ForClosed(ctx context.Context, closed []ClosedPosition) []ClosedPosition {
	windows := make([]date.Range, 0, len(closed))
	for _, p := range closed {
		if !slices.Contains(windows, p.Window()) {
			windows = append(windows, p.Window())
		}
	}
	found := c.returns(ctx, windows)

	out := slices.Clone(closed)
	for i := range out {
		if r, ok := found[out[i].Window()]; ok {
			out[i].BenchmarkReturn = r.ptr()
		} else {
			out[i].BenchmarkReturn = nil
		}
	}
	return out
}

// ForOpen returns the benchmark return over [earliest open lot, asOf] of each
// open ticker of book. Tickers without data are absent.
func (c *Comparator) ForOpen(ctx context.Context, book *Book, asOf date.Date) map[string]Percent {
	if asOf.IsZero() {
		asOf = c.today()
	}
	windowOf := make(map[string]date.Range)
	var windows []date.Range
	for _, ticker := range book.Tickers() {
		l := book.Lots(ticker)
		if len(l) == 0 {
			continue
		}
		w := date.Range{From: l[0].OpenedAt, To: asOf}
		windowOf[ticker] = w
		if !slices.Contains(windows, w) {
			windows = append(windows, w)
		}
	}
	found := c.returns(ctx, windows)

	out := make(map[string]Percent, len(windowOf))
	for ticker, w := range windowOf {
		if r, ok := found[w]; ok {
			out[ticker] = r
		}
	}
	return out
}
