package stocklog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/etnz/stocklog/date"
	"github.com/etnz/stocklog/logging"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

// DefaultRefreshInterval is the market data polling period.
const DefaultRefreshInterval = 5 * time.Minute

// installedSnapshot is a snapshot tagged with the refresh that built it.
type installedSnapshot struct {
	generation uint64
	snapshot   *Snapshot
}

// Refresher builds market data snapshots and publishes them atomically.
//
// A snapshot is built completely before being installed, readers never see a
// partial one. When refreshes overlap, the result of an older refresh landing
// after a newer one was installed is dropped.
type Refresher struct {
	provider    Provider
	comparator  *Comparator // nil disables benchmark returns
	logger      *log.Logger
	now         func() time.Time
	concurrency int

	started atomic.Uint64
	current atomic.Pointer[installedSnapshot]
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// RefreshLogger sets the logger receiving per ticker failures.
func RefreshLogger(l *log.Logger) RefresherOption { return func(r *Refresher) { r.logger = l } }

// RefreshClock sets the clock stamping snapshots.
func RefreshClock(now func() time.Time) RefresherOption { return func(r *Refresher) { r.now = now } }

// RefreshConcurrency bounds the number of quotes fetched at once.
func RefreshConcurrency(n int) RefresherOption { return func(r *Refresher) { r.concurrency = n } }

// NewRefresher returns a Refresher fetching quotes from p and benchmark
// returns from c. c may be nil.
func NewRefresher(p Provider, c *Comparator, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		provider:    p,
		comparator:  c,
		now:         time.Now,
		concurrency: DefaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNop(r.logger)
	if r.concurrency <= 0 {
		r.concurrency = 1
	}
	return r
}

// Snapshot returns the installed snapshot, nil before the first refresh.
func (r *Refresher) Snapshot() *Snapshot {
	if cur := r.current.Load(); cur != nil {
		return cur.snapshot
	}
	return nil
}

// Refresh fetches a quote for every open ticker of book and the benchmark
// return over each ticker's holding window, then installs the new snapshot.
//
// A ticker whose fetch fails is left out of the snapshot. Refresh returns
// false when its snapshot was discarded, either because ctx was done before
// the fetches completed or because a more recent refresh had already been
// installed.
func (r *Refresher) Refresh(ctx context.Context, book *Book) bool {
	generation := r.started.Add(1)
	asOf := r.now()
	tickers := book.Tickers()

	snap := &Snapshot{
		AsOf:   asOf,
		Quotes: make(map[string]Quote, len(tickers)),
	}

	var wg sync.WaitGroup
	if r.comparator != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap.Benchmarks = r.comparator.ForOpen(ctx, book, date.Of(asOf))
		}()
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(r.concurrency)
	for _, ticker := range tickers {
		g.Go(func() error {
			q, err := r.provider.Quote(ctx, ticker)
			if err != nil {
				r.logger.Warn().Str("ticker", ticker).Err(err).Msg("quote unavailable")
				return nil
			}
			if q.Ticker == "" {
				q.Ticker = ticker
			}
			mu.Lock()
			snap.Quotes[ticker] = q
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		// the fetches failed because of ctx, not because data is missing.
		r.logger.Debug().Uint64("generation", generation).Err(err).Msg("cancelled snapshot discarded")
		return false
	}
	return r.install(generation, snap)
}

// install publishes snap unless a more recent refresh is already installed.
func (r *Refresher) install(generation uint64, snap *Snapshot) bool {
	next := &installedSnapshot{generation: generation, snapshot: snap}
	for {
		cur := r.current.Load()
		if cur != nil && cur.generation > generation {
			r.logger.Debug().Uint64("generation", generation).Msg("stale snapshot discarded")
			return false
		}
		if r.current.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Run refreshes immediately then every interval until ctx is done. book is
// called before each refresh, an error skips that round.
func (r *Refresher) Run(ctx context.Context, book func(context.Context) (*Book, error), interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		b, err := book(ctx)
		if err != nil {
			r.logger.Error().Err(err).Msg("cannot load the ledger, refresh skipped")
		} else {
			r.Refresh(ctx, b)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
