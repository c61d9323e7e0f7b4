package stocklog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/stocklog/date"
)

// USD is a helper for test to create money from const
func USD(v float64) Money { return M(v) }

// day is a helper for test to parse a date from const
func day(s string) date.Date { return date.MustParse(s) }

func buy(id, on, ticker string, shares, price float64) Transaction {
	return Transaction{ID: id, Date: day(on), Ticker: ticker, Kind: Buy, Shares: Q(shares), Price: M(price)}
}

func sell(id, on, ticker string, shares, price float64) Transaction {
	return Transaction{ID: id, Date: day(on), Ticker: ticker, Kind: Sell, Shares: Q(shares), Price: M(price)}
}

func dividend(id, on, ticker string, shares, price float64) Transaction {
	return Transaction{ID: id, Date: day(on), Ticker: ticker, Kind: Dividend, Shares: Q(shares), Price: M(price)}
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(on string) *fakeClock { return &fakeClock{now: day(on).Time()} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeProvider serves canned bars and quotes and counts requests.
type fakeProvider struct {
	mu     sync.Mutex
	bars   map[string][]Bar // by ticker
	quotes map[string]Quote
	err    error // returned by every call when set

	barCalls   int
	quoteCalls int
}

func (p *fakeProvider) DailyBars(ctx context.Context, ticker string, w Window) ([]Bar, error) {
	p.mu.Lock()
	p.barCalls++
	err := p.err
	all := p.bars[ticker]
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := w.Range(date.Today())
	var out []Bar
	for _, b := range all {
		if r.Contains(b.Date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (p *fakeProvider) Quote(ctx context.Context, ticker string) (Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quoteCalls++
	if p.err != nil {
		return Quote{}, p.err
	}
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	q, ok := p.quotes[ticker]
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	return q, nil
}

func (p *fakeProvider) calls() (bars, quotes int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.barCalls, p.quoteCalls
}

// spyBars returns one bar per listed day with the given closes.
func spyBars(closes map[string]float64) []Bar {
	var bars []Bar
	for on, c := range closes {
		bars = append(bars, Bar{Date: day(on), Close: c})
	}
	return bars
}
