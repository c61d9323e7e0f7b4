package stocklog

import (
	"context"
	"fmt"

	"github.com/etnz/stocklog/date"
)

// TrackerOptions gathers the tunables of every stage.
type TrackerOptions struct {
	Match   MatchOptions
	Metrics MetricsOptions
}

// Tracker wires the ledger, the market data and the computation stages
// together. Refresher and Comparator are optional: without them positions are
// valued at cost and alpha is unavailable.
type Tracker struct {
	Journal    *Journal
	Refresher  *Refresher
	Comparator *Comparator
	Options    TrackerOptions
}

// Report is the state of the portfolio on a given day.
type Report struct {
	AsOf     date.Date
	Snapshot *Snapshot // nil when no market data was available
	Book     *Book
	Open     []OpenPosition
	Closed   []ClosedPosition
	Metrics  Metrics
	Warnings []Warning
}

// Book lists the ledger and matches its lots.
func (t *Tracker) Book(ctx context.Context) (*Book, error) {
	return t.book(ctx)
}

// book matches the lots of the transactions kept by filters.
func (t *Tracker) book(ctx context.Context, filters ...func(Transaction) bool) (*Book, error) {
	txs, err := t.Journal.List(ctx, filters...)
	if err != nil {
		return nil, err
	}
	book, err := Match(txs, t.Options.Match)
	if err != nil {
		return nil, fmt.Errorf("matching lots: %w", err)
	}
	return book, nil
}

// Report computes the portfolio report as of asOf, transactions recorded
// after asOf are ignored. It refreshes the market data first when no snapshot
// has been installed yet.
//
// Only a ledger that cannot be read or holds an invalid transaction fails
// the report, market data problems are reported as warnings.
func (t *Tracker) Report(ctx context.Context, asOf date.Date) (*Report, error) {
	book, err := t.book(ctx, Within(date.Range{To: asOf}))
	if err != nil {
		return nil, err
	}

	var snap *Snapshot
	if t.Refresher != nil {
		if snap = t.Refresher.Snapshot(); snap == nil {
			t.Refresher.Refresh(ctx, book)
			snap = t.Refresher.Snapshot()
		}
	}

	r := &Report{
		AsOf:     asOf,
		Snapshot: snap,
		Book:     book,
		Open:     Value(book, snap, asOf),
		Closed:   book.Closed,
		Warnings: append([]Warning(nil), book.Warnings...),
	}
	if t.Comparator != nil {
		r.Closed = t.Comparator.ForClosed(ctx, book.Closed)
	}
	r.Metrics = Compute(r.Open, r.Closed, t.Options.Metrics)
	r.Metrics.Dividends = book.DividendIncome()

	for _, p := range r.Open {
		if !p.Quoted {
			r.Warnings = append(r.Warnings, Warning{
				Kind:    MarketDataUnavailable,
				Ticker:  p.Ticker,
				Message: "no quote, valued at average cost",
			})
		}
		if t.benchmarked() && p.BenchmarkReturn == nil {
			r.Warnings = append(r.Warnings, Warning{
				Kind:    BenchmarkUnavailable,
				Ticker:  p.Ticker,
				Message: fmt.Sprintf("no benchmark return since %s", p.EarliestOpenedAt),
			})
		}
	}
	if t.Comparator != nil {
		for _, c := range r.Closed {
			if c.BenchmarkReturn == nil {
				r.Warnings = append(r.Warnings, Warning{
					Kind:          BenchmarkUnavailable,
					Ticker:        c.Ticker,
					TransactionID: c.SellID,
					Message:       fmt.Sprintf("no benchmark return over %s", c.Window()),
				})
			}
		}
	}
	return r, nil
}

// benchmarked reports whether open positions are expected to carry a benchmark return.
func (t *Tracker) benchmarked() bool {
	return t.Refresher != nil && t.Refresher.comparator != nil
}
