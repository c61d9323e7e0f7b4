package stocklog

import (
	"context"

	"github.com/etnz/stocklog/date"
)

// Bar is one day of OHLCV market data.
type Bar struct {
	Date   date.Date `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Window selects the days of a DailyBars request. An explicit From/To takes
// precedence over the Preset.
type Window struct {
	Preset   date.Preset
	From, To date.Date
}

// Between returns the window covering [from, to].
func Between(from, to date.Date) Window { return Window{From: from, To: to} }

// Last returns the window covering the preset ending today.
func Last(p date.Preset) Window { return Window{Preset: p} }

// Range resolves the window against today.
func (w Window) Range(today date.Date) date.Range {
	if !w.From.IsZero() {
		to := w.To
		if to.IsZero() {
			to = today
		}
		return date.Range{From: w.From, To: to}
	}
	return w.Preset.Range(today)
}

// Provider is a source of market data.
//
// Implementations return an error for any failure, ErrNoData when the request
// succeeded without usable data. Callers never let that error fail the
// valuation of other tickers.
type Provider interface {
	DailyBars(ctx context.Context, ticker string, w Window) ([]Bar, error)
	Quote(ctx context.Context, ticker string) (Quote, error)
}
