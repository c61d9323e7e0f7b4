package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/date"
)

// This file contains functions to access the EODHD API.

// DailyBars returns the end of day bars of ticker over w, oldest first.
func (c *Client) DailyBars(ctx context.Context, ticker string, w stocklog.Window) ([]stocklog.Bar, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-01-05&to=2024-02-10
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response.
	symbol := c.symbol(ticker)
	r := w.Range(c.today())
	query := url.Values{}
	query.Set("from", r.From.String())
	query.Set("to", r.To.String())
	query.Set("period", "d")

	type Info struct {
		Date   date.Date `json:"date"`
		Open   number    `json:"open"`
		High   number    `json:"high"`
		Low    number    `json:"low"`
		Close  number    `json:"close"`
		Volume number    `json:"volume"`
	}
	content := make([]Info, 0)
	if err := c.jwget(ctx, "/api/eod/"+url.PathEscape(symbol), query, &content); err != nil {
		return nil, fmt.Errorf("daily bars of %s: %w", symbol, err)
	}

	bars := make([]stocklog.Bar, 0, len(content))
	for _, info := range content {
		if !info.Close.valid {
			continue
		}
		bars = append(bars, stocklog.Bar{
			Date:   info.Date,
			Open:   info.Open.value,
			High:   info.High.value,
			Low:    info.Low.value,
			Close:  info.Close.value,
			Volume: int64(info.Volume.value),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("daily bars of %s over %s: %w", symbol, r, stocklog.ErrNoData)
	}
	slices.SortStableFunc(bars, func(a, b stocklog.Bar) int { return a.Date.Compare(b.Date) })
	return bars, nil
}

// Quote returns the latest quote of ticker, enriched with its fundamentals
// when they are available.
func (c *Client) Quote(ctx context.Context, ticker string) (stocklog.Quote, error) {
	symbol := c.symbol(ticker)
	if c.quotes != nil {
		if q, ok := c.quotes.Get(symbol); ok {
			return q.(stocklog.Quote), nil
		}
	}

	q, err := c.realTime(ctx, symbol)
	if err != nil {
		return stocklog.Quote{}, err
	}
	q.Ticker = ticker
	if err := c.fundamentals(ctx, symbol, &q); err != nil {
		// a price without fundamentals is still a quote.
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("fundamentals unavailable")
	}
	if c.quotes != nil {
		c.quotes.SetDefault(symbol, q)
	}
	return q, nil
}

// realTime fetches the delayed live price of symbol.
func (c *Client) realTime(ctx context.Context, symbol string) (stocklog.Quote, error) {
	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
	// {
	//	"code": "AAPL.US",
	//	"timestamp": 1710446400,
	//	"gmtoffset": 0,
	//	"open": 172.91,
	//	"high": 174.3078,
	//	"low": 172.05,
	//	"close": 173,
	//	"volume": 72913507,
	//	"previousClose": 171.13,
	//	"change": 1.87,
	//	"change_p": 1.0927
	// }
	// unknown values are reported as "NA".
	var info struct {
		Timestamp number `json:"timestamp"`
		High      number `json:"high"`
		Low       number `json:"low"`
		Close     number `json:"close"`
		Volume    number `json:"volume"`
		Change    number `json:"change"`
		ChangeP   number `json:"change_p"`
	}
	if err := c.jwget(ctx, realTimePath+url.PathEscape(symbol), nil, &info); err != nil {
		return stocklog.Quote{}, fmt.Errorf("quote of %s: %w", symbol, err)
	}
	if !info.Close.valid || info.Close.value <= 0 {
		return stocklog.Quote{}, fmt.Errorf("quote of %s: %w", symbol, stocklog.ErrNoData)
	}

	q := stocklog.Quote{
		CurrentPrice:  stocklog.M(info.Close.value),
		Change:        stocklog.M(info.Change.value),
		ChangePercent: stocklog.Percent(info.ChangeP.value),
		Volume:        int64(info.Volume.value),
		DayHigh:       stocklog.M(info.High.value),
		DayLow:        stocklog.M(info.Low.value),
	}
	if info.Timestamp.valid {
		q.AsOf = time.Unix(int64(info.Timestamp.value), 0).UTC()
	}
	return q, nil
}

// fundamentalPaths locates the enrichment fields in the fundamentals document.
var fundamentalPaths = struct {
	sector, industry, peRatio, forwardPE, beta string
}{
	sector:    "$.General.Sector",
	industry:  "$.General.Industry",
	peRatio:   "$.Highlights.PERatio",
	forwardPE: "$.Valuation.ForwardPE",
	beta:      "$.Technicals.Beta",
}

// fundamentals fills the sector, industry, P/E and beta of q.
func (c *Client) fundamentals(ctx context.Context, symbol string, q *stocklog.Quote) error {
	// https://eodhd.com/api/fundamentals/AAPL.US?api_token=demo&fmt=json
	// The document is large and loosely typed, each field is picked by path.
	var doc any
	if err := c.jwget(ctx, "/api/fundamentals/"+url.PathEscape(symbol), nil, &doc); err != nil {
		return fmt.Errorf("fundamentals of %s: %w", symbol, err)
	}
	q.Sector = lookupString(doc, fundamentalPaths.sector)
	q.Industry = lookupString(doc, fundamentalPaths.industry)
	q.PERatio = lookupNumber(doc, fundamentalPaths.peRatio)
	q.ForwardPE = lookupNumber(doc, fundamentalPaths.forwardPE)
	q.Beta = lookupNumber(doc, fundamentalPaths.beta)
	return nil
}

// lookup returns the value at path, the first one if path selects a list.
func lookup(doc any, path string) (any, bool) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, false
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, false
		}
		v = list[0]
	}
	return v, v != nil
}

func lookupString(doc any, path string) string {
	v, _ := lookup(doc, path)
	s, _ := v.(string)
	return s
}

// lookupNumber returns the number at path, nil when absent or zero.
func lookupNumber(doc any, path string) *float64 {
	v, ok := lookup(doc, path)
	if !ok {
		return nil
	}
	var n number
	switch x := v.(type) {
	case float64:
		n = number{value: x, valid: true}
	case string:
		_ = n.UnmarshalJSON([]byte(x))
	}
	if !n.valid || n.value == 0 {
		return nil
	}
	return n.ptr()
}
