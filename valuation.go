package stocklog

import (
	"time"

	"github.com/etnz/stocklog/date"
)

// UnknownGroup is the sector and industry of positions without fundamentals.
const UnknownGroup = "Unknown"

// Quote is the current market state and fundamental snapshot of a ticker.
type Quote struct {
	Ticker        string    `json:"ticker"`
	CurrentPrice  Money     `json:"currentPrice"`
	Change        Money     `json:"change"` // per share, since previous close
	ChangePercent Percent   `json:"changePercent"`
	Volume        int64     `json:"volume"`
	DayHigh       Money     `json:"dayHigh"`
	DayLow        Money     `json:"dayLow"`
	PERatio       *float64  `json:"peRatio"`
	ForwardPE     *float64  `json:"forwardPE"`
	IndustryPE    *float64  `json:"industryPE"`
	Sector        string    `json:"sector,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Beta          *float64  `json:"beta"`
	AsOf          time.Time `json:"asOf"`
}

// Snapshot is an immutable set of market data used for one valuation pass.
type Snapshot struct {
	AsOf   time.Time
	Quotes map[string]Quote
	// Benchmarks holds the benchmark return over each open ticker's holding window.
	Benchmarks map[string]Percent
}

// Quote returns the quote of ticker. It is safe to call on a nil Snapshot.
func (s *Snapshot) Quote(ticker string) (Quote, bool) {
	if s == nil {
		return Quote{}, false
	}
	q, ok := s.Quotes[ticker]
	return q, ok
}

// Benchmark returns the benchmark return for ticker's open window. It is safe
// to call on a nil Snapshot.
func (s *Snapshot) Benchmark(ticker string) (Percent, bool) {
	if s == nil {
		return 0, false
	}
	p, ok := s.Benchmarks[ticker]
	return p, ok
}

// OpenPosition is the currently held view of a ticker's remaining lots,
// valued against a Snapshot.
type OpenPosition struct {
	Ticker           string    `json:"ticker"`
	TotalShares      Quantity  `json:"totalShares"`
	AvgCost          Money     `json:"avgCost"`
	CostBasis        Money     `json:"costBasis"`
	EarliestOpenedAt date.Date `json:"earliestOpenedAt"`
	HoldingDays      int       `json:"holdingDays"`
	Lots             int       `json:"lots"`

	Quoted           bool     `json:"quoted"` // false when valued at cost for lack of a quote
	CurrentPrice     Money    `json:"currentPrice"`
	CurrentValue     Money    `json:"currentValue"`
	DollarChange     Money    `json:"dollarChange"`
	PercentChange    Percent  `json:"percentChange"`
	DayChange        Money    `json:"dayChange"`
	DayChangePercent Percent  `json:"dayChangePercent"`
	Volume           int64    `json:"volume"`
	PERatio          *float64 `json:"peRatio"`
	ForwardPE        *float64 `json:"forwardPE"`
	IndustryPE       *float64 `json:"industryPE"`
	PEDeviation      *Percent `json:"peDeviation"`
	Sector           string   `json:"sector"`
	Industry         string   `json:"industry"`
	Beta             *float64 `json:"beta"`
	BenchmarkReturn  *Percent `json:"benchmarkReturn"`
}

// Alpha returns the return in excess of the benchmark over the holding window.
// ok is false when no benchmark return is known.
func (p OpenPosition) Alpha() (alpha Percent, ok bool) {
	if p.BenchmarkReturn == nil {
		return 0, false
	}
	return p.PercentChange - *p.BenchmarkReturn, true
}

// Value turns the open lots of book into open positions, in book.Tickers()
// order. A ticker missing from snap is valued at its average cost, so it
// shows no gain nor loss. Value has no side effects.
func Value(book *Book, snap *Snapshot, asOf date.Date) []OpenPosition {
	positions := make([]OpenPosition, 0, len(book.order))
	for _, ticker := range book.order {
		l := lots(book.OpenLots[ticker])
		if len(l) == 0 {
			continue
		}
		pos := valueLots(ticker, l, asOf)
		if q, ok := snap.Quote(ticker); ok {
			pos.applyQuote(q)
		}
		if p, ok := snap.Benchmark(ticker); ok {
			pos.BenchmarkReturn = p.ptr()
		}
		positions = append(positions, pos)
	}
	return positions
}

// valueLots computes the cost side of a position and values it at cost.
func valueLots(ticker string, l lots, asOf date.Date) OpenPosition {
	pos := OpenPosition{
		Ticker:      ticker,
		TotalShares: l.shares(),
		CostBasis:   l.cost(),
		Lots:        len(l),
		Sector:      UnknownGroup,
		Industry:    UnknownGroup,
	}
	if !pos.TotalShares.IsZero() {
		pos.AvgCost = pos.CostBasis.Div(pos.TotalShares)
		// keep cost and value at cost strictly equal despite division rounding
		pos.CostBasis = pos.AvgCost.Mul(pos.TotalShares)
	}
	for _, lot := range l {
		if pos.EarliestOpenedAt.IsZero() || lot.OpenedAt.Before(pos.EarliestOpenedAt) {
			pos.EarliestOpenedAt = lot.OpenedAt
		}
	}
	pos.HoldingDays = asOf.DaysSince(pos.EarliestOpenedAt)
	pos.setPrice(pos.AvgCost)
	return pos
}

// setPrice derives the market value fields from a per share price.
func (p *OpenPosition) setPrice(price Money) {
	p.CurrentPrice = price
	p.CurrentValue = price.Mul(p.TotalShares)
	p.DollarChange = p.CurrentValue.Sub(p.CostBasis)
	p.PercentChange = 0
	if !p.CostBasis.IsZero() {
		p.PercentChange = Percent(finite((p.CurrentValue.Ratio(p.CostBasis) - 1) * 100))
	}
}

func (p *OpenPosition) applyQuote(q Quote) {
	p.Quoted = true
	p.setPrice(q.CurrentPrice)
	p.DayChange = q.Change
	p.DayChangePercent = Percent(finite(float64(q.ChangePercent)))
	p.Volume = q.Volume
	p.PERatio, p.ForwardPE, p.IndustryPE, p.Beta = q.PERatio, q.ForwardPE, q.IndustryPE, q.Beta
	if q.Sector != "" {
		p.Sector = q.Sector
	}
	if q.Industry != "" {
		p.Industry = q.Industry
	}
	if q.PERatio != nil && q.IndustryPE != nil && *q.IndustryPE != 0 {
		p.PEDeviation = Percent(finite((*q.PERatio / *q.IndustryPE - 1) * 100)).ptr()
	}
}
