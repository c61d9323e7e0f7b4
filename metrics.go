package stocklog

import (
	"cmp"
	"math"
	"slices"

	"github.com/etnz/stocklog/date"
)

// DefaultRiskFreeRate is the annual risk free rate, in percent, used by the Sharpe ratio.
const DefaultRiskFreeRate = 2.5

// MetricsOptions tunes Compute.
type MetricsOptions struct {
	RiskFreeRate float64 // in percent
}

// Totals are the money totals of a portfolio.
type Totals struct {
	TotalValue       Money   `json:"totalValue"`
	TotalCost        Money   `json:"totalCost"`
	RealizedProfit   Money   `json:"realizedProfit"`
	UnrealizedProfit Money   `json:"unrealizedProfit"`
	TotalReturn      Percent `json:"totalReturn"`
	Dividends        Money   `json:"dividends"`
}

// Group aggregates the open positions sharing a sector or an industry.
type Group struct {
	Name       string  `json:"name"`
	Value      Money   `json:"value"`
	Allocation Percent `json:"allocation"` // share of the total value
	MeanReturn Percent `json:"meanReturn"`
	Positions  int     `json:"positions"`
}

// RealizedPoint is a step of the cumulative realized profit curve.
type RealizedPoint struct {
	Date   date.Date `json:"date"`
	Value  Money     `json:"value"`  // realized profit up to Date
	Return Percent   `json:"return"` // of the position closed on that step
}

// Metrics are the portfolio wide performance and risk figures. Every field
// is finite, ratios with a zero denominator fall back to 0.
type Metrics struct {
	Totals

	Wins                  int     `json:"wins"`
	Losses                int     `json:"losses"`
	WinRate               Percent `json:"winRate"`
	AvgWinPercent         Percent `json:"avgWinPercent"`
	AvgLossPercent        Percent `json:"avgLossPercent"`
	AvgHoldingDaysWinners int     `json:"avgHoldingDaysWinners"`

	AvgHoldingDaysOpen int `json:"avgHoldingDaysOpen"`
	LongTerm           int `json:"longTerm"`   // open positions held a year or more
	MediumTerm         int `json:"mediumTerm"` // from 180 days to a year
	ShortTerm          int `json:"shortTerm"`  // less than 180 days

	MaxDrawdown   Percent `json:"maxDrawdown"`
	PortfolioBeta float64 `json:"portfolioBeta"`
	SharpeRatio   float64 `json:"sharpeRatio"`
	RiskScore     float64 `json:"riskScore"`

	Sectors               []Group `json:"sectors"`
	Industries            []Group `json:"industries"`
	SectorConcentration   float64 `json:"sectorConcentration"`
	IndustryConcentration float64 `json:"industryConcentration"`

	CumulativeRealized []RealizedPoint `json:"cumulativeRealized"`

	best, worst *OpenPosition
}

// BestPerformer returns the open position with the highest percent change.
func (m Metrics) BestPerformer() (OpenPosition, bool) {
	if m.best == nil {
		return OpenPosition{}, false
	}
	return *m.best, true
}

// WorstPerformer returns the open position with the lowest percent change.
func (m Metrics) WorstPerformer() (OpenPosition, bool) {
	if m.worst == nil {
		return OpenPosition{}, false
	}
	return *m.worst, true
}

// Compute aggregates open and closed positions into portfolio metrics. It is
// a pure function of its inputs.
func Compute(open []OpenPosition, closed []ClosedPosition, opts MetricsOptions) Metrics {
	var m Metrics
	m.Totals = computeTotals(open, closed)
	m.computeTrades(closed)
	m.computeHoldings(open)
	m.MaxDrawdown = maxDrawdown(open)
	m.PortfolioBeta = portfolioBeta(open, m.TotalValue)
	m.SharpeRatio = sharpeRatio(open, opts.RiskFreeRate)
	m.Sectors, m.SectorConcentration = groupBy(open, m.TotalValue, func(p OpenPosition) string { return p.Sector })
	m.Industries, m.IndustryConcentration = groupBy(open, m.TotalValue, func(p OpenPosition) string { return p.Industry })
	if len(open) > 0 {
		volatility := math.Min(float64(m.MaxDrawdown)/20, 1)
		beta := math.Min(math.Abs(m.PortfolioBeta-1), 1)
		concentration := math.Min(float64(len(m.Industries))/10, 1)
		m.RiskScore = finite((volatility + beta + concentration) / 3 * 100)
	}
	m.CumulativeRealized = cumulativeRealized(closed)
	return m
}

func computeTotals(open []OpenPosition, closed []ClosedPosition) Totals {
	var t Totals
	for _, p := range open {
		t.TotalValue = t.TotalValue.Add(p.CurrentValue)
		t.TotalCost = t.TotalCost.Add(p.CostBasis)
		t.UnrealizedProfit = t.UnrealizedProfit.Add(p.DollarChange)
	}
	for _, c := range closed {
		t.RealizedProfit = t.RealizedProfit.Add(c.Profit)
	}
	if t.TotalCost.IsPositive() {
		t.TotalReturn = Percent(finite((t.TotalValue.Add(t.RealizedProfit).Ratio(t.TotalCost) - 1) * 100))
	}
	return t
}

// computeTrades fills the win/loss statistics. Flat trades count neither as
// a win nor as a loss.
func (m *Metrics) computeTrades(closed []ClosedPosition) {
	var winPct, lossPct float64
	var winDays int
	for _, c := range closed {
		switch {
		case c.Profit.IsPositive():
			m.Wins++
			winPct += float64(c.PercentChange)
			winDays += c.HoldingDays
		case c.Profit.IsNegative():
			m.Losses++
			lossPct += float64(c.PercentChange)
		}
	}
	if m.Wins+m.Losses > 0 {
		m.WinRate = Percent(float64(m.Wins) / float64(m.Wins+m.Losses) * 100)
	}
	if m.Wins > 0 {
		m.AvgWinPercent = Percent(winPct / float64(m.Wins))
		m.AvgHoldingDaysWinners = int(math.Floor(float64(winDays) / float64(m.Wins)))
	}
	if m.Losses > 0 {
		m.AvgLossPercent = Percent(lossPct / float64(m.Losses))
	}
}

func (m *Metrics) computeHoldings(open []OpenPosition) {
	var days int
	best, worst := -1, -1
	for i, p := range open {
		days += p.HoldingDays
		switch {
		case p.HoldingDays >= 365:
			m.LongTerm++
		case p.HoldingDays >= 180:
			m.MediumTerm++
		default:
			m.ShortTerm++
		}
		if best < 0 || p.PercentChange > open[best].PercentChange {
			best = i
		}
		if worst < 0 || p.PercentChange < open[worst].PercentChange {
			worst = i
		}
	}
	if len(open) == 0 {
		return
	}
	m.AvgHoldingDaysOpen = int(math.Floor(float64(days) / float64(len(open))))
	b, w := open[best], open[worst]
	m.best, m.worst = &b, &w
}

// maxDrawdown computes the largest peak to trough decline over the sequence
// of value/cost ratios of the open positions, taken in position order. The
// sequence is a proxy, not a chronological equity curve. Positions without
// a cost basis have no ratio and are skipped.
func maxDrawdown(open []OpenPosition) Percent {
	var values []float64
	for _, p := range open {
		if p.CostBasis.IsZero() {
			continue
		}
		values = append(values, p.CurrentValue.Ratio(p.CostBasis))
	}
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	if peak <= 0 {
		peak = 1
	}
	var drawdown float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
		drawdown = math.Max(drawdown, (peak-v)/peak*100)
	}
	return Percent(finite(drawdown))
}

// portfolioBeta is the value weighted mean beta, unknown betas count as 1.
func portfolioBeta(open []OpenPosition, total Money) float64 {
	if !total.IsPositive() {
		return 0
	}
	var beta float64
	for _, p := range open {
		b := 1.0
		if p.Beta != nil {
			b = *p.Beta
		}
		beta += b * p.CurrentValue.Ratio(total)
	}
	return finite(beta)
}

// sharpeRatio uses the open positions' percent changes as the return sample,
// with a population standard deviation.
func sharpeRatio(open []OpenPosition, riskFreeRate float64) float64 {
	if len(open) == 0 {
		return 0
	}
	var mean float64
	for _, p := range open {
		mean += float64(p.PercentChange)
	}
	mean /= float64(len(open))
	var variance float64
	for _, p := range open {
		d := float64(p.PercentChange) - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(open)))
	if stdDev == 0 {
		return 0
	}
	return finite((mean - riskFreeRate) / stdDev)
}

// groupBy aggregates positions by key and returns the groups, largest first,
// with their Herfindahl concentration.
func groupBy(open []OpenPosition, total Money, key func(OpenPosition) string) (groups []Group, concentration float64) {
	index := make(map[string]int)
	for _, p := range open {
		name := key(p)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		g := &groups[i]
		g.Value = g.Value.Add(p.CurrentValue)
		g.MeanReturn += p.PercentChange // sum for now
		g.Positions++
	}
	for i := range groups {
		g := &groups[i]
		g.MeanReturn = Percent(finite(float64(g.MeanReturn) / float64(g.Positions)))
		weight := g.Value.Ratio(total)
		g.Allocation = Percent(weight * 100)
		concentration += weight * weight
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := b.Value.Decimal().Cmp(a.Value.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return groups, finite(concentration)
}

// cumulativeRealized returns the running realized profit, by closing date.
func cumulativeRealized(closed []ClosedPosition) []RealizedPoint {
	sorted := slices.Clone(closed)
	slices.SortStableFunc(sorted, func(a, b ClosedPosition) int { return a.ClosedAt.Compare(b.ClosedAt) })
	points := make([]RealizedPoint, 0, len(sorted))
	var running Money
	for _, c := range sorted {
		running = running.Add(c.Profit)
		points = append(points, RealizedPoint{Date: c.ClosedAt, Value: running, Return: c.PercentChange})
	}
	return points
}
