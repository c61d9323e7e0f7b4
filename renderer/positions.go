package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/stocklog"
	md "github.com/nao1215/markdown"
)

// PositionsMarkdown renders the open positions of a report.
func PositionsMarkdown(r *stocklog.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Open Positions on %s", r.AsOf))
	if len(r.Open) == 0 {
		doc.PlainText("No open position.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft,
		},
		Header: []string{"Ticker", "Shares", "Avg Cost", "Price", "Value", "Gain / Loss", "Return", "Day", "Alpha", "Held", "Sector"},
	}
	atCost := false
	for _, p := range r.Open {
		price := p.CurrentPrice.String()
		if !p.Quoted {
			price += " *"
			atCost = true
		}
		table.Rows = append(table.Rows, []string{
			p.Ticker,
			p.TotalShares.String(),
			p.AvgCost.String(),
			price,
			p.CurrentValue.String(),
			p.DollarChange.SignedString(),
			p.PercentChange.SignedString(),
			p.DayChangePercent.SignedString(),
			alpha(p.Alpha()),
			days(p.HoldingDays),
			p.Sector,
		})
	}
	doc.Table(table)
	if atCost {
		doc.PlainText("\\* no quote available, valued at average cost.")
	}

	doc.H2("Valuation")
	// industry columns only show when a provider supplied an industry P/E.
	industry := false
	for _, p := range r.Open {
		if p.IndustryPE != nil {
			industry = true
			break
		}
	}
	valuation := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Ticker", "P/E", "Forward P/E"},
	}
	if industry {
		valuation.Alignment = append(valuation.Alignment, md.AlignRight, md.AlignRight)
		valuation.Header = append(valuation.Header, "Industry P/E", "P/E vs Industry")
	}
	valuation.Alignment = append(valuation.Alignment, md.AlignRight)
	valuation.Header = append(valuation.Header, "Beta")
	for _, p := range r.Open {
		row := []string{p.Ticker, optFloat(p.PERatio), optFloat(p.ForwardPE)}
		if industry {
			row = append(row, optFloat(p.IndustryPE), optPercent(p.PEDeviation))
		}
		valuation.Rows = append(valuation.Rows, append(row, optFloat(p.Beta)))
	}
	doc.Table(valuation)
	return doc.String()
}

// ClosedMarkdown renders the closed positions of a report, most recent first.
func ClosedMarkdown(r *stocklog.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Closed Positions")
	if len(r.Closed) == 0 {
		doc.PlainText("No closed position.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Ticker", "Opened", "Closed", "Shares", "Entry", "Exit", "Profit", "Return", "Benchmark", "Alpha", "Held"},
	}
	for i := len(r.Closed) - 1; i >= 0; i-- {
		c := r.Closed[i]
		table.Rows = append(table.Rows, []string{
			c.Ticker,
			c.OpenedAt.String(),
			c.ClosedAt.String(),
			c.Shares.String(),
			c.EntryPrice.String(),
			c.ExitPrice.String(),
			c.Profit.SignedString(),
			c.PercentChange.SignedString(),
			optPercent(c.BenchmarkReturn),
			alpha(c.Alpha()),
			days(c.HoldingDays),
		})
	}
	doc.Table(table)
	return doc.String()
}
