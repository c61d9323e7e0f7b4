package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/stocklog"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the portfolio metrics of a report.
func SummaryMarkdown(r *stocklog.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	m := r.Metrics

	doc.H1(fmt.Sprintf("Portfolio Summary on %s", r.AsOf))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Total Value"), md.Bold(m.TotalValue.String())},
		Rows: [][]string{
			{"Total Cost", m.TotalCost.String()},
			{"Unrealized Gain / Loss", m.UnrealizedProfit.SignedString()},
			{"Realized Gain / Loss", m.RealizedProfit.SignedString()},
			{"Dividends", m.Dividends.String()},
			{"Total Return", m.TotalReturn.SignedString()},
		},
	})

	doc.H2("Trades")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Closed Trades", fmt.Sprint(m.Wins + m.Losses)},
		Rows: [][]string{
			{"Win Rate", m.WinRate.String()},
			{"Average Win", m.AvgWinPercent.SignedString()},
			{"Average Loss", m.AvgLossPercent.SignedString()},
			{"Average Holding of Winners", days(m.AvgHoldingDaysWinners)},
		},
	})

	doc.H2("Holdings")
	holdings := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Open Positions", fmt.Sprint(len(r.Open))},
		Rows: [][]string{
			{"Average Holding", days(m.AvgHoldingDaysOpen)},
			{"Long Term (1 year or more)", fmt.Sprint(m.LongTerm)},
			{"Medium Term (6 to 12 months)", fmt.Sprint(m.MediumTerm)},
			{"Short Term (less than 6 months)", fmt.Sprint(m.ShortTerm)},
		},
	}
	if best, ok := m.BestPerformer(); ok {
		holdings.Rows = append(holdings.Rows, []string{"Best Performer", fmt.Sprintf("%s %s", best.Ticker, best.PercentChange.SignedString())})
	}
	if worst, ok := m.WorstPerformer(); ok {
		holdings.Rows = append(holdings.Rows, []string{"Worst Performer", fmt.Sprintf("%s %s", worst.Ticker, worst.PercentChange.SignedString())})
	}
	doc.Table(holdings)

	doc.H2("Risk")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Risk Score", fmt.Sprintf("%.0f / 100", m.RiskScore)},
		Rows: [][]string{
			{"Max Drawdown", m.MaxDrawdown.String()},
			{"Portfolio Beta", fmt.Sprintf("%.2f", m.PortfolioBeta)},
			{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
			{"Sector Concentration", fmt.Sprintf("%.2f", m.SectorConcentration)},
			{"Industry Concentration", fmt.Sprintf("%.2f", m.IndustryConcentration)},
		},
	})

	if len(r.Warnings) > 0 {
		doc.H2("Warnings")
		items := make([]string, 0, len(r.Warnings))
		for _, w := range r.Warnings {
			items = append(items, w.String())
		}
		doc.BulletList(items...)
	}
	return doc.String()
}

// SectorsMarkdown renders the sector and industry allocation of a report.
func SectorsMarkdown(r *stocklog.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	groups := func(title string, gs []stocklog.Group, concentration float64) {
		doc.H2(title)
		if len(gs) == 0 {
			doc.PlainText("No open position.")
			return
		}
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Name", "Value", "Allocation", "Mean Return", "Positions"},
		}
		for _, g := range gs {
			table.Rows = append(table.Rows, []string{
				g.Name,
				g.Value.String(),
				g.Allocation.String(),
				g.MeanReturn.SignedString(),
				fmt.Sprint(g.Positions),
			})
		}
		doc.Table(table)
		doc.PlainText(fmt.Sprintf("Concentration: %.2f", concentration))
	}

	doc.H1(fmt.Sprintf("Allocation on %s", r.AsOf))
	groups("Sectors", r.Metrics.Sectors, r.Metrics.SectorConcentration)
	groups("Industries", r.Metrics.Industries, r.Metrics.IndustryConcentration)
	return doc.String()
}
