package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/date"
)

// sampleReport holds one quoted position, one valued at cost and one closed trade.
func sampleReport(t *testing.T) *stocklog.Report {
	t.Helper()
	txs := []stocklog.Transaction{
		stocklog.NewBuy(date.New(2024, 1, 2), "AAPL", stocklog.Q(10), stocklog.M(100)),
		stocklog.NewBuy(date.New(2024, 1, 3), "MSFT", stocklog.Q(5), stocklog.M(200)),
		stocklog.NewSell(date.New(2024, 3, 1), "AAPL", stocklog.Q(4), stocklog.M(150)),
	}
	book, err := stocklog.Match(txs, stocklog.MatchOptions{})
	if err != nil {
		t.Fatalf("Match() unexpected error = %v", err)
	}
	pe := 30.0
	snap := &stocklog.Snapshot{
		Quotes: map[string]stocklog.Quote{
			"AAPL": {Ticker: "AAPL", CurrentPrice: stocklog.M(120), Sector: "Technology", Industry: "Consumer Electronics", PERatio: &pe},
		},
		Benchmarks: map[string]stocklog.Percent{"AAPL": 5},
	}
	asOf := date.New(2024, 6, 1)
	open := stocklog.Value(book, snap, asOf)
	m := stocklog.Compute(open, book.Closed, stocklog.MetricsOptions{RiskFreeRate: stocklog.DefaultRiskFreeRate})
	return &stocklog.Report{
		AsOf:     asOf,
		Snapshot: snap,
		Book:     book,
		Open:     open,
		Closed:   book.Closed,
		Metrics:  m,
		Warnings: []stocklog.Warning{{Kind: stocklog.MarketDataUnavailable, Ticker: "MSFT", Message: "no quote"}},
	}
}

func TestMarkdown(t *testing.T) {
	r := sampleReport(t)
	tests := []struct {
		name string
		got  string
		want []string
	}{
		{
			name: "positions",
			got:  PositionsMarkdown(r),
			want: []string{"# Open Positions on 2024-06-01", "| AAPL", "+20.00%", "+15.00%", "$200.00 *", "valued at average cost", "30.00", "N/A"},
		},
		{
			name: "closed",
			got:  ClosedMarkdown(r),
			want: []string{"# Closed Positions", "2024-01-02", "2024-03-01", "+$200.00", "+50.00%", "59 days"},
		},
		{
			name: "summary",
			got:  SummaryMarkdown(r),
			want: []string{"# Portfolio Summary on 2024-06-01", "Win Rate", "100.00%", "Best Performer", "AAPL +20.00%", "## Warnings", "MSFT"},
		},
		{
			name: "sectors",
			got:  SectorsMarkdown(r),
			want: []string{"## Sectors", "Technology", "Unknown", "## Industries", "Concentration"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, w := range tt.want {
				if !strings.Contains(tt.got, w) {
					t.Errorf("output does not contain %q:\n%s", w, tt.got)
				}
			}
		})
	}
}

func TestPositionsMarkdown_IndustryColumns(t *testing.T) {
	r := sampleReport(t)
	if got := PositionsMarkdown(r); strings.Contains(got, "Industry P/E") {
		t.Errorf("PositionsMarkdown() shows industry columns without any industry P/E:\n%s", got)
	}

	industry, dev := 25.0, stocklog.Percent(20)
	r.Open[0].IndustryPE = &industry
	r.Open[0].PEDeviation = &dev
	got := PositionsMarkdown(r)
	for _, want := range []string{"Industry P/E", "P/E vs Industry", "25.00", "+20.00%"} {
		if !strings.Contains(got, want) {
			t.Errorf("PositionsMarkdown() does not contain %q:\n%s", want, got)
		}
	}
}

func TestMarkdown_Empty(t *testing.T) {
	book, _ := stocklog.Match(nil, stocklog.MatchOptions{})
	r := &stocklog.Report{AsOf: date.New(2024, 1, 1), Book: book}
	r.Metrics = stocklog.Compute(nil, nil, stocklog.MetricsOptions{})

	doc := ReportMarkdown(r)
	for _, want := range []string{"No open position.", "No closed position.", "0.00%"} {
		if !strings.Contains(doc, want) {
			t.Errorf("ReportMarkdown() does not contain %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "NaN") || strings.Contains(doc, "Inf") {
		t.Errorf("ReportMarkdown() leaks a non finite value:\n%s", doc)
	}
}

func TestTransactionsMarkdown(t *testing.T) {
	tx := stocklog.NewBuy(date.New(2024, 1, 2), "AAPL", stocklog.Q(10), stocklog.M(100))
	got := TransactionsMarkdown([]stocklog.Transaction{tx})
	for _, want := range []string{"# Transactions", tx.ID, "buy", "$1,000.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("TransactionsMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if got := Transaction(tx); got != "Bought 10 of AAPL at $100.00" {
		t.Errorf("Transaction() = %q", got)
	}
}

func TestHTML(t *testing.T) {
	page, err := HTML("P&L", ReportMarkdown(sampleReport(t)))
	if err != nil {
		t.Fatalf("HTML() unexpected error = %v", err)
	}
	for _, want := range []string{"<title>P&amp;L</title>", "<h1>Portfolio Summary on 2024-06-01</h1>", "<table>", "AAPL</td>"} {
		if !strings.Contains(page, want) {
			t.Errorf("HTML() does not contain %q", want)
		}
	}
}
