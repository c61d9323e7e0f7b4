package stocklog

import (
	"testing"
)

func ptrFloat(f float64) *float64 { return &f }

func TestValue(t *testing.T) {
	book, err := Match([]Transaction{
		buy("1", "2024-01-01", "AAPL", 10, 100),
		buy("2", "2024-02-01", "AAPL", 10, 120),
		buy("3", "2024-02-15", "MSFT", 4, 250),
	}, MatchOptions{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	snap := &Snapshot{
		Quotes: map[string]Quote{
			"AAPL": {
				Ticker:        "AAPL",
				CurrentPrice:  USD(132),
				Change:        USD(2),
				ChangePercent: 1.5,
				Volume:        1000,
				PERatio:       ptrFloat(30),
				IndustryPE:    ptrFloat(25),
				Sector:        "Technology",
				Beta:          ptrFloat(1.2),
			},
		},
		Benchmarks: map[string]Percent{"AAPL": 5},
	}

	positions := Value(book, snap, day("2024-03-01"))
	if len(positions) != 2 {
		t.Fatalf("Value() returned %d positions, want 2", len(positions))
	}

	aapl := positions[0]
	if aapl.Ticker != "AAPL" || !aapl.Quoted {
		t.Fatalf("positions[0] = %s (quoted %v), want quoted AAPL", aapl.Ticker, aapl.Quoted)
	}
	checks := []struct {
		name string
		got  Money
		want float64
	}{
		{"AvgCost", aapl.AvgCost, 110},
		{"CostBasis", aapl.CostBasis, 2200},
		{"CurrentValue", aapl.CurrentValue, 2640},
		{"DollarChange", aapl.DollarChange, 440},
		{"DayChange", aapl.DayChange, 2},
	}
	for _, c := range checks {
		if !c.got.Equal(USD(c.want)) {
			t.Errorf("AAPL %s = %s, want %v", c.name, c.got, c.want)
		}
	}
	if !aapl.PercentChange.Equal(20) {
		t.Errorf("AAPL PercentChange = %v, want 20", aapl.PercentChange)
	}
	if aapl.HoldingDays != 60 || aapl.Lots != 2 || aapl.EarliestOpenedAt != day("2024-01-01") {
		t.Errorf("AAPL holding = %d days, %d lots since %s, want 60 days, 2 lots since 2024-01-01", aapl.HoldingDays, aapl.Lots, aapl.EarliestOpenedAt)
	}
	if aapl.PEDeviation == nil || !aapl.PEDeviation.Equal(20) {
		t.Errorf("AAPL PEDeviation = %v, want 20", aapl.PEDeviation)
	}
	if aapl.Sector != "Technology" || aapl.Industry != UnknownGroup {
		t.Errorf("AAPL groups = %q/%q, want Technology/%s", aapl.Sector, aapl.Industry, UnknownGroup)
	}
	if alpha, ok := aapl.Alpha(); !ok || !alpha.Equal(15) {
		t.Errorf("AAPL Alpha() = %v, %v, want 15, true", alpha, ok)
	}

	msft := positions[1]
	if msft.Quoted {
		t.Error("MSFT is quoted without a quote")
	}
	if !msft.CurrentValue.Equal(msft.CostBasis) || !msft.DollarChange.IsZero() || msft.PercentChange != 0 {
		t.Errorf("unquoted MSFT = value %s, cost %s, change %v, want valued at cost", msft.CurrentValue, msft.CostBasis, msft.PercentChange)
	}
	if _, ok := msft.Alpha(); ok {
		t.Error("MSFT Alpha() is available without a benchmark return")
	}
}

func TestValue_NilSnapshot(t *testing.T) {
	book, err := Match([]Transaction{buy("1", "2024-01-01", "AAPL", 3, 10)}, MatchOptions{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	positions := Value(book, nil, day("2024-01-01"))
	if len(positions) != 1 || positions[0].Quoted || positions[0].HoldingDays != 0 {
		t.Errorf("Value(nil snapshot) = %+v, want one unquoted position", positions)
	}
}

func TestValue_RepeatingDecimalCost(t *testing.T) {
	book, err := Match([]Transaction{
		buy("1", "2024-01-01", "AAPL", 1, 10),
		buy("2", "2024-01-02", "AAPL", 2, 10.01),
	}, MatchOptions{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	p := Value(book, nil, day("2024-01-03"))[0]
	if !p.DollarChange.IsZero() || p.PercentChange != 0 {
		t.Errorf("position valued at cost shows a change of %s (%v)", p.DollarChange, p.PercentChange)
	}
}

func TestSetPrice_ZeroCost(t *testing.T) {
	var p OpenPosition
	p.setPrice(USD(10))
	if p.PercentChange != 0 {
		t.Errorf("PercentChange = %v with a zero cost basis, want 0", p.PercentChange)
	}
}
