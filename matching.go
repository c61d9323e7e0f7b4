package stocklog

import (
	"fmt"
	"slices"

	"github.com/etnz/stocklog/date"
)

// ClosedPosition records shares matched between one buy lot and one sell.
type ClosedPosition struct {
	Ticker          string    `json:"ticker"`
	OpenedAt        date.Date `json:"openedAt"`
	ClosedAt        date.Date `json:"closedAt"`
	EntryPrice      Money     `json:"entryPrice"`
	ExitPrice       Money     `json:"exitPrice"`
	Shares          Quantity  `json:"shares"`
	Profit          Money     `json:"profit"`
	PercentChange   Percent   `json:"percentChange"`
	HoldingDays     int       `json:"holdingDays"`
	BenchmarkReturn *Percent  `json:"benchmarkReturn"`
	BuyID           string    `json:"buyId"`
	SellID          string    `json:"sellId"`
}

// Alpha returns the return in excess of the benchmark over the same window.
// ok is false when no benchmark return is known.
func (c ClosedPosition) Alpha() (alpha Percent, ok bool) {
	if c.BenchmarkReturn == nil {
		return 0, false
	}
	return c.PercentChange - *c.BenchmarkReturn, true
}

// Window returns the holding window of the position.
func (c ClosedPosition) Window() date.Range { return date.Range{From: c.OpenedAt, To: c.ClosedAt} }

func newClosedPosition(lot Lot, sell Transaction) ClosedPosition {
	return ClosedPosition{
		Ticker:        lot.Ticker,
		OpenedAt:      lot.OpenedAt,
		ClosedAt:      sell.Date,
		EntryPrice:    lot.Price,
		ExitPrice:     sell.Price,
		Shares:        lot.Shares,
		Profit:        sell.Price.Sub(lot.Price).Mul(lot.Shares),
		PercentChange: Percent(finite((sell.Price.Ratio(lot.Price) - 1) * 100)),
		HoldingDays:   sell.Date.DaysSince(lot.OpenedAt),
		BuyID:         lot.TransactionID,
		SellID:        sell.ID,
	}
}

// MatchOptions tunes the lot matching engine.
type MatchOptions struct {
	// TolerateOverSell keeps matching later sells of a ticker after one of its
	// sells exceeded the holding. By default the ticker's later sells are
	// skipped until the ledger is corrected.
	TolerateOverSell bool
}

// Book is the outcome of matching a list of transactions: the open lots per
// ticker and the closed positions.
type Book struct {
	OpenLots  map[string][]Lot
	Closed    []ClosedPosition
	Dividends []Transaction
	Warnings  []Warning

	order []string // open tickers, in insertion order
}

// Tickers returns the open tickers in the order they were opened. A ticker
// fully closed then bought again moves to the end.
func (b *Book) Tickers() []string { return slices.Clone(b.order) }

// Lots returns the open lots of ticker, oldest first.
func (b *Book) Lots(ticker string) []Lot { return b.OpenLots[ticker] }

// Position returns the number of shares held for ticker.
func (b *Book) Position(ticker string) Quantity { return lots(b.OpenLots[ticker]).shares() }

// DividendIncome returns the total amount received in dividends.
func (b *Book) DividendIncome() Money {
	var total Money
	for _, tx := range b.Dividends {
		total = total.Add(tx.Total())
	}
	return total
}

func (b *Book) buy(tx Transaction) {
	if _, open := b.OpenLots[tx.Ticker]; !open {
		b.order = append(b.order, tx.Ticker)
	}
	b.OpenLots[tx.Ticker] = append(b.OpenLots[tx.Ticker], Lot{
		Ticker:        tx.Ticker,
		Price:         tx.Price,
		Shares:        tx.Shares,
		OpenedAt:      tx.Date,
		TransactionID: tx.ID,
	})
}

// sell matches tx against the ticker's queue and returns the unmatched quantity.
func (b *Book) sell(tx Transaction) Quantity {
	remaining, matched, unmatched := lots(b.OpenLots[tx.Ticker]).sell(tx.Shares)
	for _, portion := range matched {
		b.Closed = append(b.Closed, newClosedPosition(portion, tx))
	}
	if len(remaining) > 0 {
		b.OpenLots[tx.Ticker] = remaining
		return unmatched
	}
	if _, open := b.OpenLots[tx.Ticker]; open {
		delete(b.OpenLots, tx.Ticker)
		b.order = slices.DeleteFunc(b.order, func(t string) bool { return t == tx.Ticker })
	}
	return unmatched
}

// Match replays transactions in chronological order and matches sells
// against the oldest open lots first (FIFO).
//
// Transactions on the same day keep their input order. Match never modifies
// txs, running it twice yields identical books. Transactions must be valid,
// the first invalid one aborts matching with an error wrapping
// ErrInvalidTransaction.
//
// A sell exceeding the held shares matches what is held and adds an OverSell
// warning, see MatchOptions for how later sells of that ticker are handled.
func Match(txs []Transaction, opts MatchOptions) (*Book, error) {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
	}

	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.Date.Compare(b.Date) })

	b := &Book{OpenLots: make(map[string][]Lot)}
	halted := make(map[string]string) // ticker -> id of the offending sell

	for _, tx := range sorted {
		switch tx.Kind {
		case Buy:
			b.buy(tx)
		case Sell:
			if offending, ok := halted[tx.Ticker]; ok {
				b.Warnings = append(b.Warnings, Warning{
					Kind:          OverSell,
					Ticker:        tx.Ticker,
					TransactionID: tx.ID,
					Message:       fmt.Sprintf("sell of %s skipped: matching halted after over-sell %s", tx.Shares, offending),
				})
				continue
			}
			held := b.Position(tx.Ticker)
			unmatched := b.sell(tx)
			if unmatched.IsPositive() {
				b.Warnings = append(b.Warnings, Warning{
					Kind:          OverSell,
					Ticker:        tx.Ticker,
					TransactionID: tx.ID,
					Message:       fmt.Sprintf("sell of %s on %s exceeds the %s shares held, %s unmatched", tx.Shares, tx.Date, held, unmatched),
				})
				if !opts.TolerateOverSell {
					halted[tx.Ticker] = tx.ID
				}
			}
		case Dividend:
			b.Dividends = append(b.Dividends, tx)
		}
	}
	return b, nil
}
