package stocklog

import (
	"github.com/etnz/stocklog/date"
)

// Lot is the still unmatched part of a single buy, used for cost basis calculations.
type Lot struct {
	Ticker        string    `json:"ticker"`
	Price         Money     `json:"price"`  // cost basis per share
	Shares        Quantity  `json:"shares"` // remaining
	OpenedAt      date.Date `json:"openedAt"`
	TransactionID string    `json:"transactionId"`
}

// Cost returns the cost basis of the remaining shares.
func (l Lot) Cost() Money { return l.Price.Mul(l.Shares) }

// HoldingDays returns the number of days the lot has been held on asOf.
func (l Lot) HoldingDays(asOf date.Date) int { return asOf.DaysSince(l.OpenedAt) }

// lots is a FIFO queue of lots for a single ticker, oldest first.
type lots []Lot

// sell consumes quantityToSell from the head of the queue using the FIFO method.
//
// It returns the remaining queue, the consumed portions (one per lot touched,
// with Shares set to the matched quantity) and the quantity that could not be
// matched because the queue ran out. The receiver is left untouched.
func (l lots) sell(quantityToSell Quantity) (remaining lots, matched []Lot, unmatched Quantity) {
	for i, currentLot := range l {
		if quantityToSell.IsZero() {
			remaining = append(remaining, l[i:]...)
			return remaining, matched, quantityToSell
		}
		portion := currentLot
		portion.Shares = currentLot.Shares.Min(quantityToSell)
		matched = append(matched, portion)
		quantityToSell = quantityToSell.Sub(portion.Shares)

		if left := currentLot.Shares.Sub(portion.Shares); left.IsPositive() {
			// Partial sale from this lot
			currentLot.Shares = left
			remaining = append(remaining, currentLot)
		}
	}
	return remaining, matched, quantityToSell
}

// shares returns the total remaining shares.
func (l lots) shares() Quantity {
	var total Quantity
	for _, lot := range l {
		total = total.Add(lot.Shares)
	}
	return total
}

// cost returns the total cost basis of the remaining shares.
func (l lots) cost() Money {
	var total Money
	for _, lot := range l {
		total = total.Add(lot.Cost())
	}
	return total
}
