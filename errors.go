package stocklog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransaction is wrapped by every ingestion rejection.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrNotFound is returned when editing or deleting an unknown transaction id.
	ErrNotFound = errors.New("transaction not found")
	// ErrNoData is returned by providers when a request succeeded but carried no usable data.
	ErrNoData = errors.New("no market data")
)

// InvalidTransactionError details which field of which transaction broke an invariant.
type InvalidTransactionError struct {
	ID     string
	Field  string
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid transaction: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid transaction %s: %s %s", e.ID, e.Field, e.Reason)
}

func (e *InvalidTransactionError) Unwrap() error { return ErrInvalidTransaction }

// WarningKind classifies non fatal conditions found while computing a portfolio.
type WarningKind int

const (
	// OverSell is a sell exceeding the shares held at that point in time.
	OverSell WarningKind = iota + 1
	// MarketDataUnavailable is a ticker valued without a quote.
	MarketDataUnavailable
	// BenchmarkUnavailable is a position without a benchmark return.
	BenchmarkUnavailable
)

func (k WarningKind) String() string {
	switch k {
	case OverSell:
		return "over-sell"
	case MarketDataUnavailable:
		return "market-data-unavailable"
	case BenchmarkUnavailable:
		return "benchmark-unavailable"
	default:
		return "unknown"
	}
}

// Warning is a reportable condition attached to a result instead of failing it.
type Warning struct {
	Kind          WarningKind
	Ticker        string
	TransactionID string // empty when not about a single transaction
	Message       string
}

func (w Warning) String() string {
	if w.TransactionID != "" {
		return fmt.Sprintf("%s: %s (%s): %s", w.Kind, w.Ticker, w.TransactionID, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Ticker, w.Message)
}
