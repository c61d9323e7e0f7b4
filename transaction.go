package stocklog

import (
	"fmt"
	"strings"

	"github.com/etnz/stocklog/date"
	"github.com/google/uuid"
)

// Kind is the type of a transaction.
type Kind int

const (
	Buy Kind = iota + 1
	Sell
	Dividend
)

func (k Kind) String() string {
	switch k {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Dividend:
		return "dividend"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses "buy", "sell" or "dividend", case insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	case "dividend":
		return Dividend, nil
	default:
		return 0, fmt.Errorf("unknown transaction type %q", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < Buy || k > Dividend {
		return nil, fmt.Errorf("cannot marshal unknown transaction type %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Transaction is a single trade event. It is immutable once recorded, edits
// replace it by ID.
type Transaction struct {
	ID     string    `json:"id"`
	Date   date.Date `json:"date"`
	Ticker string    `json:"ticker"`
	Kind   Kind      `json:"type"`
	Price  Money     `json:"price"`  // per share
	Shares Quantity  `json:"shares"` // quantity traded
}

// NewID returns a fresh opaque transaction id.
func NewID() string { return uuid.NewString() }

// NewBuy creates a new Buy transaction with a fresh ID.
func NewBuy(day date.Date, ticker string, shares Quantity, price Money) Transaction {
	return Transaction{ID: NewID(), Date: day, Ticker: ticker, Kind: Buy, Price: price, Shares: shares}
}

// NewSell creates a new Sell transaction with a fresh ID.
func NewSell(day date.Date, ticker string, shares Quantity, price Money) Transaction {
	return Transaction{ID: NewID(), Date: day, Ticker: ticker, Kind: Sell, Price: price, Shares: shares}
}

// NewDividend creates a new Dividend transaction with a fresh ID.
func NewDividend(day date.Date, ticker string, shares Quantity, price Money) Transaction {
	return Transaction{ID: NewID(), Date: day, Ticker: ticker, Kind: Dividend, Price: price, Shares: shares}
}

// Equal reports whether t and u are the same transaction with the same values.
func (t Transaction) Equal(u Transaction) bool {
	return t.ID == u.ID && t.Date == u.Date && t.Ticker == u.Ticker && t.Kind == u.Kind &&
		t.Price.Equal(u.Price) && t.Shares.Equal(u.Shares)
}

// Total returns price * shares.
func (t Transaction) Total() Money { return t.Price.Mul(t.Shares) }

// Normalize returns a copy with a trimmed upper case ticker.
func (t Transaction) Normalize() Transaction {
	t.Ticker = strings.ToUpper(strings.TrimSpace(t.Ticker))
	return t
}

// Validate checks the transaction invariants. The returned error, if any, is
// an *InvalidTransactionError.
func (t Transaction) Validate() error {
	invalid := func(field, reason string) error {
		return &InvalidTransactionError{ID: t.ID, Field: field, Reason: reason}
	}
	switch {
	case t.ID == "":
		return invalid("id", "is missing")
	case t.Date.IsZero():
		return invalid("date", "is missing")
	case t.Ticker == "":
		return invalid("ticker", "is missing")
	case t.Ticker != strings.ToUpper(t.Ticker):
		return invalid("ticker", fmt.Sprintf("%q must be upper case", t.Ticker))
	case t.Kind != Buy && t.Kind != Sell && t.Kind != Dividend:
		return invalid("type", fmt.Sprintf("%v is not buy, sell or dividend", t.Kind))
	case !t.Price.IsPositive():
		return invalid("price", fmt.Sprintf("must be positive, got %s", t.Price.Decimal()))
	case !t.Shares.IsPositive():
		return invalid("shares", fmt.Sprintf("must be positive, got %s", t.Shares))
	}
	return nil
}
