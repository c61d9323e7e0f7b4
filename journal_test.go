package stocklog

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/stocklog/date"
)

func TestJournal_Add(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(NewMemoryStore())

	added, err := j.Add(ctx,
		Transaction{Date: day("2024-01-01"), Ticker: " aapl ", Kind: Buy, Shares: Q(10), Price: USD(100)},
		buy("given", "2024-01-02", "MSFT", 1, 400),
	)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if added[0].ID == "" || added[0].Ticker != "AAPL" {
		t.Errorf("Add() = %+v, want a generated id and a normalized ticker", added[0])
	}
	if added[1].ID != "given" {
		t.Errorf("Add() replaced the given id with %q", added[1].ID)
	}

	got, err := j.Get(ctx, added[0].ID)
	if err != nil || !got.Equal(added[0]) {
		t.Errorf("Get() = %+v, %v, want %+v", got, err, added[0])
	}
	if msft, _ := j.List(ctx, ByTicker("MSFT")); len(msft) != 1 {
		t.Errorf("List(ByTicker) = %v, want one transaction", msft)
	}
	if jan1, _ := j.List(ctx, Within(date.Range{To: day("2024-01-01")})); len(jan1) != 1 || jan1[0].Ticker != "AAPL" {
		t.Errorf("List(Within) = %v, want the AAPL transaction", jan1)
	}
}

func TestJournal_Rejects(t *testing.T) {
	ctx := context.Background()
	initial := buy("a", "2024-01-01", "AAPL", 10, 100)

	tests := []struct {
		name  string
		tx    Transaction
		field string
	}{
		{"zero shares", buy("b", "2024-01-02", "AAPL", 0, 100), "shares"},
		{"negative price", buy("b", "2024-01-02", "AAPL", 1, -1), "price"},
		{"missing date", Transaction{ID: "b", Ticker: "AAPL", Kind: Sell, Shares: Q(1), Price: USD(1)}, "date"},
		{"missing ticker", buy("b", "2024-01-02", "  ", 1, 1), "ticker"},
		{"unknown kind", Transaction{ID: "b", Date: day("2024-01-02"), Ticker: "AAPL", Shares: Q(1), Price: USD(1)}, "type"},
		{"duplicate id", buy("a", "2024-01-02", "AAPL", 1, 1), "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(initial)
			j := NewJournal(store)
			_, err := j.Add(ctx, buy("ok", "2024-01-03", "AAPL", 1, 1), tt.tx)
			if !errors.Is(err, ErrInvalidTransaction) {
				t.Fatalf("Add() error = %v, want ErrInvalidTransaction", err)
			}
			var invalid *InvalidTransactionError
			if !errors.As(err, &invalid) || invalid.Field != tt.field {
				t.Errorf("Add() error = %v, want a %s error", err, tt.field)
			}
			if txs, _ := store.List(ctx); len(txs) != 1 {
				t.Errorf("store holds %d transactions after a rejected Add(), want 1", len(txs))
			}
		})
	}
}

func TestJournal_Import(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(buy("a", "2024-01-01", "AAPL", 10, 100))
	j := NewJournal(store)

	incoming := []Transaction{buy("b", "2024-01-02", "MSFT", 1, 400)}
	if _, err := j.Import(ctx, incoming, false); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if txs, _ := j.List(ctx); len(txs) != 2 {
		t.Errorf("ledger holds %d transactions after appending, want 2", len(txs))
	}

	// importing the same file again collides on ids
	if _, err := j.Import(ctx, incoming, false); !errors.Is(err, ErrInvalidTransaction) {
		t.Errorf("Import() of duplicate ids error = %v, want ErrInvalidTransaction", err)
	}

	if _, err := j.Import(ctx, incoming, true); err != nil {
		t.Fatalf("Import(replace) error = %v", err)
	}
	txs, _ := j.List(ctx)
	if len(txs) != 1 || txs[0].ID != "b" {
		t.Errorf("ledger = %v after replacing, want only b", txs)
	}
}

func TestJournal_ReplaceDelete(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(NewMemoryStore(
		buy("a", "2024-01-01", "AAPL", 10, 100),
		sell("b", "2024-02-01", "AAPL", 5, 120),
	))

	edited := sell("b", "2024-02-01", "aapl", 4, 125)
	got, err := j.Replace(ctx, edited)
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got.Ticker != "AAPL" {
		t.Errorf("Replace() = %+v, want a normalized ticker", got)
	}
	if stored, _ := j.Get(ctx, "b"); !stored.Shares.Equal(Q(4)) {
		t.Errorf("stored shares = %s, want 4", stored.Shares)
	}

	if _, err := j.Replace(ctx, buy("a", "2024-01-01", "AAPL", -1, 100)); !errors.Is(err, ErrInvalidTransaction) {
		t.Errorf("Replace() with invalid values error = %v, want ErrInvalidTransaction", err)
	}
	if _, err := j.Replace(ctx, buy("zz", "2024-01-01", "AAPL", 1, 100)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace() of unknown id error = %v, want ErrNotFound", err)
	}

	if err := j.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := j.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := j.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() of deleted id error = %v, want ErrNotFound", err)
	}

	if err := j.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if txs, _ := j.List(ctx); len(txs) != 0 {
		t.Errorf("List() after Clear() = %v, want empty", txs)
	}
}
