package stocklog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/etnz/stocklog/date"
)

// Journal is the ingestion boundary of the ledger: every transaction entering
// the Store through it is normalized and validated first. An invalid
// transaction rejects the whole operation and leaves the Store untouched.
type Journal struct {
	store Store
	mu    sync.Mutex // serializes read-modify-write cycles
}

// NewJournal returns a Journal over s.
func NewJournal(s Store) *Journal { return &Journal{store: s} }

// Store returns the underlying store.
func (j *Journal) Store() Store { return j.store }

// ByTicker selects transactions on ticker.
func ByTicker(ticker string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Ticker == ticker }
}

// ByKind selects transactions of kind k.
func ByKind(k Kind) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Kind == k }
}

// Within selects transactions dated within r, bounds included.
func Within(r date.Range) func(Transaction) bool {
	return func(tx Transaction) bool { return r.Contains(tx.Date) }
}

// List returns the stored transactions accepted by every filter, in store order.
func (j *Journal) List(ctx context.Context, filters ...func(Transaction) bool) ([]Transaction, error) {
	txs, err := j.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return slices.DeleteFunc(txs, func(tx Transaction) bool {
		for _, accept := range filters {
			if !accept(tx) {
				return true
			}
		}
		return false
	}), nil
}

// Get returns the transaction with id, ErrNotFound if there is none.
func (j *Journal) Get(ctx context.Context, id string) (Transaction, error) {
	txs, err := j.store.List(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("listing transactions: %w", err)
	}
	i := slices.IndexFunc(txs, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return Transaction{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return txs[i], nil
}

// Add appends txs to the ledger and returns them as stored. A missing ID is
// replaced by a new one.
func (j *Journal) Add(ctx context.Context, txs ...Transaction) ([]Transaction, error) {
	return j.Import(ctx, txs, false)
}

// Import adds txs to the ledger, or replaces the whole ledger with them when
// replace is true. A missing ID is replaced by a new one, a duplicate ID is
// invalid.
func (j *Journal) Import(ctx context.Context, txs []Transaction, replace bool) ([]Transaction, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var current []Transaction
	if !replace {
		var err error
		if current, err = j.store.List(ctx); err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}
	}

	seen := make(map[string]bool, len(current)+len(txs))
	for _, tx := range current {
		seen[tx.ID] = true
	}
	added := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = NewID()
		}
		ntx, err := ingest(tx)
		if err != nil {
			return nil, err
		}
		if seen[ntx.ID] {
			return nil, &InvalidTransactionError{ID: ntx.ID, Field: "id", Reason: "is already used"}
		}
		seen[ntx.ID] = true
		added = append(added, ntx)
	}

	if err := j.store.Save(ctx, append(current, added...)); err != nil {
		return nil, fmt.Errorf("saving transactions: %w", err)
	}
	return added, nil
}

// Replace overwrites the transaction having tx.ID.
func (j *Journal) Replace(ctx context.Context, tx Transaction) (Transaction, error) {
	tx, err := ingest(tx)
	if err != nil {
		return Transaction{}, err
	}
	err = j.update(ctx, tx.ID, func(txs []Transaction, i int) []Transaction {
		txs[i] = tx
		return txs
	})
	return tx, err
}

// Delete removes the transaction with id.
func (j *Journal) Delete(ctx context.Context, id string) error {
	return j.update(ctx, id, func(txs []Transaction, i int) []Transaction {
		return slices.Delete(txs, i, i+1)
	})
}

// Clear removes every transaction.
func (j *Journal) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.store.Save(ctx, nil); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}
	return nil
}

// update applies edit to the transaction with id and saves the result.
func (j *Journal) update(ctx context.Context, id string, edit func(txs []Transaction, i int) []Transaction) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	txs, err := j.store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}
	i := slices.IndexFunc(txs, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	if err := j.store.Save(ctx, edit(txs, i)); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	return nil
}

// ingest normalizes and validates tx.
func ingest(tx Transaction) (Transaction, error) {
	tx = tx.Normalize()
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}
