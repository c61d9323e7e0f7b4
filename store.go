package stocklog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Store persists the whole collection of transactions.
type Store interface {
	// List returns every stored transaction.
	List(ctx context.Context) ([]Transaction, error)
	// Save replaces the stored collection with txs.
	Save(ctx context.Context, txs []Transaction) error
}

// MemoryStore is a Store kept in memory.
type MemoryStore struct {
	mu  sync.RWMutex
	txs []Transaction
}

// NewMemoryStore returns a MemoryStore holding txs.
func NewMemoryStore(txs ...Transaction) *MemoryStore {
	return &MemoryStore{txs: slices.Clone(txs)}
}

func (s *MemoryStore) List(ctx context.Context) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.txs), nil
}

func (s *MemoryStore) Save(ctx context.Context, txs []Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = slices.Clone(txs)
	return nil
}

// FileStore is a Store persisted as a JSONL file, one transaction per line.
// A missing file is an empty ledger.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore reading and writing path.
func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (s *FileStore) List(ctx context.Context) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", s.Path, err)
	}
	defer f.Close()

	txs, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", s.Path, err)
	}
	return txs, nil
}

// Save writes txs to a temporary file in the same directory then renames it
// over the ledger, so that a failed write leaves the previous ledger intact.
func (s *FileStore) Save(ctx context.Context, txs []Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create ledger directory %q: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op once renamed

	if err := EncodeLedger(f, txs); err != nil {
		f.Close()
		return fmt.Errorf("could not write ledger %q: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write ledger %q: %w", s.Path, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("could not replace ledger %q: %w", s.Path, err)
	}
	return nil
}
