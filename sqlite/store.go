// Package sqlite stores the ledger in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/date"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var schema = `
CREATE TABLE IF NOT EXISTS transactions (
    position INTEGER NOT NULL,
    id TEXT PRIMARY KEY,
    date TEXT NOT NULL,
    ticker TEXT NOT NULL,
    type TEXT NOT NULL,
    price TEXT NOT NULL,
    shares TEXT NOT NULL
);
`

// Store is a stocklog.Store backed by a SQL database. Amounts are stored as
// decimal text, so that they read back exactly.
type Store struct {
	db *sql.DB
}

var _ stocklog.Store = (*Store)(nil)

// Open opens, and creates if needed, the SQLite database at path.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %q: %w", path, err)
	}
	s := New(db)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New returns a Store over an open database. Call Init to create the schema.
func New(db *sql.DB) *Store { return &Store{db: db} }

// Init creates the tables.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// List returns the transactions in the order they were saved.
func (s *Store) List(ctx context.Context) ([]stocklog.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, date, ticker, type, price, shares FROM transactions ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []stocklog.Transaction
	for rows.Next() {
		var id, day, ticker, kind, price, shares string
		if err := rows.Scan(&id, &day, &ticker, &kind, &price, &shares); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx, err := decode(id, day, ticker, kind, price, shares)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", id, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txs, nil
}

func decode(id, day, ticker, kind, price, shares string) (tx stocklog.Transaction, err error) {
	tx.ID, tx.Ticker = id, ticker
	if tx.Date, err = date.Parse(day); err != nil {
		return tx, err
	}
	if tx.Kind, err = stocklog.ParseKind(kind); err != nil {
		return tx, err
	}
	if tx.Price, err = stocklog.ParseMoney(price); err != nil {
		return tx, fmt.Errorf("price %q: %w", price, err)
	}
	if tx.Shares, err = stocklog.ParseQuantity(shares); err != nil {
		return tx, fmt.Errorf("shares %q: %w", shares, err)
	}
	return tx, nil
}

// Save replaces every stored transaction with txs in a single database
// transaction.
func (s *Store) Save(ctx context.Context, txs []stocklog.Transaction) (err error) {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin: %w", err)
	}
	defer func() {
		if err != nil {
			dbtx.Rollback()
		}
	}()

	if _, err = dbtx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	stmt, err := dbtx.PrepareContext(ctx, "INSERT INTO transactions (position, id, date, ticker, type, price, shares) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		_, err = stmt.ExecContext(ctx, int64(i), tx.ID, tx.Date.String(), tx.Ticker, tx.Kind.String(), tx.Price.Decimal().String(), tx.Shares.String())
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
		}
	}
	if err = dbtx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
