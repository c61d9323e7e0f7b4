// Package stocklog tracks a stock portfolio from its ledger of trades.
//
// The ledger is a list of Transaction (buy, sell or dividend) kept in a
// Store and edited through a Journal, which normalizes and validates every
// transaction before it is stored. The computation is a pipeline of pure
// stages:
//   - Match replays the ledger and matches sells against the oldest open
//     lots (FIFO), producing a Book of open lots and closed positions.
//   - Value turns the open lots into open positions priced from a market
//     data Snapshot.
//   - Compute aggregates positions into portfolio Metrics.
//
// Market data comes from a Provider. A Refresher builds and atomically
// installs snapshots, and a Comparator computes the benchmark return over
// each holding window so positions can report their alpha. Tracker wires
// them together into a Report.
//
// This package is the engine of the stk command line tool.
package stocklog
