// Package tradebook implements a single-account paper-trading ledger
// engine. It tracks the cash balance, share holdings and the full
// append-only transaction history of one trading account, recording
// every operation attempt, successful or not.
//
// The core functionalities include:
//   - Account Operations: deposit, withdraw, buy and sell, each
//     validated before any state change and each appending exactly one
//     immutable transaction record to the account log.
//   - Audit Trail: the log is the complete, never-reordered record of
//     every attempt, including failed ones, and can be persisted and
//     replayed through the JSONL codec.
//   - Valuation: portfolio value and profit/loss against the cumulative
//     deposit total, priced through an injected PriceProvider.
//
// This package serves as the foundational logic for the `tb`
// command-line tool and the demo web UI, ensuring that all operations
// are consistent and based on a single source of truth.
package tradebook
