// Package database provides SQLite-based storage for fill history.
//
// Every fill pass can be recorded in a HistoryDB, which stores:
//   - The complete report of the pass as JSON
//   - One row per control outcome, for per-field statistics
//
// SQLite (via modernc.org/sqlite) keeps the history in a single file in the
// XDG data directory and needs no CGO, so jpfill cross-compiles unchanged.
// WAL mode lets the history command read while a batch is writing.
package database
