// Package database provides connection pool management for TimescaleDB.
//
// Each collector maintains local storage:
//   - TimescaleDB: quotes and candles (time-series data)
//
// Account-side data (positions, orders, watchlists) lives in-memory in
// the universe registry and is not persisted.
package database
