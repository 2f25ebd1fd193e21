// Package writer implements the database writers.
//
// QuoteWriter drains the router's quote buffer and batch-inserts rows
// into the quotes hypertable. CandleWriter bulk-loads historical bars
// for the backfill tool. Both use pgx batches with ON CONFLICT DO
// NOTHING so replays and overlapping sources are idempotent.
package writer
