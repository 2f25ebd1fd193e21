package writer

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/ameritrade-data/internal/model"
)

// CandleWriter bulk-loads historical bars into the candles table. It is
// synchronous: the backfill tool calls WriteCandles per symbol and
// checks the error.
type CandleWriter struct {
	cfg    WriterConfig
	db     *pgxpool.Pool
	logger *slog.Logger

	metrics WriterMetrics
}

// NewCandleWriter creates a new CandleWriter.
func NewCandleWriter(cfg WriterConfig, db *pgxpool.Pool, logger *slog.Logger) *CandleWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultWriterConfig().BatchSize
	}
	return &CandleWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// WriteCandles inserts candles in batches of BatchSize. Existing rows
// are left untouched.
func (w *CandleWriter) WriteCandles(ctx context.Context, candles []model.Candle) (int, error) {
	inserted := 0

	for start := 0; start < len(candles); start += w.cfg.BatchSize {
		end := start + w.cfg.BatchSize
		if end > len(candles) {
			end = len(candles)
		}

		n, err := w.insertBatch(ctx, candles[start:end])
		if err != nil {
			w.metrics.Errors++
			return inserted, err
		}
		inserted += n
	}

	w.metrics.Inserts += int64(inserted)
	w.metrics.Conflicts += int64(len(candles) - inserted)
	w.metrics.Flushes++

	return inserted, nil
}

// Stats returns current metrics.
func (w *CandleWriter) Stats() WriterMetrics {
	return w.metrics
}

// insertBatch inserts one batch of candles with ON CONFLICT DO NOTHING.
func (w *CandleWriter) insertBatch(ctx context.Context, candles []model.Candle) (int, error) {
	start := time.Now()

	batch := &pgx.Batch{}
	for _, c := range candles {
		batch.Queue(`
			INSERT INTO candles (symbol, candle_ts, freq, open, high, low, close, volume)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (symbol, candle_ts, freq) DO NOTHING
		`, c.Symbol, c.CandleTS, c.Freq, c.Open, c.High, c.Low, c.Close, c.Volume)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range candles {
		ct, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		if ct.RowsAffected() > 0 {
			inserted++
		}
	}

	w.logger.Debug("inserted candles",
		"count", len(candles),
		"inserted", inserted,
		"duration", time.Since(start),
	)

	return inserted, nil
}
