package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickgao/ameritrade-data/internal/router"
)

// batchSender is the pgxpool.Pool surface the writer uses.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// QuoteWriter consumes QuoteMsg from the router buffer and writes to the
// quotes table.
type QuoteWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Input from Message Router
	input *router.GrowableBuffer[router.QuoteMsg]

	// Database
	db batchSender

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metricsMu sync.Mutex
	metrics   WriterMetrics
}

// quoteRow is the database row shape for the quotes table.
type quoteRow struct {
	Symbol     string
	QuoteTS    int64
	ReceivedAt int64
	Source     string
	CycleID    any // uuid or nil for stream rows
	Bid        float64
	BidSize    int64
	Ask        float64
	AskSize    int64
	Last       float64
	Mark       float64
	Volume     int64
}

// NewQuoteWriter creates a new QuoteWriter.
func NewQuoteWriter(
	cfg WriterConfig,
	input *router.GrowableBuffer[router.QuoteMsg],
	db batchSender,
	logger *slog.Logger,
) *QuoteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultWriterConfig().BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultWriterConfig().FlushInterval
	}
	return &QuoteWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
	}
}

// Start begins consuming messages and writing to the database.
func (w *QuoteWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.consumeLoop()

	w.logger.Info("quote writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer and flushes what remains.
func (w *QuoteWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping quote writer")

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("quote writer stop timed out")
		return ctx.Err()
	}

	// Final drain of whatever the router left behind. w.ctx is already
	// cancelled, so the flush runs on the caller's context.
	w.drainAndFlush(ctx, 0)

	w.logger.Info("quote writer stopped")
	return nil
}

// Stats returns current metrics.
func (w *QuoteWriter) Stats() WriterMetrics {
	w.metricsMu.Lock()
	defer w.metricsMu.Unlock()
	return w.metrics
}

// consumeLoop drains the input buffer in batches, flushing on the
// interval or as soon as a full batch accumulates.
func (w *QuoteWriter) consumeLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		// A full batch waiting means the buffer is running hot; skip
		// the tick delay and flush back-to-back.
		if w.input.Len() >= w.cfg.BatchSize {
			w.drainAndFlush(w.ctx, w.cfg.BatchSize)
			continue
		}

		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.drainAndFlush(w.ctx, w.cfg.BatchSize)
		}
	}
}

// drainAndFlush takes up to max messages from the buffer (all when max
// is 0) and writes them.
func (w *QuoteWriter) drainAndFlush(ctx context.Context, max int) {
	msgs := w.input.DrainTo(max)
	if len(msgs) == 0 {
		return
	}

	rows := make([]quoteRow, len(msgs))
	for i, msg := range msgs {
		rows[i] = w.transform(msg)
	}

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, rows)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(rows))
		w.metricsMu.Lock()
		w.metrics.Errors++
		w.metricsMu.Unlock()
		return
	}

	w.metricsMu.Lock()
	w.metrics.Inserts += int64(len(rows) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.metricsMu.Unlock()

	w.logger.Debug("flushed quotes",
		"count", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// transform converts a QuoteMsg to a quoteRow.
func (w *QuoteWriter) transform(msg router.QuoteMsg) quoteRow {
	row := quoteRow{
		Symbol:     msg.Symbol,
		QuoteTS:    msg.ExchangeTS,
		ReceivedAt: msg.ReceivedAt.UnixMicro(),
		Source:     msg.Source,
		Bid:        msg.Bid,
		BidSize:    msg.BidSize,
		Ask:        msg.Ask,
		AskSize:    msg.AskSize,
		Last:       msg.Last,
		Mark:       msg.Mark,
		Volume:     msg.Volume,
	}
	if msg.CycleID != uuid.Nil {
		row.CycleID = msg.CycleID
	}
	// Stream deliveries omit the vendor timestamp on some partial
	// updates; fall back to receive time so the primary key is stable.
	if row.QuoteTS == 0 {
		row.QuoteTS = row.ReceivedAt
	}
	return row
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *QuoteWriter) batchInsert(ctx context.Context, rows []quoteRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO quotes (symbol, quote_ts, received_at, source, cycle_id, bid, bid_size, ask, ask_size, last, mark, volume)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (symbol, quote_ts, source) DO NOTHING
		`, r.Symbol, r.QuoteTS, r.ReceivedAt, r.Source, r.CycleID, r.Bid, r.BidSize, r.Ask, r.AskSize, r.Last, r.Mark, r.Volume)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
