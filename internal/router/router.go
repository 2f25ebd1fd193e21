package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rickgao/ameritrade-data/internal/stream"
)

// Router parses raw streamer frames and routes quote content into the
// writer buffer.
type Router interface {
	// Start begins routing frames from the input channel.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the router and closes its buffer.
	Stop(ctx context.Context) error

	// Quotes returns the output buffer for the QuoteWriter to consume.
	Quotes() *GrowableBuffer[QuoteMsg]

	// Publish enqueues a poll-sourced quote, bypassing frame parsing.
	Publish(msg QuoteMsg) bool

	// Stats returns current router statistics.
	Stats() RouterStats
}

// RouterStats contains runtime statistics.
type RouterStats struct {
	FramesReceived int64
	QuotesRouted   int64
	ParseErrors    int64
	Heartbeats     int64
	QuoteBuffer    BufferStats
}

// router is the internal implementation.
type router struct {
	cfg    RouterConfig
	logger *slog.Logger

	// Input from the streamer session
	input <-chan stream.RawMessage

	// Output to the QuoteWriter
	quoteBuf *GrowableBuffer[QuoteMsg]

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Stats
	mu          sync.RWMutex
	received    int64
	routed      int64
	parseErrors int64
	heartbeats  int64
}

// NewRouter creates a new message router. A nil input is allowed for
// poll-only deployments; Publish still feeds the buffer.
func NewRouter(cfg RouterConfig, input <-chan stream.RawMessage, logger *slog.Logger) Router {
	if logger == nil {
		logger = slog.Default()
	}

	return &router{
		cfg:      cfg,
		logger:   logger,
		input:    input,
		quoteBuf: NewGrowableBuffer[QuoteMsg](cfg.QuoteBufferSize),
	}
}

// Start begins routing frames.
func (r *router) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	if r.input != nil {
		r.wg.Add(1)
		go r.routeLoop()
	}

	r.logger.Info("message router started",
		"quote_buffer", r.cfg.QuoteBufferSize,
		"stream_input", r.input != nil,
	)

	return nil
}

// Stop gracefully shuts down the router.
func (r *router) Stop(ctx context.Context) error {
	r.logger.Info("stopping message router")

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("message router stopped")
	case <-ctx.Done():
		r.logger.Warn("message router stop timed out")
	}

	r.quoteBuf.Close()

	return nil
}

// Quotes returns the output buffer.
func (r *router) Quotes() *GrowableBuffer[QuoteMsg] {
	return r.quoteBuf
}

// Publish enqueues a poll-sourced quote.
func (r *router) Publish(msg QuoteMsg) bool {
	sent := r.quoteBuf.Send(msg)
	if sent {
		r.mu.Lock()
		r.routed++
		r.mu.Unlock()
	}
	return sent
}

// Stats returns current statistics.
func (r *router) Stats() RouterStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RouterStats{
		FramesReceived: r.received,
		QuotesRouted:   r.routed,
		ParseErrors:    r.parseErrors,
		Heartbeats:     r.heartbeats,
		QuoteBuffer:    r.quoteBuf.Stats(),
	}
}

// routeLoop is the main routing goroutine.
func (r *router) routeLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case raw, ok := <-r.input:
			if !ok {
				r.logger.Info("input channel closed")
				return
			}
			r.route(raw)
		}
	}
}

// route parses and routes a single frame.
func (r *router) route(raw stream.RawMessage) {
	r.mu.Lock()
	r.received++
	r.mu.Unlock()

	var frame stream.Frame
	if err := json.Unmarshal(raw.Data, &frame); err != nil {
		r.logger.Warn("failed to parse streamer frame", "error", err)
		r.mu.Lock()
		r.parseErrors++
		r.mu.Unlock()
		return
	}

	for _, notify := range frame.Notify {
		if notify.Heartbeat != "" {
			r.mu.Lock()
			r.heartbeats++
			r.mu.Unlock()
		}
	}

	for _, delivery := range frame.Data {
		if delivery.Service != "QUOTE" {
			r.logger.Debug("skipping service", "service", delivery.Service)
			continue
		}
		r.routeQuotes(delivery, raw)
	}
}

// routeQuotes parses a QUOTE delivery and buffers one message per entry.
func (r *router) routeQuotes(delivery stream.DataDelivery, raw stream.RawMessage) {
	var entries []quoteContentWire
	if err := json.Unmarshal(delivery.Content, &entries); err != nil {
		r.logger.Warn("failed to parse quote content", "error", err)
		r.mu.Lock()
		r.parseErrors++
		r.mu.Unlock()
		return
	}

	for _, entry := range entries {
		msg := QuoteMsg{
			Symbol:     entry.Key,
			Source:     "stream",
			ExchangeTS: delivery.Timestamp * 1000, // ms -> µs
			ReceivedAt: raw.ReceivedAt,
			Bid:        entry.Bid,
			Ask:        entry.Ask,
			Last:       entry.Last,
			BidSize:    entry.BidSize,
			AskSize:    entry.AskSize,
			Volume:     entry.Volume,
			Mark:       entry.Mark,
		}

		if r.quoteBuf.Send(msg) {
			r.mu.Lock()
			r.routed++
			r.mu.Unlock()
		}
	}
}
