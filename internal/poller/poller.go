package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/ameritrade-data/internal/api"
	"github.com/rickgao/ameritrade-data/internal/model"
)

// SymbolSource provides the symbols to poll.
type SymbolSource interface {
	Symbols() []string
}

// QuoteHandler receives fetched quotes.
type QuoteHandler interface {
	HandleQuote(quote model.Quote) error
}

// QuoteHandlerFunc is a function adapter for QuoteHandler.
type QuoteHandlerFunc func(model.Quote) error

func (f QuoteHandlerFunc) HandleQuote(q model.Quote) error {
	return f(q)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 1m)
	Concurrency int           // Max concurrent requests (default: 4)
	ChunkSize   int           // Symbols per quotes request (default: 100)
	Timeout     time.Duration // Per-request timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Concurrency: 4,
		ChunkSize:   100,
		Timeout:     10 * time.Second,
	}
}

// Poller periodically fetches quote snapshots via the REST API.
type Poller struct {
	cfg     Config
	client  *api.Client
	symbols SymbolSource
	handler QuoteHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, client *api.Client, symbols SymbolSource, handler QuoteHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		symbols: symbols,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("quote poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
		"chunk_size", p.cfg.ChunkSize,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("quote poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches quotes for all tracked symbols in chunks.
func (p *Poller) pollAll() {
	start := time.Now()
	cycleID := uuid.New()

	symbols := p.symbols.Symbols()
	if len(symbols) == 0 {
		p.logger.Debug("no symbols to poll")
		return
	}

	chunks := chunkSymbols(symbols, p.cfg.ChunkSize)

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var fetched, errors atomic.Int64

	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk []string) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-p.ctx.Done():
				return
			}

			n, err := p.pollChunk(chunk, cycleID)
			if err != nil {
				p.logger.Warn("failed to poll quotes",
					"symbols", len(chunk),
					"err", err,
				)
				errors.Add(1)
				return
			}

			fetched.Add(int64(n))
		}(chunk)
	}

	wg.Wait()

	p.logger.Info("poll cycle complete",
		"cycle_id", cycleID,
		"symbols", len(symbols),
		"fetched", fetched.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// pollChunk fetches and handles one chunk of symbols.
func (p *Poller) pollChunk(symbols []string, cycleID uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	quotes, err := p.client.GetQuotes(ctx, symbols)
	if err != nil {
		return 0, err
	}

	handled := 0
	for _, q := range quotes {
		quote := q.ToModel("rest")
		quote.CycleID = cycleID

		if p.handler != nil {
			if err := p.handler.HandleQuote(quote); err != nil {
				return handled, err
			}
		}
		handled++
	}

	return handled, nil
}

// chunkSymbols splits symbols into slices of at most size.
func chunkSymbols(symbols []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	chunks := make([][]string, 0, (len(symbols)+size-1)/size)
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		chunks = append(chunks, symbols[start:end])
	}
	return chunks
}
