package universe

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/ameritrade-data/internal/api"
	"github.com/rickgao/ameritrade-data/internal/model"
)

// Config holds registry configuration.
type Config struct {
	// Watchlists names the brokerage watchlists that seed the tracked
	// set. Empty means every watchlist in the account.
	Watchlists []string

	// ReconcileInterval is how often the watchlists are re-fetched.
	ReconcileInterval time.Duration

	// FetchConcurrency bounds parallel watchlist detail fetches.
	FetchConcurrency int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval: 15 * time.Minute,
		FetchConcurrency:  4,
	}
}

// Registry tracks the symbols to collect.
type Registry interface {
	// Start performs the initial sync and begins the reconcile loop.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the reconcile loop.
	Stop(ctx context.Context) error

	// Symbols returns the current tracked symbols, sorted.
	Symbols() []string

	// Watchlists returns the watchlists backing the tracked set.
	Watchlists() []model.Watchlist

	// Updates emits the new symbol set after each reconcile that
	// changed it.
	Updates() <-chan []string

	// LastSyncAt returns the time of the last successful sync.
	LastSyncAt() time.Time
}

// registry is the internal implementation.
type registry struct {
	cfg    Config
	client *api.Client
	logger *slog.Logger

	mu         sync.RWMutex
	symbols    map[string]struct{}
	watchlists []model.Watchlist
	lastSyncAt time.Time

	updates chan []string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a new symbol registry.
func NewRegistry(cfg Config, client *api.Client, logger *slog.Logger) Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReconcileInterval == 0 {
		cfg.ReconcileInterval = DefaultConfig().ReconcileInterval
	}
	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = DefaultConfig().FetchConcurrency
	}

	return &registry{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		symbols: make(map[string]struct{}),
		updates: make(chan []string, 1),
	}
}

// Start performs the initial sync and begins the reconcile loop.
func (r *registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	if err := r.sync(r.ctx); err != nil {
		return err
	}

	// The initial set is read via Symbols(); Updates carries changes
	// after startup only.
	select {
	case <-r.updates:
	default:
	}

	r.wg.Add(1)
	go r.reconcileLoop()

	r.logger.Info("symbol registry started",
		"symbols", len(r.Symbols()),
		"reconcile_interval", r.cfg.ReconcileInterval,
	)

	return nil
}

// Stop gracefully shuts down the reconcile loop.
func (r *registry) Stop(ctx context.Context) error {
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
		r.logger.Info("symbol registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Symbols returns the current tracked symbols, sorted.
func (r *registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, 0, len(r.symbols))
	for sym := range r.symbols {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// Watchlists returns the watchlists backing the tracked set.
func (r *registry) Watchlists() []model.Watchlist {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Watchlist, len(r.watchlists))
	copy(out, r.watchlists)
	return out
}

// Updates emits the new symbol set after each change.
func (r *registry) Updates() <-chan []string {
	return r.updates
}

// LastSyncAt returns the time of the last successful sync.
func (r *registry) LastSyncAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSyncAt
}

// reconcileLoop periodically re-syncs the watchlists.
func (r *registry) reconcileLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.sync(r.ctx); err != nil {
				r.logger.Warn("watchlist reconcile failed", "error", err)
			}
		}
	}
}

// sync fetches the watchlists and rebuilds the tracked symbol set.
func (r *registry) sync(ctx context.Context) error {
	start := time.Now()

	summaries, err := r.client.GetWatchlists(ctx)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(r.cfg.Watchlists))
	for _, name := range r.cfg.Watchlists {
		wanted[name] = true
	}

	// Fetch watchlist details in parallel; the list endpoint already
	// returns items, but the detail endpoint reflects recent edits.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.FetchConcurrency)

	details := make([]*api.APIWatchlist, len(summaries))
	fetched := 0
	for i, summary := range summaries {
		if len(wanted) > 0 && !wanted[summary.Name] {
			continue
		}
		fetched++
		i, summary := i, summary
		g.Go(func() error {
			wl, err := r.client.GetWatchlist(gctx, summary.WatchlistID)
			if err != nil {
				return err
			}
			details[i] = wl
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	watchlists := make([]model.Watchlist, 0, fetched)
	symbols := make(map[string]struct{})
	for _, wl := range details {
		if wl == nil {
			continue
		}
		m := wl.ToModel()
		watchlists = append(watchlists, m)
		for _, sym := range m.Symbols {
			symbols[sym] = struct{}{}
		}
	}

	r.mu.Lock()
	added, removed := diffSymbols(r.symbols, symbols)
	r.symbols = symbols
	r.watchlists = watchlists
	r.lastSyncAt = time.Now()
	r.mu.Unlock()

	if added > 0 || removed > 0 {
		r.notify()
	}

	r.logger.Info("watchlist sync complete",
		"watchlists", len(watchlists),
		"symbols", len(symbols),
		"added", added,
		"removed", removed,
		"duration", time.Since(start),
	)

	return nil
}

// notify publishes the new symbol set, dropping stale pending updates.
func (r *registry) notify() {
	symbols := r.Symbols()
	select {
	case r.updates <- symbols:
	default:
		select {
		case <-r.updates:
		default:
		}
		select {
		case r.updates <- symbols:
		default:
		}
	}
}

// diffSymbols counts membership changes between the old and new sets.
func diffSymbols(old, new map[string]struct{}) (added, removed int) {
	for sym := range new {
		if _, ok := old[sym]; !ok {
			added++
		}
	}
	for sym := range old {
		if _, ok := new[sym]; !ok {
			removed++
		}
	}
	return added, removed
}
