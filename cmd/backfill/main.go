// backfill loads historical OHLCV bars into the candles table.
//
// Symbols come from -symbols, or from the configured watchlists when the
// flag is empty. Usage:
//
//	go run ./cmd/backfill --config configs/collector.local.yaml \
//	    --symbols AAPL,MSFT --freq-type daily --years 10
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/ameritrade-data/internal/api"
	"github.com/rickgao/ameritrade-data/internal/auth"
	"github.com/rickgao/ameritrade-data/internal/config"
	"github.com/rickgao/ameritrade-data/internal/database"
	"github.com/rickgao/ameritrade-data/internal/model"
	"github.com/rickgao/ameritrade-data/internal/universe"
	"github.com/rickgao/ameritrade-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	symbolsFlag := flag.String("symbols", "", "comma-separated symbols (default: configured watchlists)")
	freqType := flag.String("freq-type", "daily", "frequency type: minute, daily, weekly, monthly")
	freq := flag.Int("freq", 1, "frequency within the type")
	years := flag.Int("years", 10, "years of history to fetch")
	concurrency := flag.Int("concurrency", 4, "concurrent symbol fetches")
	extended := flag.Bool("extended-hours", false, "include extended hours data")
	flag.Parse()

	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	pools, err := database.NewPools(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pools.Close()

	apiClient, err := newAPIClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create API client", "error", err)
		os.Exit(1)
	}

	symbols := splitSymbols(*symbolsFlag)
	if len(symbols) == 0 {
		symbols, err = watchlistSymbols(ctx, cfg, apiClient, logger)
		if err != nil {
			logger.Error("failed to resolve watchlist symbols", "error", err)
			os.Exit(1)
		}
	}
	if len(symbols) == 0 {
		logger.Error("no symbols to backfill")
		os.Exit(1)
	}

	opts := api.PriceHistoryOptions{
		FrequencyType: *freqType,
		Frequency:     *freq,
		Start:         time.Now().AddDate(-*years, 0, 0),
		End:           time.Now(),
		ExtendedHours: *extended,
	}
	freqLabel := api.FreqLabel(*freqType, *freq)

	logger.Info("starting backfill",
		"symbols", len(symbols),
		"freq", freqLabel,
		"years", *years,
	)

	candleWriter := writer.NewCandleWriter(writer.WriterConfig{
		BatchSize: cfg.Writers.BatchSize,
	}, pools.Timescale, logger)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			return backfillSymbol(gctx, apiClient, candleWriter, symbol, opts, freqLabel, logger)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("backfill failed", "error", err)
		os.Exit(1)
	}

	stats := candleWriter.Stats()
	logger.Info("backfill complete",
		"symbols", len(symbols),
		"inserted", stats.Inserts,
		"skipped", stats.Conflicts,
		"duration", time.Since(start),
	)
}

// backfillSymbol fetches and writes the full history for one symbol.
func backfillSymbol(
	ctx context.Context,
	client *api.Client,
	w *writer.CandleWriter,
	symbol string,
	opts api.PriceHistoryOptions,
	freqLabel string,
	logger *slog.Logger,
) error {
	history, err := client.GetPriceHistory(ctx, symbol, opts)
	if err != nil {
		return err
	}
	if history.Empty || len(history.Candles) == 0 {
		logger.Warn("no history returned", "symbol", symbol)
		return nil
	}

	candles := make([]model.Candle, len(history.Candles))
	for i := range history.Candles {
		candles[i] = history.Candles[i].ToModel(symbol, freqLabel)
	}

	inserted, err := w.WriteCandles(ctx, candles)
	if err != nil {
		return err
	}

	logger.Info("symbol backfilled",
		"symbol", symbol,
		"candles", len(candles),
		"inserted", inserted,
	)
	return nil
}

// newAPIClient builds an authenticated client from the config.
func newAPIClient(ctx context.Context, cfg *config.CollectorConfig, logger *slog.Logger) (*api.Client, error) {
	accountID := cfg.API.AccountID
	var provider api.TokenProvider
	if cfg.API.AccessToken != "" {
		provider = auth.StaticToken(cfg.API.AccessToken)
	} else {
		creds, err := auth.LoadCredentials(cfg.API.CredentialsFile)
		if err != nil {
			return nil, err
		}
		if accountID == "" {
			accountID = creds.AccountID
		}
		provider = auth.TokenSource(ctx, creds)
	}

	return api.NewClient(
		cfg.API.BaseURL,
		accountID,
		provider,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	), nil
}

// watchlistSymbols pulls the symbol universe from the configured
// watchlists via a one-shot registry sync.
func watchlistSymbols(ctx context.Context, cfg *config.CollectorConfig, client *api.Client, logger *slog.Logger) ([]string, error) {
	registry := universe.NewRegistry(universe.Config{
		Watchlists: cfg.Universe.Watchlists,
	}, client, logger)

	if err := registry.Start(ctx); err != nil {
		return nil, err
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	registry.Stop(stopCtx)

	return registry.Symbols(), nil
}

// splitSymbols parses a comma-separated symbol list, uppercasing and
// dropping empty entries.
func splitSymbols(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			symbols = append(symbols, p)
		}
	}
	return symbols
}
