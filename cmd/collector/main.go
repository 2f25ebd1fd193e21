package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rickgao/ameritrade-data/internal/api"
	"github.com/rickgao/ameritrade-data/internal/auth"
	"github.com/rickgao/ameritrade-data/internal/config"
	"github.com/rickgao/ameritrade-data/internal/database"
	"github.com/rickgao/ameritrade-data/internal/model"
	"github.com/rickgao/ameritrade-data/internal/poller"
	"github.com/rickgao/ameritrade-data/internal/router"
	"github.com/rickgao/ameritrade-data/internal/stream"
	"github.com/rickgao/ameritrade-data/internal/universe"
	"github.com/rickgao/ameritrade-data/internal/version"
	"github.com/rickgao/ameritrade-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	flag.Parse()

	// Env vars referenced by the config file may live in a local .env.
	godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"stream_enabled", cfg.Stream.Enabled,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Timescale.Host,
		"port", cfg.Database.Timescale.Port,
		"database", cfg.Database.Timescale.Name,
	)

	pools, err := database.NewPools(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pools.Close()

	logger.Info("database connected")

	// Resolve credentials: a pre-issued access token or the refresh grant.
	accountID := cfg.API.AccountID
	var provider api.TokenProvider
	if cfg.API.AccessToken != "" {
		provider = auth.StaticToken(cfg.API.AccessToken)
	} else {
		creds, err := auth.LoadCredentials(cfg.API.CredentialsFile)
		if err != nil {
			logger.Error("failed to load credentials", "error", err)
			os.Exit(1)
		}
		if accountID == "" {
			accountID = creds.AccountID
		}
		provider = auth.TokenSource(ctx, creds)
	}

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		accountID,
		provider,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	// Create symbol registry
	registryCfg := universe.Config{
		Watchlists:        cfg.Universe.Watchlists,
		ReconcileInterval: cfg.Universe.ReconcileInterval,
	}
	registry := universe.NewRegistry(registryCfg, apiClient, logger)

	// Start health server early so we can monitor sync progress
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createHealthHandler(pools, registry, logger),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	// Start symbol registry (initial watchlist sync)
	logger.Info("starting symbol registry (initial sync)...")
	if err := registry.Start(ctx); err != nil {
		logger.Error("failed to start symbol registry", "error", err)
		os.Exit(1)
	}
	defer stopComponent("symbol registry", registry.Stop, logger)

	symbols := registry.Symbols()
	logger.Info("symbol registry started", "symbols", len(symbols))

	// Start streamer session when enabled
	var session *stream.Session
	var streamInput <-chan stream.RawMessage
	if cfg.Stream.Enabled {
		principals, err := apiClient.GetUserPrincipals(ctx,
			"streamerConnectionInfo", "streamerSubscriptionKeys")
		if err != nil {
			logger.Error("failed to get user principals", "error", err)
			os.Exit(1)
		}

		details, err := stream.NewLoginDetails(principals)
		if err != nil {
			logger.Error("failed to derive streamer login", "error", err)
			os.Exit(1)
		}

		streamCfg := stream.ClientConfig{
			PingTimeout:  cfg.Stream.PingTimeout,
			WriteTimeout: cfg.Stream.WriteTimeout,
			BufferSize:   cfg.Stream.BufferSize,
		}
		session = stream.NewSession(streamCfg, details, logger)

		if err := session.Start(ctx, symbols); err != nil {
			logger.Error("failed to start streamer session", "error", err)
			os.Exit(1)
		}
		defer stopComponent("streamer session", session.Stop, logger)

		streamInput = session.Messages()
		logger.Info("streamer session started", "socket_url", details.SocketURL)
	}

	// Start message router
	routerCfg := router.RouterConfig{QuoteBufferSize: cfg.Writers.BufferSize}
	msgRouter := router.NewRouter(routerCfg, streamInput, logger)
	if err := msgRouter.Start(ctx); err != nil {
		logger.Error("failed to start message router", "error", err)
		os.Exit(1)
	}

	// Start quote writer
	writerCfg := writer.WriterConfig{
		BatchSize:     cfg.Writers.BatchSize,
		FlushInterval: cfg.Writers.FlushInterval,
	}
	quoteWriter := writer.NewQuoteWriter(writerCfg, msgRouter.Quotes(), pools.Timescale, logger)
	if err := quoteWriter.Start(ctx); err != nil {
		logger.Error("failed to start quote writer", "error", err)
		os.Exit(1)
	}
	defer stopComponent("quote writer", quoteWriter.Stop, logger)
	defer stopComponent("message router", msgRouter.Stop, logger)

	// Start quote poller, publishing through the router
	pollerCfg := poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		ChunkSize:   cfg.Poller.ChunkSize,
		Timeout:     cfg.API.Timeout,
	}
	handler := poller.QuoteHandlerFunc(func(q model.Quote) error {
		if !msgRouter.Publish(router.QuoteMsgFromModel(q)) {
			logger.Warn("quote buffer closed, dropping quote", "symbol", q.Symbol)
		}
		return nil
	})
	quotePoller := poller.New(pollerCfg, apiClient, registry, handler, logger)
	if err := quotePoller.Start(ctx); err != nil {
		logger.Error("failed to start quote poller", "error", err)
		os.Exit(1)
	}
	defer stopComponent("quote poller", quotePoller.Stop, logger)

	// Resubscribe the streamer when the watchlists change.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case updated := <-registry.Updates():
				logger.Info("symbol universe changed", "symbols", len(updated))
				if session != nil {
					if err := session.Subscribe(updated); err != nil {
						logger.Error("failed to resubscribe", "error", err)
					}
				}
			}
		}
	}()

	logger.Info("collector running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	// Graceful shutdown of health server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("collector stopped")
}

// stopComponent stops a component with a bounded shutdown timeout.
func stopComponent(name string, stop func(context.Context) error, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("component stop failed", "component", name, "error", err)
	}
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(pools *database.Pools, registry universe.Registry, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := pools.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["timescaledb"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["timescaledb"] = "connected"
		}

		// Check symbol registry
		symbols := registry.Symbols()
		health.Components["symbol_registry"] = map[string]interface{}{
			"symbols":      len(symbols),
			"last_sync_at": registry.LastSyncAt(),
		}
		if len(symbols) == 0 {
			health.Status = "degraded"
		}

		// Set response
		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/symbols", func(w http.ResponseWriter, r *http.Request) {
		symbols := registry.Symbols()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count":      len(symbols),
			"symbols":    symbols,
			"watchlists": registry.Watchlists(),
		})
	})

	return mux
}
