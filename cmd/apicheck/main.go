// apicheck exercises the REST endpoints and prints the raw responses.
// It is a smoke test for credentials and connectivity, not a collector.
//
// Usage:
//
//	go run ./cmd/apicheck --config configs/collector.local.yaml --symbols AAPL,MSFT
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/rickgao/ameritrade-data/internal/api"
	"github.com/rickgao/ameritrade-data/internal/auth"
	"github.com/rickgao/ameritrade-data/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	symbolsFlag := flag.String("symbols", "SPY", "comma-separated symbols to quote")
	verbose := flag.Bool("verbose", false, "print full response JSON")
	flag.Parse()

	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	accountID := cfg.API.AccountID
	var provider api.TokenProvider
	if cfg.API.AccessToken != "" {
		provider = auth.StaticToken(cfg.API.AccessToken)
	} else {
		creds, err := auth.LoadCredentials(cfg.API.CredentialsFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load credentials:", err)
			os.Exit(1)
		}
		if accountID == "" {
			accountID = creds.AccountID
		}
		provider = auth.TokenSource(ctx, creds)
	}

	client := api.NewClient(cfg.API.BaseURL, accountID, provider, api.WithLogger(logger))

	symbols := strings.Split(strings.ToUpper(*symbolsFlag), ",")

	ok := true
	ok = check("account", *verbose, func() (any, error) {
		return client.GetAccount(ctx)
	}) && ok
	ok = check("positions", *verbose, func() (any, error) {
		return client.GetPositions(ctx)
	}) && ok
	ok = check("open orders", *verbose, func() (any, error) {
		return client.GetOpenOrders(ctx)
	}) && ok
	ok = check("watchlists", *verbose, func() (any, error) {
		return client.GetWatchlists(ctx)
	}) && ok
	ok = check("quotes", *verbose, func() (any, error) {
		return client.GetQuotes(ctx, symbols)
	}) && ok
	ok = check("price history", *verbose, func() (any, error) {
		return client.GetPriceHistory(ctx, symbols[0], api.PriceHistoryOptions{
			FrequencyType: "daily",
			Start:         time.Now().AddDate(0, -1, 0),
			End:           time.Now(),
		})
	}) && ok
	ok = check("user principals", *verbose, func() (any, error) {
		return client.GetUserPrincipals(ctx, "streamerConnectionInfo")
	}) && ok

	if !ok {
		os.Exit(1)
	}
}

// check runs one endpoint call and prints the outcome.
func check(name string, verbose bool, call func() (any, error)) bool {
	start := time.Now()
	resp, err := call()
	if err != nil {
		fmt.Printf("FAIL  %-16s %v\n", name, err)
		return false
	}

	fmt.Printf("OK    %-16s (%s)\n", name, time.Since(start).Round(time.Millisecond))
	if verbose {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(data))
	}
	return true
}
