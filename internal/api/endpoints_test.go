package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient builds a client against a handler, scoped to account 123456789.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "123456789", staticToken("tok"))
}

// TestGetAccount tests the account endpoints.
func TestGetAccount(t *testing.T) {
	t.Run("basic request", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/accounts/123456789" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/accounts/123456789")
			}
			json.NewEncoder(w).Encode(AccountResponse{
				SecuritiesAccount: SecuritiesAccount{
					Type:      "MARGIN",
					AccountID: "123456789",
				},
			})
		})

		account, err := c.GetAccount(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Type != "MARGIN" {
			t.Errorf("Type = %q, want %q", account.Type, "MARGIN")
		}
	})

	t.Run("with fields", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("fields") != "positions,orders" {
				t.Errorf("fields = %q, want %q", r.URL.Query().Get("fields"), "positions,orders")
			}
			json.NewEncoder(w).Encode(AccountResponse{})
		})

		_, err := c.GetAccount(context.Background(), "positions", "orders")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("balance maps pass through untouched", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"securitiesAccount": {"accountId": "123456789",
				"currentBalances": {"cashBalance": 1234.56, "vendorSpecificKey": "kept"}}}`))
		})

		account, err := c.GetAccount(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.CurrentBalances["cashBalance"] != 1234.56 {
			t.Errorf("cashBalance = %v, want 1234.56", account.CurrentBalances["cashBalance"])
		}
		if account.CurrentBalances["vendorSpecificKey"] != "kept" {
			t.Error("unknown balance keys should be preserved")
		}
	})

	t.Run("positions", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("fields") != "positions" {
				t.Errorf("fields = %q, want %q", r.URL.Query().Get("fields"), "positions")
			}
			json.NewEncoder(w).Encode(AccountResponse{
				SecuritiesAccount: SecuritiesAccount{
					Positions: []APIPosition{
						{LongQuantity: 100, Instrument: APIInstrument{Symbol: "AAPL"}},
					},
				},
			})
		})

		positions, err := c.GetPositions(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(positions) != 1 {
			t.Fatalf("len(positions) = %d, want 1", len(positions))
		}
		if positions[0].Instrument.Symbol != "AAPL" {
			t.Errorf("Symbol = %q, want %q", positions[0].Instrument.Symbol, "AAPL")
		}
	})
}

// TestGetOrders tests order query endpoints.
func TestGetOrders(t *testing.T) {
	t.Run("default lookback window", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("accountId") != "123456789" {
				t.Errorf("accountId = %q, want %q", q.Get("accountId"), "123456789")
			}

			from, err := time.Parse("2006-01-02", q.Get("fromEnteredTime"))
			if err != nil {
				t.Errorf("bad fromEnteredTime %q: %v", q.Get("fromEnteredTime"), err)
				return
			}
			to, err := time.Parse("2006-01-02", q.Get("toEnteredTime"))
			if err != nil {
				t.Errorf("bad toEnteredTime %q: %v", q.Get("toEnteredTime"), err)
				return
			}
			if days := to.Sub(from).Hours() / 24; days < 34 || days > 36 {
				t.Errorf("window = %.0f days, want 35", days)
			}

			json.NewEncoder(w).Encode([]APIOrder{{OrderID: 42, Status: "FILLED"}})
		})

		orders, err := c.GetOrders(context.Background(), GetOrdersOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 1 || orders[0].OrderID != 42 {
			t.Errorf("orders = %+v, want one order 42", orders)
		}
	})

	t.Run("explicit options", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("fromEnteredTime") != "2024-01-01" {
				t.Errorf("fromEnteredTime = %q, want %q", q.Get("fromEnteredTime"), "2024-01-01")
			}
			if q.Get("toEnteredTime") != "2024-02-01" {
				t.Errorf("toEnteredTime = %q, want %q", q.Get("toEnteredTime"), "2024-02-01")
			}
			if q.Get("maxResults") != "50" {
				t.Errorf("maxResults = %q, want %q", q.Get("maxResults"), "50")
			}
			if q.Get("status") != "WORKING" {
				t.Errorf("status = %q, want %q", q.Get("status"), "WORKING")
			}
			json.NewEncoder(w).Encode([]APIOrder{})
		})

		_, err := c.GetOrders(context.Background(), GetOrdersOptions{
			MaxResults: 50,
			From:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Status:     "WORKING",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("open orders filter", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("status") != "QUEUED" {
				t.Errorf("status = %q, want %q", q.Get("status"), "QUEUED")
			}
			if q.Get("maxResults") != "1000" {
				t.Errorf("maxResults = %q, want %q", q.Get("maxResults"), "1000")
			}

			// The window covers yesterday and today in local time.
			now := time.Now()
			if want := now.Format("2006-01-02"); q.Get("toEnteredTime") != want {
				t.Errorf("toEnteredTime = %q, want %q", q.Get("toEnteredTime"), want)
			}
			if want := now.AddDate(0, 0, -1).Format("2006-01-02"); q.Get("fromEnteredTime") != want {
				t.Errorf("fromEnteredTime = %q, want %q", q.Get("fromEnteredTime"), want)
			}

			json.NewEncoder(w).Encode([]APIOrder{{OrderID: 7, Status: "QUEUED"}})
		})

		orders, err := c.GetOpenOrders(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 1 {
			t.Errorf("len(orders) = %d, want 1", len(orders))
		}
	})

	t.Run("single order by ID", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/accounts/123456789/orders/42" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/accounts/123456789/orders/42")
			}
			json.NewEncoder(w).Encode(APIOrder{OrderID: 42})
		})

		order, err := c.GetOrder(context.Background(), 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.OrderID != 42 {
			t.Errorf("OrderID = %d, want 42", order.OrderID)
		}
	})
}

// TestOrderEntry tests place/replace/cancel and saved orders.
func TestOrderEntry(t *testing.T) {
	t.Run("place order", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %q, want POST", r.Method)
			}
			if r.URL.Path != "/accounts/123456789/orders" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/accounts/123456789/orders")
			}

			var body OrderRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
				return
			}
			if body.OrderType != "LIMIT" {
				t.Errorf("OrderType = %q, want LIMIT", body.OrderType)
			}
			if body.Price != "187.50" {
				t.Errorf("Price = %q, want %q (string per order spec)", body.Price, "187.50")
			}
			if len(body.OrderLegCollection) != 1 || body.OrderLegCollection[0].Quantity != "10" {
				t.Errorf("legs = %+v, want one leg of quantity \"10\"", body.OrderLegCollection)
			}

			w.WriteHeader(http.StatusCreated)
		})

		order := NewEquityLimitOrder("AAPL", "BUY", 10, 187.5)
		if err := c.PlaceOrder(context.Background(), order); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("replace order", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("method = %q, want PUT", r.Method)
			}
			if r.URL.Path != "/accounts/123456789/orders/42" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/accounts/123456789/orders/42")
			}
			w.WriteHeader(http.StatusCreated)
		})

		order := NewEquityLimitOrder("AAPL", "BUY", 10, 190)
		if err := c.ReplaceOrder(context.Background(), 42, order); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("cancel order", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("method = %q, want DELETE", r.Method)
			}
			if r.URL.Path != "/accounts/123456789/orders/42" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/accounts/123456789/orders/42")
			}
			w.WriteHeader(http.StatusOK)
		})

		if err := c.CancelOrder(context.Background(), 42); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("saved orders round trip", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost:
				w.WriteHeader(http.StatusCreated)
			case r.Method == http.MethodGet:
				json.NewEncoder(w).Encode([]APISavedOrder{{SavedOrderID: 9}})
			case r.Method == http.MethodDelete:
				if r.URL.Path != "/accounts/123456789/savedorders/9" {
					t.Errorf("path = %q, want %q", r.URL.Path, "/accounts/123456789/savedorders/9")
				}
			}
		})

		if err := c.CreateSavedOrder(context.Background(), NewEquityLimitOrder("MSFT", "SELL", 5, 410)); err != nil {
			t.Fatalf("create: %v", err)
		}
		saved, err := c.GetSavedOrders(context.Background())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(saved) != 1 || saved[0].SavedOrderID != 9 {
			t.Errorf("saved = %+v, want one order 9", saved)
		}
		if err := c.DeleteSavedOrder(context.Background(), 9); err != nil {
			t.Fatalf("delete: %v", err)
		}
	})
}

// TestGetTransactions tests the transactions endpoints.
func TestGetTransactions(t *testing.T) {
	t.Run("type defaults to TRADE", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/accounts/123456789/transactions" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/accounts/123456789/transactions")
			}
			if r.URL.Query().Get("type") != "TRADE" {
				t.Errorf("type = %q, want %q", r.URL.Query().Get("type"), "TRADE")
			}
			json.NewEncoder(w).Encode([]APITransaction{})
		})

		_, err := c.GetTransactions(context.Background(), GetTransactionsOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("explicit type and symbol", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("type") != "DIVIDEND_OR_INTEREST" {
				t.Errorf("type = %q, want %q", q.Get("type"), "DIVIDEND_OR_INTEREST")
			}
			if q.Get("symbol") != "AAPL" {
				t.Errorf("symbol = %q, want %q", q.Get("symbol"), "AAPL")
			}
			json.NewEncoder(w).Encode([]APITransaction{})
		})

		_, err := c.GetTransactions(context.Background(), GetTransactionsOptions{
			Type:   "DIVIDEND_OR_INTEREST",
			Symbol: "AAPL",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("GetTrades filters non-trade entries", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]APITransaction{
				{TransactionID: 1, Type: "TRADE"},
				{TransactionID: 2, Type: "RECEIVE_AND_DELIVER"},
				{TransactionID: 3, Type: "TRADE"},
			})
		})

		trades, err := c.GetTrades(context.Background(), time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(trades) != 2 {
			t.Fatalf("len(trades) = %d, want 2", len(trades))
		}
		for _, tr := range trades {
			if tr.Type != "TRADE" {
				t.Errorf("Type = %q, want TRADE", tr.Type)
			}
		}
	})
}

// TestWatchlists tests the watchlist endpoints.
func TestWatchlists(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/accounts/123456789/watchlists" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/accounts/123456789/watchlists")
			}
			json.NewEncoder(w).Encode([]APIWatchlist{
				{Name: "Core", WatchlistID: "wl-1"},
				{Name: "Spec", WatchlistID: "wl-2"},
			})
		})

		watchlists, err := c.GetWatchlists(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(watchlists) != 2 {
			t.Errorf("len(watchlists) = %d, want 2", len(watchlists))
		}
	})

	t.Run("by name resolves ID then fetches detail", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/accounts/123456789/watchlists":
				json.NewEncoder(w).Encode([]APIWatchlist{{Name: "Core", WatchlistID: "wl-1"}})
			case "/accounts/123456789/watchlists/wl-1":
				json.NewEncoder(w).Encode(APIWatchlist{
					Name:        "Core",
					WatchlistID: "wl-1",
					WatchlistItems: []APIWatchlistItem{
						{Instrument: APIInstrument{Symbol: "AAPL"}},
					},
				})
			default:
				t.Errorf("unexpected path %q", r.URL.Path)
			}
		})

		wl, err := c.GetWatchlistByName(context.Background(), "Core")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(wl.WatchlistItems) != 1 {
			t.Errorf("len(items) = %d, want 1", len(wl.WatchlistItems))
		}
	})

	t.Run("by name not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]APIWatchlist{})
		})

		_, err := c.GetWatchlistByName(context.Background(), "Missing")
		if !errors.Is(err, ErrWatchlistNotFound) {
			t.Errorf("err = %v, want ErrWatchlistNotFound", err)
		}
	})

	t.Run("create builds equity items", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var body WatchlistRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
				return
			}
			if body.Name != "New" {
				t.Errorf("Name = %q, want %q", body.Name, "New")
			}
			if len(body.WatchlistItems) != 2 {
				t.Errorf("len(items) = %d, want 2", len(body.WatchlistItems))
				return
			}
			if body.WatchlistItems[0].Instrument.AssetType != "EQUITY" {
				t.Errorf("AssetType = %q, want EQUITY", body.WatchlistItems[0].Instrument.AssetType)
			}
			w.WriteHeader(http.StatusCreated)
		})

		if err := c.CreateWatchlist(context.Background(), "New", []string{"AAPL", "MSFT"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// TestMarketData tests quotes, price history, and instruments.
func TestMarketData(t *testing.T) {
	t.Run("quotes joins symbols", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/marketdata/quotes" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/marketdata/quotes")
			}
			if r.URL.Query().Get("symbol") != "AAPL,MSFT" {
				t.Errorf("symbol = %q, want %q", r.URL.Query().Get("symbol"), "AAPL,MSFT")
			}
			json.NewEncoder(w).Encode(QuotesResponse{
				"AAPL": {Symbol: "AAPL", LastPrice: 187.5},
				"MSFT": {Symbol: "MSFT", LastPrice: 415.1},
			})
		})

		quotes, err := c.GetQuotes(context.Background(), []string{"AAPL", "MSFT"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 2 {
			t.Errorf("len(quotes) = %d, want 2", len(quotes))
		}
		if quotes["AAPL"].LastPrice != 187.5 {
			t.Errorf("LastPrice = %v, want 187.5", quotes["AAPL"].LastPrice)
		}
	})

	t.Run("empty symbol list short-circuits", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should be made")
		})

		quotes, err := c.GetQuotes(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 0 {
			t.Errorf("len(quotes) = %d, want 0", len(quotes))
		}
	})

	t.Run("single quote missing from response", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(QuotesResponse{})
		})

		_, err := c.GetQuote(context.Background(), "BOGUS")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("price history daily sends periodType", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/marketdata/AAPL/pricehistory" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/marketdata/AAPL/pricehistory")
			}
			q := r.URL.Query()
			if q.Get("frequencyType") != "daily" {
				t.Errorf("frequencyType = %q, want daily", q.Get("frequencyType"))
			}
			if q.Get("periodType") != "year" {
				t.Errorf("periodType = %q, want year", q.Get("periodType"))
			}
			json.NewEncoder(w).Encode(PriceHistoryResponse{
				Symbol:  "AAPL",
				Candles: []APICandle{{Open: 1, Close: 2, Datetime: 1700000000000}},
			})
		})

		history, err := c.GetPriceHistory(context.Background(), "AAPL", PriceHistoryOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(history.Candles) != 1 {
			t.Errorf("len(candles) = %d, want 1", len(history.Candles))
		}
	})

	t.Run("price history minute omits periodType", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Has("periodType") {
				t.Error("periodType must not be sent with minute frequency")
			}
			if q.Get("startDate") == "" || q.Get("endDate") == "" {
				t.Error("startDate/endDate should be set")
			}
			json.NewEncoder(w).Encode(PriceHistoryResponse{})
		})

		_, err := c.GetPriceHistory(context.Background(), "AAPL", PriceHistoryOptions{
			FrequencyType: "minute",
			Frequency:     5,
			Start:         time.Now().Add(-24 * time.Hour),
			End:           time.Now(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("fundamentals", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/instruments" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/instruments")
			}
			if r.URL.Query().Get("projection") != "fundamental" {
				t.Errorf("projection = %q, want fundamental", r.URL.Query().Get("projection"))
			}
			json.NewEncoder(w).Encode(InstrumentsResponse{
				"AAPL": {
					Symbol:      "AAPL",
					Fundamental: &APIFundamental{Symbol: "AAPL", PERatio: 31.2},
				},
				"NOFUND": {Symbol: "NOFUND"},
			})
		})

		fundamentals, err := c.GetFundamentals(context.Background(), []string{"AAPL", "NOFUND"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fundamentals) != 1 {
			t.Fatalf("len(fundamentals) = %d, want 1", len(fundamentals))
		}
		if fundamentals["AAPL"].PERatio != 31.2 {
			t.Errorf("PERatio = %v, want 31.2", fundamentals["AAPL"].PERatio)
		}
	})
}

// TestGetUserPrincipals tests the user principals endpoint.
func TestGetUserPrincipals(t *testing.T) {
	t.Run("with streamer fields", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/userprincipals" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/userprincipals")
			}
			if r.URL.Query().Get("fields") != "streamerConnectionInfo,streamerSubscriptionKeys" {
				t.Errorf("fields = %q", r.URL.Query().Get("fields"))
			}
			json.NewEncoder(w).Encode(UserPrincipalsResponse{
				UserID:           "user",
				PrimaryAccountID: "123456789",
				Accounts:         []APIPrincipalAccount{{AccountID: "123456789"}},
				StreamerInfo: &APIStreamerInfo{
					StreamerSocketURL: "streamer.example.com",
					Token:             "stoken",
				},
			})
		})

		up, err := c.GetUserPrincipals(context.Background(), "streamerConnectionInfo", "streamerSubscriptionKeys")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if up.StreamerInfo == nil || up.StreamerInfo.Token != "stoken" {
			t.Errorf("StreamerInfo = %+v, want token stoken", up.StreamerInfo)
		}
	})
}
