package api

import (
	"testing"
	"time"
)

// TestParseTimestamp tests vendor timestamp parsing.
func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{
			name:  "RFC3339",
			input: "2024-01-15T10:30:00Z",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC).UnixMicro(),
		},
		{
			name:  "vendor numeric zone without colon",
			input: "2018-07-29T11:30:00+0000",
			want:  time.Date(2018, 7, 29, 11, 30, 0, 0, time.UTC).UnixMicro(),
		},
		{
			name:  "empty",
			input: "",
			want:  0,
		},
		{
			name:  "garbage",
			input: "not a timestamp",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTimestamp(tt.input); got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// TestMillisToMicros tests epoch unit conversion.
func TestMillisToMicros(t *testing.T) {
	if got := MillisToMicros(1700000000000); got != 1700000000000000 {
		t.Errorf("MillisToMicros = %d, want 1700000000000000", got)
	}
	if got := MillisToMicros(0); got != 0 {
		t.Errorf("MillisToMicros(0) = %d, want 0", got)
	}
}

// TestQuoteToModel tests APIQuote conversion.
func TestQuoteToModel(t *testing.T) {
	q := APIQuote{
		Symbol:      "AAPL",
		BidPrice:    187.4,
		BidSize:     300,
		AskPrice:    187.6,
		AskSize:     200,
		LastPrice:   187.5,
		Mark:        187.5,
		TotalVolume: 1234567,
		QuoteTimeMs: 1700000000000,
		TradeTimeMs: 1700000000500,
	}

	m := q.ToModel("rest")

	if m.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", m.Symbol)
	}
	if m.Source != "rest" {
		t.Errorf("Source = %q, want rest", m.Source)
	}
	if m.QuoteTS != 1700000000000000 {
		t.Errorf("QuoteTS = %d, want 1700000000000000", m.QuoteTS)
	}
	if m.TradeTS != 1700000000500000 {
		t.Errorf("TradeTS = %d, want 1700000000500000", m.TradeTS)
	}
	if m.Bid != 187.4 || m.Ask != 187.6 || m.Last != 187.5 {
		t.Errorf("prices = %v/%v/%v, want 187.4/187.6/187.5", m.Bid, m.Ask, m.Last)
	}
	if m.Volume != 1234567 {
		t.Errorf("Volume = %d, want 1234567", m.Volume)
	}
	if m.ReceivedAt == 0 {
		t.Error("ReceivedAt should be stamped")
	}
}

// TestCandleToModel tests APICandle conversion.
func TestCandleToModel(t *testing.T) {
	c := APICandle{
		Open:     100,
		High:     110,
		Low:      95,
		Close:    105,
		Volume:   50000,
		Datetime: 1700000000000,
	}

	m := c.ToModel("MSFT", "daily:1")

	if m.Symbol != "MSFT" {
		t.Errorf("Symbol = %q, want MSFT", m.Symbol)
	}
	if m.Freq != "daily:1" {
		t.Errorf("Freq = %q, want daily:1", m.Freq)
	}
	if m.CandleTS != 1700000000000000 {
		t.Errorf("CandleTS = %d, want 1700000000000000", m.CandleTS)
	}
	if m.Open != 100 || m.Close != 105 {
		t.Errorf("Open/Close = %v/%v, want 100/105", m.Open, m.Close)
	}
}

// TestOrderToModel tests APIOrder conversion with legs.
func TestOrderToModel(t *testing.T) {
	t.Run("single leg", func(t *testing.T) {
		o := APIOrder{
			OrderID:     42,
			Quantity:    10,
			Price:       187.5,
			Duration:    "DAY",
			Status:      "QUEUED",
			EnteredTime: "2024-01-15T10:30:00+0000",
			OrderLegCollection: []APIOrderLeg{
				{Instruction: "BUY", Instrument: APIInstrument{Symbol: "AAPL", Cusip: "037833100"}},
			},
		}

		m := o.ToModel()
		if m.OrderID != 42 {
			t.Errorf("OrderID = %d, want 42", m.OrderID)
		}
		if m.Symbol != "AAPL" || m.Instruction != "BUY" {
			t.Errorf("leg = %q %q, want AAPL BUY", m.Symbol, m.Instruction)
		}
		if m.EnteredTS == 0 {
			t.Error("EnteredTS should be parsed")
		}
	})

	t.Run("no legs", func(t *testing.T) {
		o := APIOrder{OrderID: 7}
		m := o.ToModel()
		if m.Symbol != "" {
			t.Errorf("Symbol = %q, want empty", m.Symbol)
		}
	})
}

// TestTransactionToModel tests APITransaction conversion.
func TestTransactionToModel(t *testing.T) {
	tx := APITransaction{
		TransactionID: 99,
		Type:          "TRADE",
		Description:   "BUY TRADE",
		NetAmount:     -1875.0,
		OrderDate:     "2024-01-15T10:30:00+0000",
		TransactionItem: APITransactionItem{
			Amount:      10,
			Price:       187.5,
			Instruction: "BUY",
			Instrument:  APIInstrument{Symbol: "AAPL"},
		},
	}

	m := tx.ToModel()
	if m.TransactionID != 99 {
		t.Errorf("TransactionID = %d, want 99", m.TransactionID)
	}
	if m.Symbol != "AAPL" || m.Instruction != "BUY" {
		t.Errorf("item = %q %q, want AAPL BUY", m.Symbol, m.Instruction)
	}
	if m.NetAmount != -1875.0 {
		t.Errorf("NetAmount = %v, want -1875", m.NetAmount)
	}
	if m.OrderTS == 0 {
		t.Error("OrderTS should be parsed")
	}
}

// TestWatchlistToModel tests APIWatchlist conversion.
func TestWatchlistToModel(t *testing.T) {
	wl := APIWatchlist{
		Name:        "Core",
		WatchlistID: "wl-1",
		WatchlistItems: []APIWatchlistItem{
			{Instrument: APIInstrument{Symbol: "AAPL"}},
			{Instrument: APIInstrument{Symbol: "MSFT"}},
		},
	}

	m := wl.ToModel()
	if m.Name != "Core" || m.WatchlistID != "wl-1" {
		t.Errorf("meta = %q %q, want Core wl-1", m.Name, m.WatchlistID)
	}
	if len(m.Symbols) != 2 || m.Symbols[0] != "AAPL" {
		t.Errorf("Symbols = %v, want [AAPL MSFT]", m.Symbols)
	}
}

// TestFreqLabel tests frequency label construction.
func TestFreqLabel(t *testing.T) {
	tests := []struct {
		freqType string
		freq     int
		want     string
	}{
		{"daily", 1, "daily:1"},
		{"minute", 5, "minute:5"},
		{"", 0, "daily:1"},
	}

	for _, tt := range tests {
		if got := FreqLabel(tt.freqType, tt.freq); got != tt.want {
			t.Errorf("FreqLabel(%q, %d) = %q, want %q", tt.freqType, tt.freq, got, tt.want)
		}
	}
}
