package model

import "github.com/google/uuid"

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// Quote is a point-in-time quote snapshot for a symbol.
type Quote struct {
	Symbol     string    // Equity ticker symbol
	QuoteTS    int64     // Vendor quote timestamp (µs since epoch)
	TradeTS    int64     // Vendor last-trade timestamp (µs since epoch)
	ReceivedAt int64     // Collector receive timestamp (µs since epoch)
	Source     string    // "rest" or "stream"
	CycleID    uuid.UUID // Poll cycle that captured this quote (Nil for stream)

	Bid     float64 // Best bid price
	BidSize int64   // Size at best bid
	Ask     float64 // Best ask price
	AskSize int64   // Size at best ask
	Last    float64 // Last trade price
	Mark    float64 // Mark price
	Volume  int64   // Total day volume
}

// Candle is a single OHLCV bar for a symbol.
type Candle struct {
	Symbol   string  // Equity ticker symbol
	CandleTS int64   // Bar open time (µs since epoch)
	Freq     string  // Bar frequency (e.g. "daily:1", "minute:5")
	Open     float64 // Open price
	High     float64 // High price
	Low      float64 // Low price
	Close    float64 // Close price
	Volume   int64   // Bar volume
}

// -----------------------------------------------------------------------------
// Account Types
// -----------------------------------------------------------------------------

// Position is an open position in the brokerage account.
type Position struct {
	Symbol        string  // Equity ticker symbol
	Cusip         string  // Instrument CUSIP
	AssetType     string  // EQUITY, OPTION, ...
	LongQuantity  float64 // Long quantity held
	ShortQuantity float64 // Short quantity held
	AveragePrice  float64 // Average entry price
	MarketValue   float64 // Current market value
	UpdatedAt     int64   // Last refresh (µs since epoch)
}

// Order is a brokerage order.
type Order struct {
	OrderID     int64   // Vendor order ID
	Symbol      string  // Symbol of the first leg
	Cusip       string  // CUSIP of the first leg
	Instruction string  // BUY or SELL
	Quantity    float64 // Order quantity
	Price       float64 // Limit price
	Duration    string  // DAY, GOOD_TILL_CANCEL, ...
	Status      string  // QUEUED, WORKING, FILLED, ...
	EnteredTS   int64   // Entry time (µs since epoch)
}

// Transaction is an executed account transaction.
type Transaction struct {
	TransactionID int64   // Vendor transaction ID
	Type          string  // TRADE, DIVIDEND_OR_INTEREST, ...
	Description   string  // Vendor description
	Symbol        string  // Instrument symbol
	Cusip         string  // Instrument CUSIP
	Instruction   string  // BUY or SELL
	Amount        float64 // Quantity transacted
	Price         float64 // Execution price
	NetAmount     float64 // Net cash effect
	OrderTS       int64   // Order date (µs since epoch)
}

// Watchlist is a named set of symbols in the brokerage account.
type Watchlist struct {
	WatchlistID string   // Vendor watchlist ID
	Name        string   // Display name
	Symbols     []string // Member symbols
	UpdatedAt   int64    // Last refresh (µs since epoch)
}
