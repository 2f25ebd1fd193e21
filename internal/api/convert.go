package api

import (
	"fmt"
	"time"

	"github.com/rickgao/ameritrade-data/internal/model"
)

// MillisToMicros converts a vendor millisecond epoch to internal
// microseconds. Returns 0 for zero input.
func MillisToMicros(ms int64) int64 {
	return ms * 1000
}

// ParseTimestamp parses a vendor ISO 8601 timestamp (e.g. order
// enteredTime "2018-07-29T11:30:00+0000") to microseconds since epoch.
// Returns 0 for empty or invalid input.
func ParseTimestamp(iso string) int64 {
	if iso == "" {
		return 0
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Vendor order timestamps use a numeric zone without a colon.
		t, err = time.Parse("2006-01-02T15:04:05-0700", iso)
		if err != nil {
			return 0
		}
	}

	return t.UnixMicro()
}

// NowMicro returns the current time in microseconds since epoch.
func NowMicro() int64 {
	return time.Now().UnixMicro()
}

// ToModel converts an APIQuote to model.Quote. Source and receive
// metadata are supplied by the caller.
func (q *APIQuote) ToModel(source string) model.Quote {
	return model.Quote{
		Symbol:     q.Symbol,
		QuoteTS:    MillisToMicros(q.QuoteTimeMs),
		TradeTS:    MillisToMicros(q.TradeTimeMs),
		ReceivedAt: NowMicro(),
		Source:     source,
		Bid:        q.BidPrice,
		BidSize:    q.BidSize,
		Ask:        q.AskPrice,
		AskSize:    q.AskSize,
		Last:       q.LastPrice,
		Mark:       q.Mark,
		Volume:     q.TotalVolume,
	}
}

// ToModel converts an APICandle to model.Candle for the given symbol
// and frequency label.
func (c *APICandle) ToModel(symbol, freq string) model.Candle {
	return model.Candle{
		Symbol:   symbol,
		CandleTS: MillisToMicros(c.Datetime),
		Freq:     freq,
		Open:     c.Open,
		High:     c.High,
		Low:      c.Low,
		Close:    c.Close,
		Volume:   c.Volume,
	}
}

// ToModel converts an APIPosition to model.Position, flattening the
// nested instrument.
func (p *APIPosition) ToModel() model.Position {
	return model.Position{
		Symbol:        p.Instrument.Symbol,
		Cusip:         p.Instrument.Cusip,
		AssetType:     p.Instrument.AssetType,
		LongQuantity:  p.LongQuantity,
		ShortQuantity: p.ShortQuantity,
		AveragePrice:  p.AveragePrice,
		MarketValue:   p.MarketValue,
		UpdatedAt:     NowMicro(),
	}
}

// ToModel converts an APIOrder to model.Order using the first leg,
// matching the single-leg orders this platform places.
func (o *APIOrder) ToModel() model.Order {
	m := model.Order{
		OrderID:   o.OrderID,
		Quantity:  o.Quantity,
		Price:     o.Price,
		Duration:  o.Duration,
		Status:    o.Status,
		EnteredTS: ParseTimestamp(o.EnteredTime),
	}

	if len(o.OrderLegCollection) > 0 {
		leg := o.OrderLegCollection[0]
		m.Symbol = leg.Instrument.Symbol
		m.Cusip = leg.Instrument.Cusip
		m.Instruction = leg.Instruction
	}

	return m
}

// ToModel converts an APITransaction to model.Transaction, flattening
// the nested transaction item.
func (t *APITransaction) ToModel() model.Transaction {
	return model.Transaction{
		TransactionID: t.TransactionID,
		Type:          t.Type,
		Description:   t.Description,
		Symbol:        t.TransactionItem.Instrument.Symbol,
		Cusip:         t.TransactionItem.Instrument.Cusip,
		Instruction:   t.TransactionItem.Instruction,
		Amount:        t.TransactionItem.Amount,
		Price:         t.TransactionItem.Price,
		NetAmount:     t.NetAmount,
		OrderTS:       ParseTimestamp(t.OrderDate),
	}
}

// ToModel converts an APIWatchlist to model.Watchlist.
func (w *APIWatchlist) ToModel() model.Watchlist {
	symbols := make([]string, 0, len(w.WatchlistItems))
	for _, item := range w.WatchlistItems {
		symbols = append(symbols, item.Instrument.Symbol)
	}

	return model.Watchlist{
		WatchlistID: w.WatchlistID,
		Name:        w.Name,
		Symbols:     symbols,
		UpdatedAt:   NowMicro(),
	}
}

// FreqLabel builds the internal frequency label for a price history
// request, e.g. ("daily", 1) -> "daily:1".
func FreqLabel(frequencyType string, frequency int) string {
	if frequencyType == "" {
		frequencyType = "daily"
	}
	if frequency == 0 {
		frequency = 1
	}
	return fmt.Sprintf("%s:%d", frequencyType, frequency)
}
