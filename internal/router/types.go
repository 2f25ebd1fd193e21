package router

import (
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/ameritrade-data/internal/model"
)

// QuoteMsg is a routed quote update headed for the QuoteWriter. Stream
// deliveries are partial: only fields the vendor marked changed are
// non-zero. Poll-sourced messages are always complete snapshots.
type QuoteMsg struct {
	Symbol     string
	Source     string    // "rest" or "stream"
	CycleID    uuid.UUID // Poll cycle ID (Nil for stream)
	ExchangeTS int64     // Vendor timestamp (µs since epoch)
	ReceivedAt time.Time // Local receive time

	Bid     float64
	Ask     float64
	Last    float64
	BidSize int64
	AskSize int64
	Volume  int64
	Mark    float64
}

// QuoteMsgFromModel converts a poll-sourced quote for Publish.
func QuoteMsgFromModel(q model.Quote) QuoteMsg {
	return QuoteMsg{
		Symbol:     q.Symbol,
		Source:     q.Source,
		CycleID:    q.CycleID,
		ExchangeTS: q.QuoteTS,
		ReceivedAt: time.UnixMicro(q.ReceivedAt),
		Bid:        q.Bid,
		Ask:        q.Ask,
		Last:       q.Last,
		BidSize:    q.BidSize,
		AskSize:    q.AskSize,
		Volume:     q.Volume,
		Mark:       q.Mark,
	}
}

// quoteContentWire is one QUOTE content entry. The streamer identifies
// fields by number; "key" is the symbol.
type quoteContentWire struct {
	Key     string  `json:"key"`
	Bid     float64 `json:"1"`
	Ask     float64 `json:"2"`
	Last    float64 `json:"3"`
	BidSize int64   `json:"4"`
	AskSize int64   `json:"5"`
	Volume  int64   `json:"8"`
	Mark    float64 `json:"49"`
}

// RouterConfig configures the message router.
type RouterConfig struct {
	QuoteBufferSize int
}

// DefaultRouterConfig returns sensible defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		QuoteBufferSize: 10000,
	}
}
