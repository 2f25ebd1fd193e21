package stream

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no heartbeat)")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrLoginRejected   = errors.New("streamer login rejected")
	ErrLoginTimeout    = errors.New("streamer login timed out")
)

// RawMessage wraps raw streamer frame bytes with a receive timestamp.
type RawMessage struct {
	Data       []byte    // Raw frame bytes from the WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Request is a single streamer command. The streamer wire protocol
// wraps one or more of these in a RequestEnvelope.
type Request struct {
	Service    string            `json:"service"`
	Command    string            `json:"command"`
	RequestID  string            `json:"requestid"`
	Account    string            `json:"account"`
	Source     string            `json:"source"`
	Parameters map[string]string `json:"parameters"`
}

// RequestEnvelope is the top-level frame sent to the streamer.
type RequestEnvelope struct {
	Requests []Request `json:"requests"`
}

// Frame is the top-level frame received from the streamer. Exactly one
// of the three arrays is populated per frame.
type Frame struct {
	Data     []DataDelivery `json:"data,omitempty"`
	Response []Response     `json:"response,omitempty"`
	Notify   []Notify       `json:"notify,omitempty"`
}

// DataDelivery is one service's content within a data frame.
type DataDelivery struct {
	Service   string          `json:"service"`
	Command   string          `json:"command"`
	Timestamp int64           `json:"timestamp"` // ms since epoch
	Content   json.RawMessage `json:"content"`
}

// Response is a command acknowledgement from the streamer.
type Response struct {
	Service   string          `json:"service"`
	Command   string          `json:"command"`
	RequestID string          `json:"requestid"`
	Timestamp int64           `json:"timestamp"`
	Content   ResponseContent `json:"content"`
}

// ResponseContent carries the acknowledgement code. Code 0 is success.
type ResponseContent struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Notify is a streamer heartbeat notification.
type Notify struct {
	Heartbeat string `json:"heartbeat,omitempty"`
}

// QuoteFields is the field list requested on QUOTE subscriptions:
// 0 symbol, 1 bid, 2 ask, 3 last, 4 bid size, 5 ask size, 8 volume,
// 9 last size, 49 mark.
const QuoteFields = "0,1,2,3,4,5,8,9,49"

// ClientConfig configures a streamer WebSocket client.
type ClientConfig struct {
	URL          string        // wss:// streamer socket URL from user principals
	PingTimeout  time.Duration // Max time without traffic before considering connection stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   10000,
	}
}
