package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the production TD Ameritrade REST endpoint.
const DefaultBaseURL = "https://api.tdameritrade.com/v1"

// TokenProvider supplies the bearer credential attached to every request.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client provides access to the TD Ameritrade REST API. It holds an
// account identifier and a credential provider, both fixed at
// construction; every call is otherwise stateless.
type Client struct {
	baseURL    string
	accountID  string
	creds      TokenProvider
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client for the given account.
func NewClient(baseURL, accountID string, creds TokenProvider, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:   baseURL,
		accountID: accountID,
		creds:     creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AccountID returns the brokerage account number the client is scoped to.
func (c *Client) AccountID() string {
	return c.accountID
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
