// Package auth provides TD Ameritrade OAuth 2.0 credential handling.
//
// The vendor's browser-based consent flow is out of scope: callers are
// expected to hold a refresh token issued by that flow. This package
// exchanges it for access tokens via the documented refresh-token grant
// against /v1/oauth2/token, or wraps an already-issued access token.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// DefaultTokenURL is the production token endpoint.
const DefaultTokenURL = "https://api.tdameritrade.com/v1/oauth2/token"

// Credentials holds the account and OAuth client details needed to mint
// access tokens.
type Credentials struct {
	AccountID    string `json:"account_number"`
	ClientID     string `json:"client_id"`
	RedirectURL  string `json:"callback_url"`
	RefreshToken string `json:"refresh_token"`

	// TokenURL overrides DefaultTokenURL when set (used in tests).
	TokenURL string `json:"token_url,omitempty"`
}

// LoadCredentials reads credentials from a JSON account file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	return &creds, nil
}

// Validate checks that all required fields are set.
func (c *Credentials) Validate() error {
	if c.AccountID == "" {
		return fmt.Errorf("account_number is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("callback_url is required")
	}
	if c.RefreshToken == "" {
		return fmt.Errorf("refresh_token is required")
	}
	return nil
}

// oauthConfig builds the oauth2 client configuration for the refresh
// grant.
func (c *Credentials) oauthConfig() *oauth2.Config {
	tokenURL := c.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	return &oauth2.Config{
		ClientID:    c.ClientID,
		RedirectURL: c.RedirectURL,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// TokenSource returns a provider that mints and caches access tokens
// from the refresh token, refreshing on expiry. The returned source is
// safe for concurrent use.
func TokenSource(ctx context.Context, creds *Credentials) *RefreshingSource {
	cfg := creds.oauthConfig()
	seed := &oauth2.Token{RefreshToken: creds.RefreshToken}

	return &RefreshingSource{
		source: cfg.TokenSource(ctx, seed),
	}
}

// RefreshingSource adapts an oauth2.TokenSource to the api.TokenProvider
// interface.
type RefreshingSource struct {
	mu     sync.Mutex
	source oauth2.TokenSource
}

// AccessToken returns a valid access token, refreshing if expired.
func (s *RefreshingSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.source.Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	return tok.AccessToken, nil
}

// StaticToken is a fixed bearer credential for callers that already hold
// an access token. It is immutable for the lifetime of the client.
type StaticToken string

// AccessToken returns the fixed token.
func (t StaticToken) AccessToken(ctx context.Context) (string, error) {
	if t == "" {
		return "", fmt.Errorf("access token is empty")
	}
	return string(t), nil
}
