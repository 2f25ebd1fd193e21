package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetAccount fetches the client's account, optionally including the
// given fields (e.g. "positions", "orders").
func (c *Client) GetAccount(ctx context.Context, fields ...string) (*SecuritiesAccount, error) {
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	var resp AccountResponse
	if err := c.get(ctx, "/accounts/"+c.accountID, query, &resp); err != nil {
		return nil, fmt.Errorf("get account %s: %w", c.accountID, err)
	}

	return &resp.SecuritiesAccount, nil
}

// GetAccounts fetches all accounts linked to the credential.
func (c *Client) GetAccounts(ctx context.Context, fields ...string) ([]SecuritiesAccount, error) {
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	var resp []AccountResponse
	if err := c.get(ctx, "/accounts", query, &resp); err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}

	accounts := make([]SecuritiesAccount, 0, len(resp))
	for _, r := range resp {
		accounts = append(accounts, r.SecuritiesAccount)
	}
	return accounts, nil
}

// GetPositions fetches the account's open positions.
func (c *Client) GetPositions(ctx context.Context) ([]APIPosition, error) {
	account, err := c.GetAccount(ctx, "positions")
	if err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}
	return account.Positions, nil
}
