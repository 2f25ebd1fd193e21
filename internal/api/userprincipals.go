package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetUserPrincipals fetches user principal details, optionally including
// the given fields (e.g. "streamerSubscriptionKeys", "streamerConnectionInfo").
// The streamer login credential is derived from this response.
func (c *Client) GetUserPrincipals(ctx context.Context, fields ...string) (*UserPrincipalsResponse, error) {
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	var resp UserPrincipalsResponse
	if err := c.get(ctx, "/userprincipals", query, &resp); err != nil {
		return nil, fmt.Errorf("get user principals: %w", err)
	}

	return &resp, nil
}
