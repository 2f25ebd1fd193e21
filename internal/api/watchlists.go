package api

import (
	"context"
	"fmt"
)

// ErrWatchlistNotFound is returned by GetWatchlistByName when no
// watchlist matches the requested name.
var ErrWatchlistNotFound = fmt.Errorf("watchlist not found")

// GetWatchlists fetches all watchlists in the account.
func (c *Client) GetWatchlists(ctx context.Context) ([]APIWatchlist, error) {
	var resp []APIWatchlist
	if err := c.get(ctx, "/accounts/"+c.accountID+"/watchlists", nil, &resp); err != nil {
		return nil, fmt.Errorf("get watchlists: %w", err)
	}
	return resp, nil
}

// GetWatchlist fetches a single watchlist by ID.
func (c *Client) GetWatchlist(ctx context.Context, watchlistID string) (*APIWatchlist, error) {
	var resp APIWatchlist
	if err := c.get(ctx, "/accounts/"+c.accountID+"/watchlists/"+watchlistID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get watchlist %s: %w", watchlistID, err)
	}
	return &resp, nil
}

// GetWatchlistByName fetches a watchlist by display name. The vendor
// only addresses watchlists by ID, so this lists and matches.
func (c *Client) GetWatchlistByName(ctx context.Context, name string) (*APIWatchlist, error) {
	watchlists, err := c.GetWatchlists(ctx)
	if err != nil {
		return nil, err
	}

	for _, wl := range watchlists {
		if wl.Name == name {
			return c.GetWatchlist(ctx, wl.WatchlistID)
		}
	}

	return nil, fmt.Errorf("get watchlist %q: %w", name, ErrWatchlistNotFound)
}

// CreateWatchlist creates a watchlist of equity symbols.
func (c *Client) CreateWatchlist(ctx context.Context, name string, symbols []string) error {
	items := make([]WatchlistItemRequest, 0, len(symbols))
	for _, sym := range symbols {
		items = append(items, WatchlistItemRequest{
			Instrument: OrderInstrumentRequest{
				Symbol:    sym,
				AssetType: "EQUITY",
			},
		})
	}

	body := WatchlistRequest{
		Name:           name,
		WatchlistItems: items,
	}

	if err := c.post(ctx, "/accounts/"+c.accountID+"/watchlists", body); err != nil {
		return fmt.Errorf("create watchlist %q: %w", name, err)
	}
	return nil
}

// DeleteWatchlist removes a watchlist.
func (c *Client) DeleteWatchlist(ctx context.Context, watchlistID string) error {
	if err := c.del(ctx, "/accounts/"+c.accountID+"/watchlists/"+watchlistID); err != nil {
		return fmt.Errorf("delete watchlist %s: %w", watchlistID, err)
	}
	return nil
}
