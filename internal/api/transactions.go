package api

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const transactionDateLayout = "2006-01-02"

// GetTransactions fetches transactions for the account. An empty Type
// defaults to TRADE; zero-valued From/To default to the trailing
// DefaultOrderLookback window ending today.
func (c *Client) GetTransactions(ctx context.Context, opts GetTransactionsOptions) ([]APITransaction, error) {
	txType := opts.Type
	if txType == "" {
		txType = "TRADE"
	}

	from, to := opts.From, opts.To
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.Add(-DefaultOrderLookback)
	}

	query := url.Values{}
	query.Set("type", txType)
	query.Set("startDate", from.Format(transactionDateLayout))
	query.Set("endDate", to.Format(transactionDateLayout))
	if opts.Symbol != "" {
		query.Set("symbol", opts.Symbol)
	}

	var resp []APITransaction
	if err := c.get(ctx, "/accounts/"+c.accountID+"/transactions", query, &resp); err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}

	return resp, nil
}

// GetTrades fetches executed trades within the given date range,
// filtering out non-TRADE entries the vendor may interleave.
func (c *Client) GetTrades(ctx context.Context, from, to time.Time) ([]APITransaction, error) {
	transactions, err := c.GetTransactions(ctx, GetTransactionsOptions{
		Type: "TRADE",
		From: from,
		To:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("get trades: %w", err)
	}

	trades := transactions[:0:0]
	for _, t := range transactions {
		if t.Type == "TRADE" {
			trades = append(trades, t)
		}
	}

	return trades, nil
}
