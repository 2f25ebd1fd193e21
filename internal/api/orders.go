package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const enteredTimeLayout = "2006-01-02"

// DefaultOrderLookback is the date range used when GetOrders or
// GetTransactions is called without explicit bounds, matching the
// vendor's maximum single-query window.
const DefaultOrderLookback = 35 * 24 * time.Hour

// GetOrders fetches orders for the account. Zero-valued From/To default
// to the trailing DefaultOrderLookback window ending today.
func (c *Client) GetOrders(ctx context.Context, opts GetOrdersOptions) ([]APIOrder, error) {
	from, to := opts.From, opts.To
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.Add(-DefaultOrderLookback)
	}

	query := url.Values{}
	query.Set("accountId", c.accountID)
	query.Set("fromEnteredTime", from.Format(enteredTimeLayout))
	query.Set("toEnteredTime", to.Format(enteredTimeLayout))
	if opts.MaxResults > 0 {
		query.Set("maxResults", strconv.Itoa(opts.MaxResults))
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var resp []APIOrder
	if err := c.get(ctx, "/orders", query, &resp); err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}

	return resp, nil
}

// GetOrder fetches a single order by ID.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*APIOrder, error) {
	path := "/accounts/" + c.accountID + "/orders/" + strconv.FormatInt(orderID, 10)

	var resp APIOrder
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}

	return &resp, nil
}

// GetOpenOrders fetches queued single-leg orders entered since
// yesterday. The window is built on local calendar days so orders
// entered earlier today are always inside it.
func (c *Client) GetOpenOrders(ctx context.Context) ([]APIOrder, error) {
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	orders, err := c.GetOrders(ctx, GetOrdersOptions{
		MaxResults: 1000,
		From:       today.AddDate(0, 0, -1),
		To:         today,
		Status:     "QUEUED",
	})
	if err != nil {
		return nil, fmt.Errorf("get open orders: %w", err)
	}

	return orders, nil
}

// PlaceOrder submits an order for execution.
func (c *Client) PlaceOrder(ctx context.Context, order OrderRequest) error {
	if err := c.post(ctx, "/accounts/"+c.accountID+"/orders", order); err != nil {
		return fmt.Errorf("place order: %w", err)
	}
	return nil
}

// ReplaceOrder cancels an existing order and replaces it with a new one.
func (c *Client) ReplaceOrder(ctx context.Context, orderID int64, order OrderRequest) error {
	path := "/accounts/" + c.accountID + "/orders/" + strconv.FormatInt(orderID, 10)
	if err := c.put(ctx, path, order); err != nil {
		return fmt.Errorf("replace order %d: %w", orderID, err)
	}
	return nil
}

// CancelOrder cancels an open order.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	path := "/accounts/" + c.accountID + "/orders/" + strconv.FormatInt(orderID, 10)
	if err := c.del(ctx, path); err != nil {
		return fmt.Errorf("cancel order %d: %w", orderID, err)
	}
	return nil
}

// CreateSavedOrder stores an order without submitting it.
func (c *Client) CreateSavedOrder(ctx context.Context, order OrderRequest) error {
	if err := c.post(ctx, "/accounts/"+c.accountID+"/savedorders", order); err != nil {
		return fmt.Errorf("create saved order: %w", err)
	}
	return nil
}

// GetSavedOrders fetches the account's saved orders.
func (c *Client) GetSavedOrders(ctx context.Context) ([]APISavedOrder, error) {
	var resp []APISavedOrder
	if err := c.get(ctx, "/accounts/"+c.accountID+"/savedorders", nil, &resp); err != nil {
		return nil, fmt.Errorf("get saved orders: %w", err)
	}
	return resp, nil
}

// DeleteSavedOrder removes a saved order.
func (c *Client) DeleteSavedOrder(ctx context.Context, savedOrderID int64) error {
	path := "/accounts/" + c.accountID + "/savedorders/" + strconv.FormatInt(savedOrderID, 10)
	if err := c.del(ctx, path); err != nil {
		return fmt.Errorf("delete saved order %d: %w", savedOrderID, err)
	}
	return nil
}

// NewEquityLimitOrder builds a single-leg equity limit order in the
// vendor's order spec shape: LIMIT type, NORMAL session, DAY duration,
// SINGLE strategy. Instruction is "BUY" or "SELL".
func NewEquityLimitOrder(symbol, instruction string, quantity int, price float64) OrderRequest {
	return OrderRequest{
		OrderType:         "LIMIT",
		Session:           "NORMAL",
		Price:             strconv.FormatFloat(price, 'f', 2, 64),
		Duration:          "DAY",
		OrderStrategyType: "SINGLE",
		OrderLegCollection: []OrderLegRequest{
			{
				Instruction: instruction,
				Quantity:    strconv.Itoa(quantity),
				Instrument: OrderInstrumentRequest{
					Symbol:    symbol,
					AssetType: "EQUITY",
				},
			},
		},
	}
}
