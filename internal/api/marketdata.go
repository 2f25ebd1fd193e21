package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetQuotes fetches quotes for one or more symbols in a single call.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (QuotesResponse, error) {
	if len(symbols) == 0 {
		return QuotesResponse{}, nil
	}

	query := url.Values{}
	query.Set("symbol", strings.Join(symbols, ","))

	var resp QuotesResponse
	if err := c.get(ctx, "/marketdata/quotes", query, &resp); err != nil {
		return nil, fmt.Errorf("get quotes: %w", err)
	}

	return resp, nil
}

// GetQuote fetches a quote for a single symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*APIQuote, error) {
	quotes, err := c.GetQuotes(ctx, []string{symbol})
	if err != nil {
		return nil, err
	}

	q, ok := quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("get quote %s: symbol not in response", symbol)
	}

	return &q, nil
}

// GetPriceHistory fetches OHLCV candles for a symbol. The vendor
// requires periodType for daily/weekly/monthly frequencies but rejects
// it alongside explicit start/end dates for minute frequency, so it is
// only sent when FrequencyType is not "minute".
func (c *Client) GetPriceHistory(ctx context.Context, symbol string, opts PriceHistoryOptions) (*PriceHistoryResponse, error) {
	query := url.Values{}

	frequencyType := opts.FrequencyType
	if frequencyType == "" {
		frequencyType = "daily"
	}
	frequency := opts.Frequency
	if frequency == 0 {
		frequency = 1
	}

	query.Set("frequencyType", frequencyType)
	query.Set("frequency", strconv.Itoa(frequency))

	if frequencyType != "minute" {
		periodType := opts.PeriodType
		if periodType == "" {
			periodType = "year"
		}
		query.Set("periodType", periodType)
		if opts.Period > 0 {
			query.Set("period", strconv.Itoa(opts.Period))
		}
	}

	if !opts.Start.IsZero() {
		query.Set("startDate", strconv.FormatInt(opts.Start.UnixMilli(), 10))
	}
	if !opts.End.IsZero() {
		query.Set("endDate", strconv.FormatInt(opts.End.UnixMilli(), 10))
	}

	query.Set("needExtendedHoursData", strconv.FormatBool(opts.ExtendedHours))

	var resp PriceHistoryResponse
	if err := c.get(ctx, "/marketdata/"+symbol+"/pricehistory", query, &resp); err != nil {
		return nil, fmt.Errorf("get price history %s: %w", symbol, err)
	}

	return &resp, nil
}

// GetInstruments searches instruments by symbol with the given
// projection (e.g. "symbol-search", "fundamental").
func (c *Client) GetInstruments(ctx context.Context, symbols []string, projection string) (InstrumentsResponse, error) {
	query := url.Values{}
	query.Set("symbol", strings.Join(symbols, ","))
	query.Set("projection", projection)

	var resp InstrumentsResponse
	if err := c.get(ctx, "/instruments", query, &resp); err != nil {
		return nil, fmt.Errorf("get instruments: %w", err)
	}

	return resp, nil
}

// GetFundamentals fetches fundamental data for the given symbols.
func (c *Client) GetFundamentals(ctx context.Context, symbols []string) (map[string]APIFundamental, error) {
	instruments, err := c.GetInstruments(ctx, symbols, "fundamental")
	if err != nil {
		return nil, fmt.Errorf("get fundamentals: %w", err)
	}

	fundamentals := make(map[string]APIFundamental, len(instruments))
	for sym, inst := range instruments {
		if inst.Fundamental != nil {
			fundamentals[sym] = *inst.Fundamental
		}
	}

	return fundamentals, nil
}
