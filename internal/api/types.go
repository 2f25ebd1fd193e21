package api

import "time"

// AccountResponse from GET /accounts/{accountId}
type AccountResponse struct {
	SecuritiesAccount SecuritiesAccount `json:"securitiesAccount"`
}

// SecuritiesAccount represents a brokerage account.
type SecuritiesAccount struct {
	Type       string `json:"type"`
	AccountID  string `json:"accountId"`
	RoundTrips int    `json:"roundTrips"`
	IsDayTrader bool  `json:"isDayTrader"`

	Positions       []APIPosition `json:"positions,omitempty"`
	OrderStrategies []APIOrder    `json:"orderStrategies,omitempty"`

	// Balance maps are passed through as-is; the vendor varies the key
	// set by account type (CASH vs MARGIN).
	InitialBalances   map[string]any `json:"initialBalances,omitempty"`
	CurrentBalances   map[string]any `json:"currentBalances,omitempty"`
	ProjectedBalances map[string]any `json:"projectedBalances,omitempty"`
}

// APIPosition represents a position within an account.
type APIPosition struct {
	ShortQuantity            float64       `json:"shortQuantity"`
	LongQuantity             float64       `json:"longQuantity"`
	SettledLongQuantity      float64       `json:"settledLongQuantity"`
	SettledShortQuantity     float64       `json:"settledShortQuantity"`
	AveragePrice             float64       `json:"averagePrice"`
	MarketValue              float64       `json:"marketValue"`
	CurrentDayProfitLoss     float64       `json:"currentDayProfitLoss"`
	CurrentDayProfitLossPct  float64       `json:"currentDayProfitLossPercentage"`
	Instrument               APIInstrument `json:"instrument"`
}

// APIInstrument identifies a tradeable instrument.
type APIInstrument struct {
	AssetType   string `json:"assetType"`
	Cusip       string `json:"cusip,omitempty"`
	Symbol      string `json:"symbol"`
	Description string `json:"description,omitempty"`
	Exchange    string `json:"exchange,omitempty"`
}

// APIOrder represents an order from GET /orders.
type APIOrder struct {
	OrderID           int64         `json:"orderId"`
	Session           string        `json:"session"`
	Duration          string        `json:"duration"`
	OrderType         string        `json:"orderType"`
	Quantity          float64       `json:"quantity"`
	FilledQuantity    float64       `json:"filledQuantity"`
	RemainingQuantity float64       `json:"remainingQuantity"`
	Price             float64       `json:"price"`
	OrderStrategyType string        `json:"orderStrategyType"`
	Status            string        `json:"status"`
	EnteredTime       string        `json:"enteredTime"`
	CloseTime         string        `json:"closeTime,omitempty"`
	AccountID         int64         `json:"accountId"`
	Cancelable        bool          `json:"cancelable"`
	Editable          bool          `json:"editable"`
	OrderLegCollection []APIOrderLeg `json:"orderLegCollection"`
}

// APIOrderLeg is one leg of an order.
type APIOrderLeg struct {
	OrderLegType string        `json:"orderLegType,omitempty"`
	LegID        int64         `json:"legId,omitempty"`
	Instruction  string        `json:"instruction"`
	PositionEffect string      `json:"positionEffect,omitempty"`
	Quantity     float64       `json:"quantity"`
	Instrument   APIInstrument `json:"instrument"`
}

// APISavedOrder represents a saved order from GET /accounts/{id}/savedorders.
type APISavedOrder struct {
	SavedOrderID int64  `json:"savedOrderId"`
	SavedTime    string `json:"savedTime"`

	Session           string        `json:"session"`
	Duration          string        `json:"duration"`
	OrderType         string        `json:"orderType"`
	Price             float64       `json:"price"`
	OrderStrategyType string        `json:"orderStrategyType"`
	OrderLegCollection []APIOrderLeg `json:"orderLegCollection"`
}

// OrderRequest is the body for POST/PUT order endpoints. Field shapes
// follow the vendor's order spec: prices and leg quantities are sent as
// strings.
type OrderRequest struct {
	OrderType          string            `json:"orderType"`
	Session            string            `json:"session"`
	Price              string            `json:"price,omitempty"`
	Duration           string            `json:"duration"`
	OrderStrategyType  string            `json:"orderStrategyType"`
	OrderLegCollection []OrderLegRequest `json:"orderLegCollection"`
}

// OrderLegRequest is one leg of an order request.
type OrderLegRequest struct {
	Instruction string               `json:"instruction"`
	Quantity    string               `json:"quantity"`
	Instrument  OrderInstrumentRequest `json:"instrument"`
}

// OrderInstrumentRequest identifies the instrument for an order leg.
type OrderInstrumentRequest struct {
	Symbol    string `json:"symbol"`
	AssetType string `json:"assetType"`
}

// APITransaction represents a transaction from GET /accounts/{id}/transactions.
type APITransaction struct {
	Type            string             `json:"type"`
	SubAccount      string             `json:"subAccount,omitempty"`
	Description     string             `json:"description"`
	TransactionID   int64              `json:"transactionId"`
	OrderID         string             `json:"orderId,omitempty"`
	OrderDate       string             `json:"orderDate,omitempty"`
	TransactionDate string             `json:"transactionDate"`
	SettlementDate  string             `json:"settlementDate,omitempty"`
	NetAmount       float64            `json:"netAmount"`
	Fees            map[string]float64 `json:"fees,omitempty"`
	TransactionItem APITransactionItem `json:"transactionItem"`
}

// APITransactionItem is the instrument-level detail of a transaction.
type APITransactionItem struct {
	AccountID   int64         `json:"accountId"`
	Amount      float64       `json:"amount"`
	Price       float64       `json:"price"`
	Cost        float64       `json:"cost"`
	Instruction string        `json:"instruction,omitempty"`
	Instrument  APIInstrument `json:"instrument"`
}

// APIWatchlist represents a watchlist from GET /accounts/{id}/watchlists.
type APIWatchlist struct {
	Name           string             `json:"name"`
	WatchlistID    string             `json:"watchlistId"`
	AccountID      string             `json:"accountId"`
	WatchlistItems []APIWatchlistItem `json:"watchlistItems"`
}

// APIWatchlistItem is one entry of a watchlist.
type APIWatchlistItem struct {
	SequenceID   int           `json:"sequenceId"`
	Quantity     float64       `json:"quantity"`
	AveragePrice float64       `json:"averagePrice"`
	Commission   float64       `json:"commission"`
	Instrument   APIInstrument `json:"instrument"`
}

// WatchlistRequest is the body for POST /accounts/{id}/watchlists.
type WatchlistRequest struct {
	Name           string                 `json:"name"`
	WatchlistItems []WatchlistItemRequest `json:"watchlistItems"`
}

// WatchlistItemRequest is one entry of a watchlist create request.
type WatchlistItemRequest struct {
	Instrument OrderInstrumentRequest `json:"instrument"`
}

// APIQuote represents a quote from GET /marketdata/quotes.
type APIQuote struct {
	AssetType       string  `json:"assetType"`
	Symbol          string  `json:"symbol"`
	Description     string  `json:"description"`
	BidPrice        float64 `json:"bidPrice"`
	BidSize         int64   `json:"bidSize"`
	AskPrice        float64 `json:"askPrice"`
	AskSize         int64   `json:"askSize"`
	LastPrice       float64 `json:"lastPrice"`
	LastSize        int64   `json:"lastSize"`
	OpenPrice       float64 `json:"openPrice"`
	HighPrice       float64 `json:"highPrice"`
	LowPrice        float64 `json:"lowPrice"`
	ClosePrice      float64 `json:"closePrice"`
	NetChange       float64 `json:"netChange"`
	TotalVolume     int64   `json:"totalVolume"`
	Mark            float64 `json:"mark"`
	Exchange        string  `json:"exchange"`
	ExchangeName    string  `json:"exchangeName"`
	Volatility      float64 `json:"volatility"`
	QuoteTimeMs     int64   `json:"quoteTimeInLong"` // ms since epoch
	TradeTimeMs     int64   `json:"tradeTimeInLong"` // ms since epoch
	RegularMarketLastPrice float64 `json:"regularMarketLastPrice"`
}

// QuotesResponse from GET /marketdata/quotes is keyed by symbol.
type QuotesResponse map[string]APIQuote

// PriceHistoryResponse from GET /marketdata/{symbol}/pricehistory
type PriceHistoryResponse struct {
	Symbol  string      `json:"symbol"`
	Empty   bool        `json:"empty"`
	Candles []APICandle `json:"candles"`
}

// APICandle is a single OHLCV bar.
type APICandle struct {
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   int64   `json:"volume"`
	Datetime int64   `json:"datetime"` // ms since epoch
}

// InstrumentsResponse from GET /instruments is keyed by symbol.
type InstrumentsResponse map[string]APIInstrumentDetail

// APIInstrumentDetail is an instrument with optional fundamental data.
type APIInstrumentDetail struct {
	Cusip       string          `json:"cusip"`
	Symbol      string          `json:"symbol"`
	Description string          `json:"description"`
	Exchange    string          `json:"exchange"`
	AssetType   string          `json:"assetType"`
	Fundamental *APIFundamental `json:"fundamental,omitempty"`
}

// APIFundamental carries fundamental data for an instrument.
type APIFundamental struct {
	Symbol            string  `json:"symbol"`
	High52            float64 `json:"high52"`
	Low52             float64 `json:"low52"`
	DividendAmount    float64 `json:"dividendAmount"`
	DividendYield     float64 `json:"dividendYield"`
	PERatio           float64 `json:"peRatio"`
	PEGRatio          float64 `json:"pegRatio"`
	PBRatio           float64 `json:"pbRatio"`
	PRRatio           float64 `json:"prRatio"`
	PCFRatio          float64 `json:"pcfRatio"`
	GrossMarginTTM    float64 `json:"grossMarginTTM"`
	NetProfitMarginTTM float64 `json:"netProfitMarginTTM"`
	ReturnOnEquity    float64 `json:"returnOnEquity"`
	ReturnOnAssets    float64 `json:"returnOnAssets"`
	TotalDebtToEquity float64 `json:"totalDebtToEquity"`
	EPS               float64 `json:"epsTTM"`
	MarketCap         float64 `json:"marketCap"`
	SharesOutstanding float64 `json:"sharesOutstanding"`
	Beta              float64 `json:"beta"`
	Vol1DayAvg        float64 `json:"vol1DayAvg"`
	Vol10DayAvg       float64 `json:"vol10DayAvg"`
	Vol3MonthAvg      float64 `json:"vol3MonthAvg"`
}

// UserPrincipalsResponse from GET /userprincipals
type UserPrincipalsResponse struct {
	UserID           string                    `json:"userId"`
	UserCdDomainID   string                    `json:"userCdDomainId"`
	PrimaryAccountID string                    `json:"primaryAccountId"`
	Accounts         []APIPrincipalAccount     `json:"accounts"`
	StreamerInfo     *APIStreamerInfo          `json:"streamerInfo,omitempty"`
	SubscriptionKeys *APIStreamerSubscriptions `json:"streamerSubscriptionKeys,omitempty"`
}

// APIPrincipalAccount describes an account within user principals.
type APIPrincipalAccount struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Company     string `json:"company"`
	Segment     string `json:"segment"`
	ACL         string `json:"acl"`
}

// APIStreamerInfo holds streamer connection credentials.
type APIStreamerInfo struct {
	StreamerSocketURL string `json:"streamerSocketUrl"`
	Token             string `json:"token"`
	TokenTimestamp    string `json:"tokenTimestamp"` // ISO 8601
	UserGroup         string `json:"userGroup"`
	AccessLevel       string `json:"accessLevel"`
	ACL               string `json:"acl"`
	AppID             string `json:"appId"`
}

// APIStreamerSubscriptions holds the streamer subscription keys.
type APIStreamerSubscriptions struct {
	Keys []APIStreamerKey `json:"keys"`
}

// APIStreamerKey is a single subscription key.
type APIStreamerKey struct {
	Key string `json:"key"`
}

// GetOrdersOptions configures a GetOrders request.
type GetOrdersOptions struct {
	MaxResults int
	From       time.Time // fromEnteredTime (date precision)
	To         time.Time // toEnteredTime (date precision)
	Status     string    // e.g. QUEUED, WORKING, FILLED
}

// GetTransactionsOptions configures a GetTransactions request.
type GetTransactionsOptions struct {
	Type   string // ALL, TRADE, BUY_ONLY, SELL_ONLY, ...
	Symbol string
	From   time.Time
	To     time.Time
}

// PriceHistoryOptions configures a GetPriceHistory request.
type PriceHistoryOptions struct {
	PeriodType    string // day, month, year, ytd
	Period        int
	FrequencyType string // minute, daily, weekly, monthly
	Frequency     int
	Start         time.Time
	End           time.Time
	ExtendedHours bool
}
