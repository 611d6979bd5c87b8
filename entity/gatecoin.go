package entity

import "github.com/shopspring/decimal"

type GatecoinResponseStatus struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type GatecoinRawBookLevel struct {
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

type GatecoinMarketDepth struct {
	Asks []GatecoinRawBookLevel `json:"asks"`
	Bids []GatecoinRawBookLevel `json:"bids"`
}

type GatecoinTicker struct {
	CurrencyPair   string          `json:"currencyPair"`
	Open           decimal.Decimal `json:"open"`
	Last           decimal.Decimal `json:"last"`
	High           decimal.Decimal `json:"high"`
	Low            decimal.Decimal `json:"low"`
	Volume         decimal.Decimal `json:"volume"`
	Bid            decimal.Decimal `json:"bid"`
	Ask            decimal.Decimal `json:"ask"`
	CreateDateTime string          `json:"createDateTime"`
}

type GatecoinLiveTicker struct {
	Ticker GatecoinTicker `json:"ticker"`
}

type GatecoinTickerHistory struct {
	Tickers []GatecoinTicker `json:"tickers"`
}

type GatecoinBalance struct {
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	PendingIncoming  decimal.Decimal `json:"pendingIncoming"`
	PendingOutgoing  decimal.Decimal `json:"pendingOutgoing"`
	OpenOrder        decimal.Decimal `json:"openOrder"`
	IsDigital        bool            `json:"isDigital"`
}

type GatecoinBalances struct {
	Balances []GatecoinBalance `json:"balances"`
}

type GatecoinSingleBalance struct {
	Balance GatecoinBalance `json:"balance"`
}

type GatecoinPlaceOrder struct {
	ClOrderId string `json:"clOrderId"`
}

// GatecoinOrder.Side is 0 for bids and 1 for asks.
type GatecoinOrder struct {
	Code              string          `json:"code"`
	ClOrderId         string          `json:"clOrderId"`
	Side              int             `json:"side"`
	Price             decimal.Decimal `json:"price"`
	InitialQuantity   decimal.Decimal `json:"initialQuantity"`
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	Status            int             `json:"status"`
	StatusDesc        string          `json:"statusDesc"`
	Type              int             `json:"type"`
	Date              string          `json:"date"`
}

type GatecoinOrders struct {
	Orders []GatecoinOrder `json:"orders"`
}

type GatecoinSingleOrder struct {
	Order GatecoinOrder `json:"order"`
}

type GatecoinTransaction struct {
	TransactionId   int64           `json:"transactionId"`
	TransactionTime string          `json:"transactionTime"`
	AskOrderId      string          `json:"askOrderId"`
	BidOrderId      string          `json:"bidOrderId"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
	CurrencyPair    string          `json:"currencyPair"`
	Way             string          `json:"way"`
}

type GatecoinTransactions struct {
	Transactions []GatecoinTransaction `json:"transactions"`
}
