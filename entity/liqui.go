package entity

import "github.com/shopspring/decimal"

type LiquiTapiResponse[T any] struct {
	Success int    `json:"success"`
	Return  T      `json:"return"`
	Error   string `json:"error"`
}

// LiquiRawBookLevel is a [price, amount] pair.
type LiquiRawBookLevel [2]decimal.Decimal

type LiquiOrderBook struct {
	Asks []LiquiRawBookLevel `json:"asks"`
	Bids []LiquiRawBookLevel `json:"bids"`
}

type LiquiTicker struct {
	High    decimal.Decimal `json:"high"`
	Low     decimal.Decimal `json:"low"`
	Avg     decimal.Decimal `json:"avg"`
	Vol     decimal.Decimal `json:"vol"`
	VolCur  decimal.Decimal `json:"vol_cur"`
	Last    decimal.Decimal `json:"last"`
	Buy     decimal.Decimal `json:"buy"`
	Sell    decimal.Decimal `json:"sell"`
	Updated int64           `json:"updated"`
}

// LiquiPublicTrade.Type is "bid" for buyer-initiated trades, "ask" otherwise.
type LiquiPublicTrade struct {
	Type      string          `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	Tid       int64           `json:"tid"`
	Timestamp int64           `json:"timestamp"`
}

type LiquiPairInfo struct {
	DecimalPlaces int             `json:"decimal_places"`
	MinPrice      decimal.Decimal `json:"min_price"`
	MaxPrice      decimal.Decimal `json:"max_price"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	Hidden        int             `json:"hidden"`
	Fee           decimal.Decimal `json:"fee"`
}

type LiquiInfo struct {
	ServerTime int64                    `json:"server_time"`
	Pairs      map[string]LiquiPairInfo `json:"pairs"`
}

type LiquiAccountInfo struct {
	Funds            map[string]decimal.Decimal `json:"funds"`
	TransactionCount int64                      `json:"transaction_count"`
	OpenOrders       int64                      `json:"open_orders"`
	ServerTime       int64                      `json:"server_time"`
}

type LiquiTradeResult struct {
	Received decimal.Decimal `json:"received"`
	Remains  decimal.Decimal `json:"remains"`
	OrderId  int64           `json:"order_id"`
}

// LiquiOrder covers both ActiveOrders and TradeHistory entries.
type LiquiOrder struct {
	Pair             string          `json:"pair"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Rate             decimal.Decimal `json:"rate"`
	OrderId          int64           `json:"order_id"`
	TimestampCreated int64           `json:"timestamp_created"`
	Timestamp        int64           `json:"timestamp"`
	Status           int             `json:"status"`
}

type LiquiCancelResult struct {
	OrderId int64 `json:"order_id"`
}
