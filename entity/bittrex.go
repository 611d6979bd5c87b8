package entity

import "github.com/shopspring/decimal"

type BittrexResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

type BittrexRawBookLevel struct {
	Quantity decimal.Decimal `json:"Quantity"`
	Rate     decimal.Decimal `json:"Rate"`
}

type BittrexOrderBook struct {
	Buy  []BittrexRawBookLevel `json:"buy"`
	Sell []BittrexRawBookLevel `json:"sell"`
}

type BittrexTicker struct {
	Bid  decimal.Decimal `json:"Bid"`
	Ask  decimal.Decimal `json:"Ask"`
	Last decimal.Decimal `json:"Last"`
}

type BittrexMarketSummary struct {
	MarketName string          `json:"MarketName"`
	High       decimal.Decimal `json:"High"`
	Low        decimal.Decimal `json:"Low"`
	Volume     decimal.Decimal `json:"Volume"`
	Last       decimal.Decimal `json:"Last"`
	Bid        decimal.Decimal `json:"Bid"`
	Ask        decimal.Decimal `json:"Ask"`
	TimeStamp  string          `json:"TimeStamp"`
}

type BittrexMarket struct {
	MarketCurrency string          `json:"MarketCurrency"`
	BaseCurrency   string          `json:"BaseCurrency"`
	MarketName     string          `json:"MarketName"`
	MinTradeSize   decimal.Decimal `json:"MinTradeSize"`
	IsActive       bool            `json:"IsActive"`
}

type BittrexCurrency struct {
	Currency     string          `json:"Currency"`
	CurrencyLong string          `json:"CurrencyLong"`
	TxFee        decimal.Decimal `json:"TxFee"`
	IsActive     bool            `json:"IsActive"`
}

type BittrexMarketTrade struct {
	Id        int64           `json:"Id"`
	TimeStamp string          `json:"TimeStamp"`
	Quantity  decimal.Decimal `json:"Quantity"`
	Price     decimal.Decimal `json:"Price"`
	OrderType string          `json:"OrderType"`
}

type BittrexBalance struct {
	Currency  string          `json:"Currency"`
	Balance   decimal.Decimal `json:"Balance"`
	Available decimal.Decimal `json:"Available"`
	Pending   decimal.Decimal `json:"Pending"`
}

type BittrexUuid struct {
	Uuid string `json:"uuid"`
}

type BittrexOrder struct {
	OrderUuid         string          `json:"OrderUuid"`
	Exchange          string          `json:"Exchange"`
	OrderType         string          `json:"OrderType"`
	Quantity          decimal.Decimal `json:"Quantity"`
	QuantityRemaining decimal.Decimal `json:"QuantityRemaining"`
	Limit             decimal.Decimal `json:"Limit"`
	Price             decimal.Decimal `json:"Price"`
	Opened            string          `json:"Opened"`
	TimeStamp         string          `json:"TimeStamp"`
	Closed            *string         `json:"Closed"`
	CancelInitiated   bool            `json:"CancelInitiated"`
}

type BittrexDepositAddress struct {
	Currency string `json:"Currency"`
	Address  string `json:"Address"`
}
