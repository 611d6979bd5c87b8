package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBid Side = "Bid"
	SideAsk Side = "Ask"
)

func (s Side) Valid() bool {
	return s == SideBid || s == SideAsk
}

type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusFilled    OrderStatus = "done"
	OrderStatusCancelled OrderStatus = "canceled"
)

type Ticker struct {
	Pair     string          `json:"pair"`
	Exchange string          `json:"exchange"`
	Bid      decimal.Decimal `json:"bid"`
	Ask      decimal.Decimal `json:"ask"`
	Last     decimal.Decimal `json:"last"`
	Volume   decimal.Decimal `json:"volume"`
}

type Order struct {
	Id        string          `json:"id"`
	Exchange  string          `json:"exchange"`
	Pair      string          `json:"pair"`
	Side      Side            `json:"side"`
	Type      OrderType       `json:"type"`
	Status    OrderStatus     `json:"status"`
	Price     decimal.Decimal `json:"price"`
	Qty       decimal.Decimal `json:"qty"`
	Remaining decimal.Decimal `json:"remaining"`
	CreatedAt time.Time       `json:"created_at"`
}

// Filled is the executed part of the order.
func (o Order) Filled() decimal.Decimal {
	return o.Qty.Sub(o.Remaining)
}

type Trade struct {
	Id        string          `json:"id"`
	Exchange  string          `json:"exchange"`
	Pair      string          `json:"pair"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Qty       decimal.Decimal `json:"qty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Market struct {
	Symbol        string          `json:"symbol"`
	BaseCurrency  string          `json:"base_currency"`
	QuoteCurrency string          `json:"quote_currency"`
	MinQty        decimal.Decimal `json:"min_qty"`
	Active        bool            `json:"active"`
}
