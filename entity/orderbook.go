package entity

import "github.com/shopspring/decimal"

type Orderbook struct {
	Pair     string      `json:"pair"`
	Exchange string      `json:"exchange"`
	Bid      []BookLevel `json:"bid"`
	Ask      []BookLevel `json:"ask"`
}

type BookLevel struct {
	Price decimal.Decimal `json:"price"`
	Qty   decimal.Decimal `json:"qty"`
}

// BestBid returns the highest bid, false when the bid side is empty.
func (o Orderbook) BestBid() (BookLevel, bool) {
	if len(o.Bid) == 0 {
		return BookLevel{}, false
	}
	return o.Bid[0], true
}

// BestAsk returns the lowest ask, false when the ask side is empty.
func (o Orderbook) BestAsk() (BookLevel, bool) {
	if len(o.Ask) == 0 {
		return BookLevel{}, false
	}
	return o.Ask[0], true
}
