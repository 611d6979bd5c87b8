package normalize

import (
	"sort"

	"github.com/milkeg/CryptoBot/entity"
	"github.com/shopspring/decimal"
)

// Orderbook builds the canonical ladder from already extracted levels. A
// price seen twice on one side keeps its last quantity. Bids come out
// highest first, asks lowest first.
func Orderbook(pair, exchange string, bids, asks []entity.BookLevel) entity.Orderbook {
	return entity.Orderbook{
		Pair:     pair,
		Exchange: exchange,
		Bid:      ladder(bids, true),
		Ask:      ladder(asks, false),
	}
}

func ladder(levels []entity.BookLevel, descending bool) []entity.BookLevel {
	byPrice := make(map[string]entity.BookLevel, len(levels))
	for _, l := range levels {
		byPrice[l.Price.String()] = l
	}

	out := make([]entity.BookLevel, 0, len(byPrice))
	for _, l := range byPrice {
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})

	return out
}

// Level is a small helper for extraction steps that hold two decimals.
func Level(price, qty decimal.Decimal) entity.BookLevel {
	return entity.BookLevel{Price: price, Qty: qty}
}
