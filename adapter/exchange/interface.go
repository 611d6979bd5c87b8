package exchange

import (
	"context"

	"github.com/milkeg/CryptoBot/entity"
	"github.com/shopspring/decimal"
)

// ExchangeAdapter is the capability set every exchange client offers.
// Symbols are in the exchange's own spelling; see entity.CurrencyPair.
type ExchangeAdapter interface {
	Name() string

	GetTicker(ctx context.Context, symbol string) (entity.Ticker, error)
	GetOrderbook(ctx context.Context, symbol string) (entity.Orderbook, error)
	GetRecentTrades(ctx context.Context, symbol string) ([]entity.Trade, error)

	// GetBalances may return a non-nil error wrapping
	// entity.ErrInconsistentBalance together with the full balance list.
	GetBalances(ctx context.Context) ([]entity.Balance, error)

	CreateLimitOrder(ctx context.Context, symbol string, side entity.Side, quantity, price decimal.Decimal) (string, error)
	CreateMarketOrder(ctx context.Context, symbol string, side entity.Side, quantity decimal.Decimal) (string, error)
	CancelOrder(ctx context.Context, orderId string) error
	GetOpenOrders(ctx context.Context, symbol string) ([]entity.Order, error)
	GetOrderHistory(ctx context.Context, symbol string, count int) ([]entity.Order, error)
}
