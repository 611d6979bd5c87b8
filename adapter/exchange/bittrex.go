package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/milkeg/CryptoBot/adapter/normalize"
	"github.com/milkeg/CryptoBot/adapter/signing"
	"github.com/milkeg/CryptoBot/adapter/transport"
	"github.com/milkeg/CryptoBot/common"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/shopspring/decimal"
)

const (
	BittrexName = "bittrex"

	bittrexBaseUrl   = "https://bittrex.com/api/v1.1"
	bittrexBookDepth = 20
)

type bittrex struct {
	client
}

func NewBittrexAdapter(opts Options) *bittrex {
	return &bittrex{
		client: newClient(
			BittrexName,
			opts.baseUrlOr(bittrexBaseUrl),
			opts,
			common.NewMilliNonce(),
			signing.QuerySigner{},
			transport.BoolRule("success", "message"),
		),
	}
}

func (b *bittrex) public(command string, query transport.Params) transport.RequestSpec {
	return transport.RequestSpec{
		Method: http.MethodGet,
		Path:   "/public/" + command,
		Query:  query,
	}
}

func (b *bittrex) market(command string, query transport.Params) transport.RequestSpec {
	return transport.RequestSpec{
		Method:       http.MethodGet,
		Path:         "/market/" + command,
		Query:        query,
		RequiresAuth: true,
	}
}

func (b *bittrex) account(command string, query transport.Params) transport.RequestSpec {
	return transport.RequestSpec{
		Method:       http.MethodGet,
		Path:         "/account/" + command,
		Query:        query,
		RequiresAuth: true,
	}
}

func (b *bittrex) GetTicker(ctx context.Context, symbol string) (entity.Ticker, error) {
	if err := b.checkSymbol(symbol); err != nil {
		return entity.Ticker{}, err
	}

	var res entity.BittrexResponse[entity.BittrexTicker]

	_, err := b.do(ctx, b.public("getticker", transport.Params{}.Add("market", symbol)), &res)
	if err != nil {
		return entity.Ticker{}, fmt.Errorf("[adapter][exchange][bittrex][GetTicker][do] Error: %w", err)
	}

	return entity.Ticker{
		Pair:     symbol,
		Exchange: b.name,
		Bid:      res.Result.Bid,
		Ask:      res.Result.Ask,
		Last:     res.Result.Last,
	}, nil
}

func (b *bittrex) GetOrderbook(ctx context.Context, symbol string) (entity.Orderbook, error) {
	if err := b.checkSymbol(symbol); err != nil {
		return entity.Orderbook{}, err
	}

	query := transport.Params{}.
		Add("market", symbol).
		Add("type", "both").
		Add("depth", strconv.Itoa(bittrexBookDepth))

	var res entity.BittrexResponse[entity.BittrexOrderBook]

	_, err := b.do(ctx, b.public("getorderbook", query), &res)
	if err != nil {
		return entity.Orderbook{}, fmt.Errorf("[adapter][exchange][bittrex][GetOrderbook][do] Error: %w", err)
	}

	return normalize.Orderbook(symbol, b.name, bittrexLevels(res.Result.Buy), bittrexLevels(res.Result.Sell)), nil
}

func bittrexLevels(raw []entity.BittrexRawBookLevel) []entity.BookLevel {
	levels := make([]entity.BookLevel, 0, len(raw))
	for _, l := range raw {
		levels = append(levels, normalize.Level(l.Rate, l.Quantity))
	}
	return levels
}

func (b *bittrex) GetRecentTrades(ctx context.Context, symbol string) ([]entity.Trade, error) {
	if err := b.checkSymbol(symbol); err != nil {
		return nil, err
	}

	var res entity.BittrexResponse[[]entity.BittrexMarketTrade]

	_, err := b.do(ctx, b.public("getmarkethistory", transport.Params{}.Add("market", symbol)), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][bittrex][GetRecentTrades][do] Error: %w", err)
	}

	trades := make([]entity.Trade, 0, len(res.Result))
	for _, t := range res.Result {
		trades = append(trades, entity.Trade{
			Id:        strconv.FormatInt(t.Id, 10),
			Exchange:  b.name,
			Pair:      symbol,
			Side:      bittrexSide(t.OrderType),
			Price:     t.Price,
			Qty:       t.Quantity,
			Timestamp: parseTime(t.TimeStamp),
		})
	}

	return trades, nil
}

func (b *bittrex) GetMarkets(ctx context.Context) ([]entity.Market, error) {
	var res entity.BittrexResponse[[]entity.BittrexMarket]

	_, err := b.do(ctx, b.public("getmarkets", nil), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][bittrex][GetMarkets][do] Error: %w", err)
	}

	markets := make([]entity.Market, 0, len(res.Result))
	for _, m := range res.Result {
		markets = append(markets, entity.Market{
			Symbol:        m.MarketName,
			BaseCurrency:  m.MarketCurrency,
			QuoteCurrency: m.BaseCurrency,
			MinQty:        m.MinTradeSize,
			Active:        m.IsActive,
		})
	}

	return markets, nil
}

func (b *bittrex) GetCurrencies(ctx context.Context) ([]entity.BittrexCurrency, error) {
	var res entity.BittrexResponse[[]entity.BittrexCurrency]

	_, err := b.do(ctx, b.public("getcurrencies", nil), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][bittrex][GetCurrencies][do] Error: %w", err)
	}

	return res.Result, nil
}

func (b *bittrex) GetMarketSummaries(ctx context.Context) ([]entity.BittrexMarketSummary, error) {
	var res entity.BittrexResponse[[]entity.BittrexMarketSummary]

	_, err := b.do(ctx, b.public("getmarketsummaries", nil), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][bittrex][GetMarketSummaries][do] Error: %w", err)
	}

	return res.Result, nil
}

func (b *bittrex) GetBalances(ctx context.Context) ([]entity.Balance, error) {
	var res entity.BittrexResponse[[]entity.BittrexBalance]

	_, err := b.do(ctx, b.account("getbalances", nil), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][bittrex][GetBalances][do] Error: %w", err)
	}

	raw := make([]normalize.RawBalance, 0, len(res.Result))
	for _, bal := range res.Result {
		raw = append(raw, bittrexRawBalance(bal))
	}

	balances, err := normalize.Balances(b.name, raw)
	if err != nil {
		return balances, fmt.Errorf("[adapter][exchange][bittrex][GetBalances][normalize.Balances] Error: %w", err)
	}

	return balances, nil
}

func (b *bittrex) GetBalance(ctx context.Context, currency string) (entity.Balance, error) {
	var res entity.BittrexResponse[entity.BittrexBalance]

	_, err := b.do(ctx, b.account("getbalance", transport.Params{}.Add("currency", currency)), &res)
	if err != nil {
		return entity.Balance{}, fmt.Errorf("[adapter][exchange][bittrex][GetBalance][do] Error: %w", err)
	}

	balances, err := normalize.Balances(b.name, []normalize.RawBalance{bittrexRawBalance(res.Result)})
	if err != nil {
		return balances[0], fmt.Errorf("[adapter][exchange][bittrex][GetBalance][normalize.Balances] Error: %w", err)
	}

	return balances[0], nil
}

func bittrexRawBalance(bal entity.BittrexBalance) normalize.RawBalance {
	return normalize.RawBalance{
		Currency:  bal.Currency,
		Total:     bal.Balance,
		Available: bal.Available,
		Pending:   decimalPtr(bal.Pending),
	}
}

func (b *bittrex) GetDepositAddress(ctx context.Context, currency string) (string, error) {
	var res entity.BittrexResponse[entity.BittrexDepositAddress]

	_, err := b.do(ctx, b.account("getdepositaddress", transport.Params{}.Add("currency", currency)), &res)
	if err != nil {
		return "", fmt.Errorf("[adapter][exchange][bittrex][GetDepositAddress][do] Error: %w", err)
	}

	return res.Result.Address, nil
}

func (b *bittrex) Withdraw(ctx context.Context, currency string, quantity decimal.Decimal, address string) (string, error) {
	if err := b.checkPositive("quantity", quantity); err != nil {
		return "", err
	}
	if address == "" {
		return "", b.invalid("address", address)
	}

	query := transport.Params{}.
		Add("currency", currency).
		Add("quantity", quantity.String()).
		Add("address", address)

	var res entity.BittrexResponse[entity.BittrexUuid]

	_, err := b.do(ctx, b.account("withdraw", query), &res)
	if err != nil {
		return "", fmt.Errorf("[adapter][exchange][bittrex][Withdraw][do] Error: %w", err)
	}

	return res.Result.Uuid, nil
}

func (b *bittrex) CreateLimitOrder(ctx context.Context, symbol string, side entity.Side, quantity, price decimal.Decimal) (string, error) {
	if err := b.checkOrder(symbol, side, quantity); err != nil {
		return "", err
	}
	if err := b.checkPositive("price", price); err != nil {
		return "", err
	}

	command := "buylimit"
	if side == entity.SideAsk {
		command = "selllimit"
	}

	query := transport.Params{}.
		Add("market", symbol).
		Add("quantity", quantity.String()).
		Add("rate", price.String())

	var res entity.BittrexResponse[entity.BittrexUuid]

	_, err := b.do(ctx, b.market(command, query), &res)
	if err != nil {
		return "", fmt.Errorf("[adapter][exchange][bittrex][CreateLimitOrder][do] Error: %w", err)
	}

	b.logger.WithField("order_id", res.Result.Uuid).Infof("placed %s on %s", command, symbol)

	return res.Result.Uuid, nil
}

func (b *bittrex) CreateMarketOrder(ctx context.Context, symbol string, side entity.Side, quantity decimal.Decimal) (string, error) {
	if err := b.checkOrder(symbol, side, quantity); err != nil {
		return "", err
	}

	command := "buymarket"
	if side == entity.SideAsk {
		command = "sellmarket"
	}

	query := transport.Params{}.
		Add("market", symbol).
		Add("quantity", quantity.String())

	var res entity.BittrexResponse[entity.BittrexUuid]

	_, err := b.do(ctx, b.market(command, query), &res)
	if err != nil {
		return "", fmt.Errorf("[adapter][exchange][bittrex][CreateMarketOrder][do] Error: %w", err)
	}

	b.logger.WithField("order_id", res.Result.Uuid).Infof("placed %s on %s", command, symbol)

	return res.Result.Uuid, nil
}

func (b *bittrex) checkOrder(symbol string, side entity.Side, quantity decimal.Decimal) error {
	if err := b.checkSymbol(symbol); err != nil {
		return err
	}
	if err := b.checkSide(side); err != nil {
		return err
	}
	return b.checkPositive("quantity", quantity)
}

func (b *bittrex) CancelOrder(ctx context.Context, orderId string) error {
	if orderId == "" {
		return b.invalid("order_id", orderId)
	}

	_, err := b.do(ctx, b.market("cancel", transport.Params{}.Add("uuid", orderId)), nil)
	if err != nil {
		return fmt.Errorf("[adapter][exchange][bittrex][CancelOrder][do] Error: %w", err)
	}

	return nil
}

func (b *bittrex) GetOpenOrders(ctx context.Context, symbol string) ([]entity.Order, error) {
	if err := b.checkSymbol(symbol); err != nil {
		return nil, err
	}

	var res entity.BittrexResponse[[]entity.BittrexOrder]

	_, err := b.do(ctx, b.market("getopenorders", transport.Params{}.Add("market", symbol)), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][bittrex][GetOpenOrders][do] Error: %w", err)
	}

	return b.convertOrders(res.Result), nil
}

func (b *bittrex) GetOrderHistory(ctx context.Context, symbol string, count int) ([]entity.Order, error) {
	if err := b.checkSymbol(symbol); err != nil {
		return nil, err
	}
	if err := b.checkCount(count); err != nil {
		return nil, err
	}

	query := transport.Params{}.
		Add("market", symbol).
		Add("count", strconv.Itoa(count))

	var res entity.BittrexResponse[[]entity.BittrexOrder]

	_, err := b.do(ctx, b.account("getorderhistory", query), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][bittrex][GetOrderHistory][do] Error: %w", err)
	}

	orders := b.convertOrders(res.Result)
	if len(orders) > count {
		orders = orders[:count]
	}

	return orders, nil
}

func (b *bittrex) convertOrders(raw []entity.BittrexOrder) []entity.Order {
	orders := make([]entity.Order, 0, len(raw))

	for _, o := range raw {
		price := o.Limit
		if price.IsZero() {
			price = o.Price
		}

		status := entity.OrderStatusOpen
		switch {
		case o.CancelInitiated:
			status = entity.OrderStatusCancelled
		case o.Closed != nil && *o.Closed != "":
			status = entity.OrderStatusFilled
		}

		created := o.Opened
		if created == "" {
			created = o.TimeStamp
		}

		orders = append(orders, entity.Order{
			Id:        o.OrderUuid,
			Exchange:  b.name,
			Pair:      o.Exchange,
			Side:      bittrexSide(o.OrderType),
			Type:      bittrexOrderType(o.OrderType),
			Status:    status,
			Price:     price,
			Qty:       o.Quantity,
			Remaining: o.QuantityRemaining,
			CreatedAt: parseTime(created),
		})
	}

	return orders
}

// bittrexSide maps BUY, LIMIT_BUY, MARKET_BUY and their SELL variants.
func bittrexSide(orderType string) entity.Side {
	if strings.Contains(strings.ToUpper(orderType), "SELL") {
		return entity.SideAsk
	}
	return entity.SideBid
}

func bittrexOrderType(orderType string) entity.OrderType {
	if strings.HasPrefix(strings.ToUpper(orderType), "MARKET") {
		return entity.OrderTypeMarket
	}
	return entity.OrderTypeLimit
}
