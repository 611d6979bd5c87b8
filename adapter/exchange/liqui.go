package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
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
	LiquiName = "liqui"

	liquiBaseUrl    = "https://api.liqui.io"
	liquiPublicPath = "/api/3/"
	liquiTapiPath   = "/tapi"
)

type liqui struct {
	client

	publicRule transport.SuccessRule
}

func NewLiquiAdapter(opts Options) *liqui {
	rule := transport.IntRule("success", 1, "error")

	return &liqui{
		client: newClient(
			LiquiName,
			opts.baseUrlOr(liquiBaseUrl),
			opts,
			common.NewSecondNonce(),
			signing.BodySigner{},
			rule,
		),
		// public endpoints only carry the flag when they fail
		publicRule: rule.WithOptional(),
	}
}

func liquiPair(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}

func (l *liqui) public(ctx context.Context, method, symbol string, out any) error {
	spec := transport.RequestSpec{
		Method: http.MethodGet,
		Path:   liquiPublicPath + method,
	}
	if symbol != "" {
		spec.Path += "/" + url.PathEscape(symbol)
	}

	_, err := l.doWith(ctx, spec, l.publicRule, out)
	return err
}

// tapi posts a private command. The signer appends the nonce after params.
func (l *liqui) tapi(ctx context.Context, method string, params transport.Params, out any) error {
	body := transport.Params{}.Add("method", method)
	body = append(body, params...)

	spec := transport.RequestSpec{
		Method:       http.MethodPost,
		Path:         liquiTapiPath,
		Body:         body,
		BodyEncoding: transport.BodyForm,
		RequiresAuth: true,
	}

	_, err := l.do(ctx, spec, out)
	return err
}

func (l *liqui) GetTicker(ctx context.Context, symbol string) (entity.Ticker, error) {
	if err := l.checkSymbol(symbol); err != nil {
		return entity.Ticker{}, err
	}
	pair := liquiPair(symbol)

	var res map[string]entity.LiquiTicker

	if err := l.public(ctx, "ticker", pair, &res); err != nil {
		return entity.Ticker{}, fmt.Errorf("[adapter][exchange][liqui][GetTicker][public] Error: %w", err)
	}

	t, ok := res[pair]
	if !ok {
		return entity.Ticker{}, fmt.Errorf("[adapter][exchange][liqui][GetTicker][missingPair] Error: %w", l.missingPair(pair))
	}

	// "buy" is what a buyer pays and "sell" what a seller receives.
	return entity.Ticker{
		Pair:     symbol,
		Exchange: l.name,
		Bid:      t.Sell,
		Ask:      t.Buy,
		Last:     t.Last,
		Volume:   t.Vol,
	}, nil
}

func (l *liqui) GetOrderbook(ctx context.Context, symbol string) (entity.Orderbook, error) {
	if err := l.checkSymbol(symbol); err != nil {
		return entity.Orderbook{}, err
	}
	pair := liquiPair(symbol)

	var res map[string]entity.LiquiOrderBook

	if err := l.public(ctx, "depth", pair, &res); err != nil {
		return entity.Orderbook{}, fmt.Errorf("[adapter][exchange][liqui][GetOrderbook][public] Error: %w", err)
	}

	book, ok := res[pair]
	if !ok {
		return entity.Orderbook{}, fmt.Errorf("[adapter][exchange][liqui][GetOrderbook][missingPair] Error: %w", l.missingPair(pair))
	}

	return normalize.Orderbook(symbol, l.name, liquiLevels(book.Bids), liquiLevels(book.Asks)), nil
}

func liquiLevels(raw []entity.LiquiRawBookLevel) []entity.BookLevel {
	levels := make([]entity.BookLevel, 0, len(raw))
	for _, l := range raw {
		levels = append(levels, normalize.Level(l[0], l[1]))
	}
	return levels
}

func (l *liqui) GetRecentTrades(ctx context.Context, symbol string) ([]entity.Trade, error) {
	if err := l.checkSymbol(symbol); err != nil {
		return nil, err
	}
	pair := liquiPair(symbol)

	var res map[string][]entity.LiquiPublicTrade

	if err := l.public(ctx, "trades", pair, &res); err != nil {
		return nil, fmt.Errorf("[adapter][exchange][liqui][GetRecentTrades][public] Error: %w", err)
	}

	raw, ok := res[pair]
	if !ok {
		return nil, fmt.Errorf("[adapter][exchange][liqui][GetRecentTrades][missingPair] Error: %w", l.missingPair(pair))
	}

	trades := make([]entity.Trade, 0, len(raw))
	for _, t := range raw {
		side := entity.SideBid
		if t.Type == "ask" || t.Type == "sell" {
			side = entity.SideAsk
		}

		trades = append(trades, entity.Trade{
			Id:        strconv.FormatInt(t.Tid, 10),
			Exchange:  l.name,
			Pair:      symbol,
			Side:      side,
			Price:     t.Price,
			Qty:       t.Amount,
			Timestamp: unixTime(t.Timestamp),
		})
	}

	return trades, nil
}

func (l *liqui) GetMarkets(ctx context.Context) ([]entity.Market, error) {
	var res entity.LiquiInfo

	if err := l.public(ctx, "info", "", &res); err != nil {
		return nil, fmt.Errorf("[adapter][exchange][liqui][GetMarkets][public] Error: %w", err)
	}

	markets := make([]entity.Market, 0, len(res.Pairs))
	for pair, info := range res.Pairs {
		base, quote, _ := strings.Cut(pair, "_")

		markets = append(markets, entity.Market{
			Symbol:        pair,
			BaseCurrency:  strings.ToUpper(base),
			QuoteCurrency: strings.ToUpper(quote),
			MinQty:        info.MinAmount,
			Active:        info.Hidden == 0,
		})
	}

	sort.Slice(markets, func(i, j int) bool {
		return markets[i].Symbol < markets[j].Symbol
	})

	return markets, nil
}

func (l *liqui) missingPair(pair string) error {
	return &entity.DecodeError{Exchange: l.name, Err: errors.New("pair " + pair + " missing from response")}
}

// GetBalances reports every non-zero fund. Liqui gives one amount per
// currency, so total and available are equal and nothing is reserved.
func (l *liqui) GetBalances(ctx context.Context) ([]entity.Balance, error) {
	var res entity.LiquiTapiResponse[entity.LiquiAccountInfo]

	if err := l.tapi(ctx, "getInfo", nil, &res); err != nil {
		return nil, fmt.Errorf("[adapter][exchange][liqui][GetBalances][tapi] Error: %w", err)
	}

	raw := make([]normalize.RawBalance, 0, len(res.Return.Funds))
	for currency, amount := range res.Return.Funds {
		if amount.IsZero() {
			continue
		}

		raw = append(raw, normalize.RawBalance{
			Currency:  currency,
			Total:     amount,
			Available: amount,
			Reserved:  decimalPtr(decimal.Zero),
		})
	}

	balances, err := normalize.Balances(l.name, raw)
	if err != nil {
		return balances, fmt.Errorf("[adapter][exchange][liqui][GetBalances][normalize.Balances] Error: %w", err)
	}

	return balances, nil
}

// CreateLimitOrder returns Liqui's order id. An order filled on placement
// comes back as "0".
func (l *liqui) CreateLimitOrder(ctx context.Context, symbol string, side entity.Side, quantity, price decimal.Decimal) (string, error) {
	if err := l.checkOrder(symbol, side, quantity); err != nil {
		return "", err
	}
	if err := l.checkPositive("price", price); err != nil {
		return "", err
	}

	action := "buy"
	if side == entity.SideAsk {
		action = "sell"
	}

	params := transport.Params{}.
		Add("pair", liquiPair(symbol)).
		Add("type", action).
		Add("rate", price.String()).
		Add("amount", quantity.String())

	var res entity.LiquiTapiResponse[entity.LiquiTradeResult]

	if err := l.tapi(ctx, "trade", params, &res); err != nil {
		return "", fmt.Errorf("[adapter][exchange][liqui][CreateLimitOrder][tapi] Error: %w", err)
	}

	orderId := strconv.FormatInt(res.Return.OrderId, 10)

	l.logger.WithField("order_id", orderId).Infof("placed limit %s on %s", action, symbol)

	return orderId, nil
}

// CreateMarketOrder has no native Liqui endpoint. It reads the book and
// places a limit order at the price of the level that completes quantity,
// or at the deepest level when the book is too thin.
func (l *liqui) CreateMarketOrder(ctx context.Context, symbol string, side entity.Side, quantity decimal.Decimal) (string, error) {
	if err := l.checkOrder(symbol, side, quantity); err != nil {
		return "", err
	}

	book, err := l.GetOrderbook(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("[adapter][exchange][liqui][CreateMarketOrder][GetOrderbook] Error: %w", err)
	}

	levels := book.Ask
	if side == entity.SideAsk {
		levels = book.Bid
	}

	price, ok := marketablePrice(levels, quantity)
	if !ok {
		return "", fmt.Errorf("[adapter][exchange][liqui][CreateMarketOrder][marketablePrice] Error: %w",
			&entity.ExchangeError{Exchange: l.name, Message: "no liquidity on " + symbol})
	}

	return l.CreateLimitOrder(ctx, symbol, side, quantity, price)
}

func marketablePrice(levels []entity.BookLevel, quantity decimal.Decimal) (decimal.Decimal, bool) {
	if len(levels) == 0 {
		return decimal.Zero, false
	}

	filled := decimal.Zero
	for _, level := range levels {
		filled = filled.Add(level.Qty)
		if filled.GreaterThanOrEqual(quantity) {
			return level.Price, true
		}
	}

	return levels[len(levels)-1].Price, true
}

func (l *liqui) checkOrder(symbol string, side entity.Side, quantity decimal.Decimal) error {
	if err := l.checkSymbol(symbol); err != nil {
		return err
	}
	if err := l.checkSide(side); err != nil {
		return err
	}
	return l.checkPositive("quantity", quantity)
}

func (l *liqui) CancelOrder(ctx context.Context, orderId string) error {
	if _, err := strconv.ParseInt(orderId, 10, 64); err != nil {
		return l.invalid("order_id", orderId)
	}

	var res entity.LiquiTapiResponse[entity.LiquiCancelResult]

	if err := l.tapi(ctx, "CancelOrder", transport.Params{}.Add("order_id", orderId), &res); err != nil {
		return fmt.Errorf("[adapter][exchange][liqui][CancelOrder][tapi] Error: %w", err)
	}

	return nil
}

func (l *liqui) GetOpenOrders(ctx context.Context, symbol string) ([]entity.Order, error) {
	if err := l.checkSymbol(symbol); err != nil {
		return nil, err
	}

	var res entity.LiquiTapiResponse[map[string]entity.LiquiOrder]

	err := l.tapi(ctx, "ActiveOrders", transport.Params{}.Add("pair", liquiPair(symbol)), &res)
	if isLiquiEmpty(err) {
		return []entity.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][liqui][GetOpenOrders][tapi] Error: %w", err)
	}

	orders := make([]entity.Order, 0, len(res.Return))
	for id, o := range res.Return {
		order := l.convertOrder(id, o)
		order.Status = entity.OrderStatusOpen
		order.Remaining = o.Amount
		order.CreatedAt = unixTime(o.TimestampCreated)
		orders = append(orders, order)
	}

	sortOrders(orders)

	return orders, nil
}

// GetOrderHistory reads TradeHistory. Every executed trade is reported as a
// filled order carrying the order id it belonged to.
func (l *liqui) GetOrderHistory(ctx context.Context, symbol string, count int) ([]entity.Order, error) {
	if err := l.checkSymbol(symbol); err != nil {
		return nil, err
	}
	if err := l.checkCount(count); err != nil {
		return nil, err
	}

	params := transport.Params{}.
		Add("pair", liquiPair(symbol)).
		Add("count", strconv.Itoa(count))

	var res entity.LiquiTapiResponse[map[string]entity.LiquiOrder]

	err := l.tapi(ctx, "TradeHistory", params, &res)
	if isLiquiEmpty(err) {
		return []entity.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][liqui][GetOrderHistory][tapi] Error: %w", err)
	}

	orders := make([]entity.Order, 0, len(res.Return))
	for id, o := range res.Return {
		if o.OrderId != 0 {
			id = strconv.FormatInt(o.OrderId, 10)
		}
		order := l.convertOrder(id, o)
		order.Status = entity.OrderStatusFilled
		order.Remaining = decimal.Zero
		order.CreatedAt = unixTime(o.Timestamp)
		orders = append(orders, order)
	}

	sortOrders(orders)
	if len(orders) > count {
		orders = orders[:count]
	}

	return orders, nil
}

func (l *liqui) convertOrder(id string, o entity.LiquiOrder) entity.Order {
	side := entity.SideBid
	if o.Type == "sell" {
		side = entity.SideAsk
	}

	return entity.Order{
		Id:       id,
		Exchange: l.name,
		Pair:     o.Pair,
		Side:     side,
		Type:     entity.OrderTypeLimit,
		Price:    o.Rate,
		Qty:      o.Amount,
	}
}

// sortOrders puts the newest first, ties broken by id.
func sortOrders(orders []entity.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].Id > orders[j].Id
	})
}

// Liqui answers success=0 with "no orders" or "no trades" when a list is
// empty.
func isLiquiEmpty(err error) bool {
	var exchangeErr *entity.ExchangeError
	if !errors.As(err, &exchangeErr) {
		return false
	}
	msg := strings.ToLower(exchangeErr.Message)
	return strings.Contains(msg, "no orders") || strings.Contains(msg, "no trades")
}
