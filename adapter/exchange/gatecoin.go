package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/milkeg/CryptoBot/adapter/normalize"
	"github.com/milkeg/CryptoBot/adapter/signing"
	"github.com/milkeg/CryptoBot/adapter/transport"
	"github.com/milkeg/CryptoBot/common"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/shopspring/decimal"
)

const (
	GatecoinName = "gatecoin"

	gatecoinBaseUrl = "https://api.gatecoin.com"
)

var gatecoinTimeframes = map[string]bool{
	"1m":  true,
	"15m": true,
	"1h":  true,
	"6h":  true,
	"24h": true,
}

type gatecoin struct {
	client
}

func NewGatecoinAdapter(opts Options) *gatecoin {
	c := newClient(
		GatecoinName,
		opts.baseUrlOr(gatecoinBaseUrl),
		opts,
		common.NewMicroNonce(),
		signing.HeaderSigner{},
		transport.StringRule("responseStatus.message", "OK", "responseStatus.message"),
	)
	c.signPublic = true

	return &gatecoin{client: c}
}

func (g *gatecoin) request(method, path string, params transport.Params, auth bool) transport.RequestSpec {
	spec := transport.RequestSpec{
		Method:       method,
		Path:         path,
		BodyEncoding: transport.BodyJson,
		RequiresAuth: auth,
	}
	if spec.HasBody() {
		spec.Body = params
	} else {
		spec.Query = params
	}
	// Only GET goes out without a content type.
	if method != http.MethodGet {
		spec.DeclaredContentType = transport.ContentTypeJson
	}
	return spec
}

func (g *gatecoin) GetTicker(ctx context.Context, symbol string) (entity.Ticker, error) {
	if err := g.checkSymbol(symbol); err != nil {
		return entity.Ticker{}, err
	}

	var res entity.GatecoinLiveTicker

	_, err := g.do(ctx, g.request(http.MethodGet, "/Public/LiveTicker/"+url.PathEscape(symbol), nil, false), &res)
	if err != nil {
		return entity.Ticker{}, fmt.Errorf("[adapter][exchange][gatecoin][GetTicker][do] Error: %w", err)
	}

	return g.convertTicker(symbol, res.Ticker), nil
}

func (g *gatecoin) convertTicker(symbol string, t entity.GatecoinTicker) entity.Ticker {
	return entity.Ticker{
		Pair:     symbol,
		Exchange: g.name,
		Bid:      t.Bid,
		Ask:      t.Ask,
		Last:     t.Last,
		Volume:   t.Volume,
	}
}

// GetTickerHistory accepts the timeframes 1m, 15m, 1h, 6h and 24h.
func (g *gatecoin) GetTickerHistory(ctx context.Context, symbol, timeframe string) ([]entity.Ticker, error) {
	if err := g.checkSymbol(symbol); err != nil {
		return nil, err
	}
	if !gatecoinTimeframes[timeframe] {
		return nil, g.invalid("timeframe", timeframe)
	}

	path := "/Public/TickerHistory/" + url.PathEscape(symbol) + "/" + timeframe

	var res entity.GatecoinTickerHistory

	_, err := g.do(ctx, g.request(http.MethodGet, path, nil, false), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][gatecoin][GetTickerHistory][do] Error: %w", err)
	}

	tickers := make([]entity.Ticker, 0, len(res.Tickers))
	for _, t := range res.Tickers {
		tickers = append(tickers, g.convertTicker(symbol, t))
	}

	return tickers, nil
}

func (g *gatecoin) GetOrderbook(ctx context.Context, symbol string) (entity.Orderbook, error) {
	if err := g.checkSymbol(symbol); err != nil {
		return entity.Orderbook{}, err
	}

	var res entity.GatecoinMarketDepth

	_, err := g.do(ctx, g.request(http.MethodGet, "/Public/MarketDepth/"+url.PathEscape(symbol), nil, false), &res)
	if err != nil {
		return entity.Orderbook{}, fmt.Errorf("[adapter][exchange][gatecoin][GetOrderbook][do] Error: %w", err)
	}

	return normalize.Orderbook(symbol, g.name, gatecoinLevels(res.Bids), gatecoinLevels(res.Asks)), nil
}

func gatecoinLevels(raw []entity.GatecoinRawBookLevel) []entity.BookLevel {
	levels := make([]entity.BookLevel, 0, len(raw))
	for _, l := range raw {
		levels = append(levels, normalize.Level(l.Price, l.Volume))
	}
	return levels
}

func (g *gatecoin) GetRecentTrades(ctx context.Context, symbol string) ([]entity.Trade, error) {
	if err := g.checkSymbol(symbol); err != nil {
		return nil, err
	}

	var res entity.GatecoinTransactions

	_, err := g.do(ctx, g.request(http.MethodGet, "/Public/Transactions/"+url.PathEscape(symbol), nil, false), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][gatecoin][GetRecentTrades][do] Error: %w", err)
	}

	trades := make([]entity.Trade, 0, len(res.Transactions))
	for _, t := range res.Transactions {
		trades = append(trades, entity.Trade{
			Id:        strconv.FormatInt(t.TransactionId, 10),
			Exchange:  g.name,
			Pair:      symbol,
			Side:      gatecoinWay(t.Way),
			Price:     t.Price,
			Qty:       t.Quantity,
			Timestamp: gatecoinTime(t.TransactionTime),
		})
	}

	return trades, nil
}

func (g *gatecoin) GetBalances(ctx context.Context) ([]entity.Balance, error) {
	var res entity.GatecoinBalances

	_, err := g.do(ctx, g.request(http.MethodGet, "/Balance/Balances", nil, true), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][gatecoin][GetBalances][do] Error: %w", err)
	}

	raw := make([]normalize.RawBalance, 0, len(res.Balances))
	for _, bal := range res.Balances {
		raw = append(raw, gatecoinRawBalance(bal))
	}

	balances, err := normalize.Balances(g.name, raw)
	if err != nil {
		return balances, fmt.Errorf("[adapter][exchange][gatecoin][GetBalances][normalize.Balances] Error: %w", err)
	}

	return balances, nil
}

func (g *gatecoin) GetBalance(ctx context.Context, currency string) (entity.Balance, error) {
	if currency == "" {
		return entity.Balance{}, g.invalid("currency", currency)
	}

	var res entity.GatecoinSingleBalance

	_, err := g.do(ctx, g.request(http.MethodGet, "/Balance/Balances/"+url.PathEscape(currency), nil, true), &res)
	if err != nil {
		return entity.Balance{}, fmt.Errorf("[adapter][exchange][gatecoin][GetBalance][do] Error: %w", err)
	}

	balances, err := normalize.Balances(g.name, []normalize.RawBalance{gatecoinRawBalance(res.Balance)})
	if err != nil {
		return balances[0], fmt.Errorf("[adapter][exchange][gatecoin][GetBalance][normalize.Balances] Error: %w", err)
	}

	return balances[0], nil
}

// Gatecoin reports funds locked in open orders explicitly, so reserved is
// not derived.
func gatecoinRawBalance(bal entity.GatecoinBalance) normalize.RawBalance {
	return normalize.RawBalance{
		Currency:  bal.Currency,
		Total:     bal.Balance,
		Available: bal.AvailableBalance,
		Reserved:  decimalPtr(bal.OpenOrder),
		Pending:   decimalPtr(bal.PendingIncoming.Sub(bal.PendingOutgoing)),
	}
}

func (g *gatecoin) CreateLimitOrder(ctx context.Context, symbol string, side entity.Side, quantity, price decimal.Decimal) (string, error) {
	if err := g.checkOrder(symbol, side, quantity); err != nil {
		return "", err
	}
	if err := g.checkPositive("price", price); err != nil {
		return "", err
	}

	body := transport.Params{}.
		Add("Code", symbol).
		Add("Way", string(side)).
		Add("Amount", quantity.String()).
		Add("Price", price.String())

	var res entity.GatecoinPlaceOrder

	_, err := g.do(ctx, g.request(http.MethodPost, "/Trade/Orders", body, true), &res)
	if err != nil {
		return "", fmt.Errorf("[adapter][exchange][gatecoin][CreateLimitOrder][do] Error: %w", err)
	}

	g.logger.WithField("order_id", res.ClOrderId).Infof("placed limit %s on %s", side, symbol)

	return res.ClOrderId, nil
}

func (g *gatecoin) CreateMarketOrder(ctx context.Context, symbol string, side entity.Side, quantity decimal.Decimal) (string, error) {
	if err := g.checkOrder(symbol, side, quantity); err != nil {
		return "", err
	}

	body := transport.Params{}.
		Add("Code", symbol).
		Add("Way", string(side)).
		Add("Amount", quantity.String())

	var res entity.GatecoinPlaceOrder

	_, err := g.do(ctx, g.request(http.MethodPost, "/Trade/Orders", body, true), &res)
	if err != nil {
		return "", fmt.Errorf("[adapter][exchange][gatecoin][CreateMarketOrder][do] Error: %w", err)
	}

	g.logger.WithField("order_id", res.ClOrderId).Infof("placed market %s on %s", side, symbol)

	return res.ClOrderId, nil
}

func (g *gatecoin) checkOrder(symbol string, side entity.Side, quantity decimal.Decimal) error {
	if err := g.checkSymbol(symbol); err != nil {
		return err
	}
	if err := g.checkSide(side); err != nil {
		return err
	}
	return g.checkPositive("quantity", quantity)
}

func (g *gatecoin) CancelOrder(ctx context.Context, orderId string) error {
	if orderId == "" {
		return g.invalid("order_id", orderId)
	}

	_, err := g.do(ctx, g.request(http.MethodDelete, "/Trade/Orders/"+url.PathEscape(orderId), nil, true), nil)
	if err != nil {
		return fmt.Errorf("[adapter][exchange][gatecoin][CancelOrder][do] Error: %w", err)
	}

	return nil
}

func (g *gatecoin) CancelAllOrders(ctx context.Context) error {
	_, err := g.do(ctx, g.request(http.MethodDelete, "/Trade/Orders", nil, true), nil)
	if err != nil {
		return fmt.Errorf("[adapter][exchange][gatecoin][CancelAllOrders][do] Error: %w", err)
	}

	return nil
}

func (g *gatecoin) GetOrder(ctx context.Context, orderId string) (entity.Order, error) {
	if orderId == "" {
		return entity.Order{}, g.invalid("order_id", orderId)
	}

	var res entity.GatecoinSingleOrder

	_, err := g.do(ctx, g.request(http.MethodGet, "/Trade/Orders/"+url.PathEscape(orderId), nil, true), &res)
	if err != nil {
		return entity.Order{}, fmt.Errorf("[adapter][exchange][gatecoin][GetOrder][do] Error: %w", err)
	}

	return g.convertOrder(res.Order), nil
}

// GetOpenOrders lists all open orders and keeps those on symbol.
func (g *gatecoin) GetOpenOrders(ctx context.Context, symbol string) ([]entity.Order, error) {
	if err := g.checkSymbol(symbol); err != nil {
		return nil, err
	}

	var res entity.GatecoinOrders

	_, err := g.do(ctx, g.request(http.MethodGet, "/Trade/Orders", nil, true), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][gatecoin][GetOpenOrders][do] Error: %w", err)
	}

	orders := []entity.Order{}
	for _, o := range res.Orders {
		if !strings.EqualFold(o.Code, symbol) {
			continue
		}
		order := g.convertOrder(o)
		order.Status = entity.OrderStatusOpen
		orders = append(orders, order)
	}

	return orders, nil
}

// GetOrderHistory reads the account's executed trades, each one reported as
// a filled order.
func (g *gatecoin) GetOrderHistory(ctx context.Context, symbol string, count int) ([]entity.Order, error) {
	if err := g.checkSymbol(symbol); err != nil {
		return nil, err
	}
	if err := g.checkCount(count); err != nil {
		return nil, err
	}

	params := transport.Params{}.Add("Count", strconv.Itoa(count))

	var res entity.GatecoinTransactions

	_, err := g.do(ctx, g.request(http.MethodGet, "/Trade/Trades", params, true), &res)
	if err != nil {
		return nil, fmt.Errorf("[adapter][exchange][gatecoin][GetOrderHistory][do] Error: %w", err)
	}

	orders := []entity.Order{}
	for _, t := range res.Transactions {
		if t.CurrencyPair != "" && !strings.EqualFold(t.CurrencyPair, symbol) {
			continue
		}

		side := gatecoinWay(t.Way)
		id := t.BidOrderId
		if side == entity.SideAsk {
			id = t.AskOrderId
		}

		orders = append(orders, entity.Order{
			Id:        id,
			Exchange:  g.name,
			Pair:      symbol,
			Side:      side,
			Type:      entity.OrderTypeLimit,
			Status:    entity.OrderStatusFilled,
			Price:     t.Price,
			Qty:       t.Quantity,
			Remaining: decimal.Zero,
			CreatedAt: gatecoinTime(t.TransactionTime),
		})

		if len(orders) == count {
			break
		}
	}

	return orders, nil
}

func (g *gatecoin) convertOrder(o entity.GatecoinOrder) entity.Order {
	side := entity.SideBid
	if o.Side == 1 {
		side = entity.SideAsk
	}

	orderType := entity.OrderTypeLimit
	if o.Type == 1 {
		orderType = entity.OrderTypeMarket
	}

	status := entity.OrderStatusOpen
	switch {
	case strings.Contains(strings.ToLower(o.StatusDesc), "cancel"):
		status = entity.OrderStatusCancelled
	case o.RemainingQuantity.IsZero() && o.InitialQuantity.IsPositive():
		status = entity.OrderStatusFilled
	}

	return entity.Order{
		Id:        o.ClOrderId,
		Exchange:  g.name,
		Pair:      o.Code,
		Side:      side,
		Type:      orderType,
		Status:    status,
		Price:     o.Price,
		Qty:       o.InitialQuantity,
		Remaining: o.RemainingQuantity,
		CreatedAt: gatecoinTime(o.Date),
	}
}

func gatecoinWay(way string) entity.Side {
	if strings.EqualFold(way, "ask") {
		return entity.SideAsk
	}
	return entity.SideBid
}

// gatecoinTime reads unix seconds sent as a string, or an ISO timestamp.
func gatecoinTime(s string) time.Time {
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return unixTime(sec)
	}
	return parseTime(s)
}
