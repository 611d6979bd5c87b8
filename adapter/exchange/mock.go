package exchange

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/milkeg/CryptoBot/adapter/normalize"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/shopspring/decimal"
)

// mockExchange is an in-memory paper exchange. Orders match against the
// stored books and consume the levels they fill.
type mockExchange struct {
	name string

	books    map[string]entity.Orderbook
	balances []entity.Balance

	activeOrders []entity.Order
	history      []entity.Order
	trades       []entity.Trade

	seq int64
	now func() time.Time

	mut sync.Mutex
}

func NewMockExchange(name string, books map[string]entity.Orderbook, balances []entity.Balance) *mockExchange {
	m := &mockExchange{
		name:         name,
		books:        map[string]entity.Orderbook{},
		balances:     append([]entity.Balance{}, balances...),
		activeOrders: []entity.Order{},
		history:      []entity.Order{},
		trades:       []entity.Trade{},
		now:          time.Now,
	}

	for symbol, book := range books {
		m.SetOrderbook(symbol, book)
	}

	return m
}

func (m *mockExchange) Name() string {
	return m.name
}

// SetOrderbook replaces the book for symbol, normalizing it first.
func (m *mockExchange) SetOrderbook(symbol string, book entity.Orderbook) {
	m.mut.Lock()
	defer m.mut.Unlock()

	m.books[symbol] = normalize.Orderbook(symbol, m.name, book.Bid, book.Ask)
}

func (m *mockExchange) book(symbol string) (entity.Orderbook, error) {
	book, ok := m.books[symbol]
	if !ok {
		return entity.Orderbook{}, &entity.ExchangeError{Exchange: m.name, Message: "unknown market " + symbol}
	}
	return book, nil
}

func (m *mockExchange) GetTicker(ctx context.Context, symbol string) (entity.Ticker, error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	book, err := m.book(symbol)
	if err != nil {
		return entity.Ticker{}, err
	}

	ticker := entity.Ticker{Pair: symbol, Exchange: m.name}
	if bid, ok := book.BestBid(); ok {
		ticker.Bid = bid.Price
	}
	if ask, ok := book.BestAsk(); ok {
		ticker.Ask = ask.Price
	}
	for i := len(m.trades) - 1; i >= 0; i-- {
		if m.trades[i].Pair == symbol {
			ticker.Last = m.trades[i].Price
			break
		}
	}
	for _, t := range m.trades {
		if t.Pair == symbol {
			ticker.Volume = ticker.Volume.Add(t.Qty)
		}
	}

	return ticker, nil
}

func (m *mockExchange) GetOrderbook(ctx context.Context, symbol string) (entity.Orderbook, error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	book, err := m.book(symbol)
	if err != nil {
		return entity.Orderbook{}, err
	}

	return entity.Orderbook{
		Pair:     book.Pair,
		Exchange: book.Exchange,
		Bid:      append([]entity.BookLevel{}, book.Bid...),
		Ask:      append([]entity.BookLevel{}, book.Ask...),
	}, nil
}

func (m *mockExchange) GetRecentTrades(ctx context.Context, symbol string) ([]entity.Trade, error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	if _, err := m.book(symbol); err != nil {
		return nil, err
	}

	trades := []entity.Trade{}
	for _, t := range m.trades {
		if t.Pair == symbol {
			trades = append(trades, t)
		}
	}

	return trades, nil
}

func (m *mockExchange) GetBalances(ctx context.Context) ([]entity.Balance, error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	out := append([]entity.Balance{}, m.balances...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Currency < out[j].Currency
	})

	return out, nil
}

func (m *mockExchange) CreateLimitOrder(ctx context.Context, symbol string, side entity.Side, quantity, price decimal.Decimal) (string, error) {
	if !price.IsPositive() {
		return "", &entity.InvalidArgumentError{Exchange: m.name, Argument: "price", Value: price.String()}
	}
	return m.place(symbol, side, entity.OrderTypeLimit, quantity, price)
}

func (m *mockExchange) CreateMarketOrder(ctx context.Context, symbol string, side entity.Side, quantity decimal.Decimal) (string, error) {
	return m.place(symbol, side, entity.OrderTypeMarket, quantity, decimal.Zero)
}

func (m *mockExchange) place(symbol string, side entity.Side, orderType entity.OrderType, quantity, price decimal.Decimal) (string, error) {
	if !side.Valid() {
		return "", &entity.InvalidArgumentError{Exchange: m.name, Argument: "side", Value: string(side)}
	}
	if !quantity.IsPositive() {
		return "", &entity.InvalidArgumentError{Exchange: m.name, Argument: "quantity", Value: quantity.String()}
	}

	m.mut.Lock()
	defer m.mut.Unlock()

	if _, err := m.book(symbol); err != nil {
		return "", err
	}

	m.seq++
	order := entity.Order{
		Id:        fmt.Sprintf("%s-%s-%d", m.name, strings.ToLower(symbol), m.seq),
		Exchange:  m.name,
		Pair:      symbol,
		Side:      side,
		Type:      orderType,
		Status:    entity.OrderStatusOpen,
		Price:     price,
		Qty:       quantity,
		Remaining: quantity,
		CreatedAt: m.now(),
	}

	m.executeOrder(&order)

	switch {
	case order.Remaining.IsZero():
		order.Status = entity.OrderStatusFilled
		m.history = append(m.history, order)
	case orderType == entity.OrderTypeMarket:
		// unfilled market remainder does not rest on the book
		order.Status = entity.OrderStatusCancelled
		m.history = append(m.history, order)
	default:
		m.activeOrders = append(m.activeOrders, order)
	}

	return order.Id, nil
}

// executeOrder fills order against the opposite side of its book, best
// price first, and removes what it consumed.
func (m *mockExchange) executeOrder(order *entity.Order) {
	book := m.books[order.Pair]

	side := book.Ask
	if order.Side == entity.SideAsk {
		side = book.Bid
	}

	consumed := 0
	for i := range side {
		level := &side[i]

		canMatch := order.Type == entity.OrderTypeMarket
		if !canMatch {
			switch order.Side {
			case entity.SideBid:
				canMatch = level.Price.LessThanOrEqual(order.Price)
			case entity.SideAsk:
				canMatch = level.Price.GreaterThanOrEqual(order.Price)
			}
		}
		if !canMatch || order.Remaining.IsZero() {
			break
		}

		partial := decimal.Min(order.Remaining, level.Qty)
		order.Remaining = order.Remaining.Sub(partial)
		level.Qty = level.Qty.Sub(partial)

		m.trades = append(m.trades, entity.Trade{
			Id:        fmt.Sprintf("%s-fill-%d", order.Id, i),
			Exchange:  m.name,
			Pair:      order.Pair,
			Side:      order.Side,
			Price:     level.Price,
			Qty:       partial,
			Timestamp: order.CreatedAt,
		})

		if level.Qty.IsZero() {
			consumed++
		}
	}

	side = side[consumed:]
	if order.Side == entity.SideAsk {
		book.Bid = side
	} else {
		book.Ask = side
	}
	m.books[order.Pair] = book
}

func (m *mockExchange) CancelOrder(ctx context.Context, orderId string) error {
	m.mut.Lock()
	defer m.mut.Unlock()

	found := -1
	for i := range m.activeOrders {
		if m.activeOrders[i].Id == orderId {
			found = i
			break
		}
	}

	if found == -1 {
		return &entity.ExchangeError{Exchange: m.name, Message: "order " + orderId + " not found"}
	}

	canceled := m.activeOrders[found]
	canceled.Status = entity.OrderStatusCancelled

	m.activeOrders = append(m.activeOrders[:found], m.activeOrders[found+1:]...)
	m.history = append(m.history, canceled)

	return nil
}

func (m *mockExchange) GetOpenOrders(ctx context.Context, symbol string) ([]entity.Order, error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	orders := []entity.Order{}
	for _, o := range m.activeOrders {
		if o.Pair == symbol {
			orders = append(orders, o)
		}
	}

	return orders, nil
}

// GetOrderHistory returns up to count finished orders on symbol, newest
// first.
func (m *mockExchange) GetOrderHistory(ctx context.Context, symbol string, count int) ([]entity.Order, error) {
	if count <= 0 {
		return nil, &entity.InvalidArgumentError{Exchange: m.name, Argument: "count", Value: fmt.Sprint(count)}
	}

	m.mut.Lock()
	defer m.mut.Unlock()

	orders := []entity.Order{}
	for i := len(m.history) - 1; i >= 0 && len(orders) < count; i-- {
		if m.history[i].Pair == symbol {
			orders = append(orders, m.history[i])
		}
	}

	return orders, nil
}

// WriteOrders dumps active and finished orders as one JSON line.
func (m *mockExchange) WriteOrders(w io.Writer) error {
	m.mut.Lock()
	outData := struct {
		Exchange string         `json:"exchange"`
		Active   []entity.Order `json:"active"`
		History  []entity.Order `json:"history"`
	}{
		Exchange: m.name,
		Active:   m.activeOrders,
		History:  m.history,
	}

	b, err := json.Marshal(outData)
	m.mut.Unlock()
	if err != nil {
		return fmt.Errorf("[adapter][exchange][mockExchange][WriteOrders][json.Marshal] Error: %w", err)
	}

	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("[adapter][exchange][mockExchange][WriteOrders][Write] Error: %w", err)
	}

	return nil
}
