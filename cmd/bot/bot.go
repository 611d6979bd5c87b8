package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/milkeg/CryptoBot/adapter/exchange"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/sirupsen/logrus"
)

type bot struct {
	adapters map[string]exchange.ExchangeAdapter
	pairs    []entity.CurrencyPair

	logger logrus.FieldLogger
	out    io.Writer

	mut sync.Mutex
}

func newBot(adapters []exchange.ExchangeAdapter, pairs []entity.CurrencyPair, logger logrus.FieldLogger, out io.Writer) *bot {
	b := &bot{
		adapters: map[string]exchange.ExchangeAdapter{},
		pairs:    pairs,
		logger:   logger,
		out:      out,
	}

	for _, a := range adapters {
		b.adapters[a.Name()] = a
	}

	return b
}

func (b *bot) adapter(name string) (exchange.ExchangeAdapter, bool) {
	a, ok := b.adapters[name]
	return a, ok
}

func (b *bot) pair(name string) (entity.CurrencyPair, bool) {
	for _, p := range b.pairs {
		if p.Name == name {
			return p, true
		}
	}
	return entity.CurrencyPair{}, false
}

func (b *bot) exchangeNames() []string {
	names := make([]string, 0, len(b.adapters))
	for name := range b.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pairOrderbooks fetches the book of pair from every exchange that lists it.
// A failing exchange is reported in errs and does not affect the others.
func (b *bot) pairOrderbooks(ctx context.Context, pair entity.CurrencyPair) (map[string]entity.Orderbook, map[string]error) {
	var (
		wg   sync.WaitGroup
		mut  sync.Mutex
		obs  = map[string]entity.Orderbook{}
		errs = map[string]error{}
	)

	for _, name := range b.exchangeNames() {
		symbol, ok := pair.Symbol(name)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(a exchange.ExchangeAdapter, symbol string) {
			defer wg.Done()

			ob, err := a.GetOrderbook(ctx, symbol)

			mut.Lock()
			defer mut.Unlock()

			if err != nil {
				errs[a.Name()] = err
				return
			}
			ob.Pair = pair.Name
			obs[a.Name()] = ob
		}(b.adapters[name], symbol)
	}

	wg.Wait()

	return obs, errs
}

// runPass polls every configured pair once, logging the best levels and
// printing each book.
func (b *bot) runPass(ctx context.Context) {
	b.mut.Lock()
	defer b.mut.Unlock()

	for _, pair := range b.pairs {
		obs, errs := b.pairOrderbooks(ctx, pair)

		for name, err := range errs {
			b.logger.WithFields(logrus.Fields{
				"exchange": name,
				"pair":     pair.Name,
			}).Errorf("[bot][runPass][GetOrderbook] Error: %v", err)
		}

		for _, name := range b.exchangeNames() {
			ob, ok := obs[name]
			if !ok {
				continue
			}

			fields := logrus.Fields{
				"exchange": name,
				"pair":     pair.Name,
				"bids":     len(ob.Bid),
				"asks":     len(ob.Ask),
			}
			if bid, ok := ob.BestBid(); ok {
				fields["best_bid"] = bid.Price.String()
			}
			if ask, ok := ob.BestAsk(); ok {
				fields["best_ask"] = ask.Price.String()
			}
			b.logger.WithFields(fields).Info("orderbook")

			if err := b.print(ob); err != nil {
				b.logger.Errorf("[bot][runPass][print] Error: %v", err)
			}
		}
	}
}

func (b *bot) print(ob entity.Orderbook) error {
	if b.out == nil {
		return nil
	}

	data, err := json.MarshalIndent(ob, "", "  ")
	if err != nil {
		return fmt.Errorf("[bot][print][json.MarshalIndent] Error: %w", err)
	}

	if _, err := b.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("[bot][print][Write] Error: %w", err)
	}

	return nil
}
