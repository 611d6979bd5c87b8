package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/milkeg/CryptoBot/adapter/transport"
	"github.com/milkeg/CryptoBot/common"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBittrex_GetOrderbook(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":true,"message":"","result":{
			"buy":[{"Quantity":1,"Rate":100.2},{"Quantity":"2","Rate":"100.5"},{"Quantity":5,"Rate":100.2}],
			"sell":[{"Quantity":3,"Rate":101.0},{"Quantity":1,"Rate":100.8}]}}`
	})

	opts, _ := testOptions(srv.URL, false)
	b := NewBittrexAdapter(opts)

	book, err := b.GetOrderbook(context.Background(), "BTC-LTC")
	require.NoError(t, err)

	require.Len(t, book.Bid, 2)
	assert.Equal(t, "100.5", book.Bid[0].Price.String())
	assert.Equal(t, "2", book.Bid[0].Qty.String())
	assert.Equal(t, "100.2", book.Bid[1].Price.String())
	assert.Equal(t, "5", book.Bid[1].Qty.String())

	require.Len(t, book.Ask, 2)
	assert.Equal(t, "100.8", book.Ask[0].Price.String())
	assert.Equal(t, "101", book.Ask[1].Price.String())

	req := rec.last()
	assert.Equal(t, "/public/getorderbook", req.Path)
	assert.Equal(t, "market=BTC-LTC&type=both&depth=20", req.Query)
	assert.Empty(t, req.Headers.Get("apisign"))
}

func TestBittrex_SignedCall(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":true,"message":"","result":[
			{"Currency":"btc","Balance":5,"Available":3,"Pending":0},
			{"Currency":"LTC","Balance":"1.5","Available":"1.5","Pending":"0.1"}]}`
	})

	opts, hook := testOptions(srv.URL, true)
	b := NewBittrexAdapter(opts)

	balances, err := b.GetBalances(context.Background())
	require.NoError(t, err)

	require.Len(t, balances, 2)
	assert.Equal(t, "BTC", balances[0].Currency)
	assert.Equal(t, "2", balances[0].Reserved.String())
	assert.Equal(t, "LTC", balances[1].Currency)
	assert.Equal(t, "0.1", balances[1].Pending.String())

	req := rec.last()
	assert.Equal(t, "/account/getbalances", req.Path)

	query, err := url.ParseQuery(req.Query)
	require.NoError(t, err)
	assert.Equal(t, testPublicKey, query.Get("apikey"))
	assert.NotEmpty(t, query.Get("nonce"))

	expected := common.HmacHash(req.Url, []byte(testSecretKey))
	assert.Equal(t, expected, req.Headers.Get("apisign"))

	assertNoSecretsLogged(t, hook)
}

func TestBittrex_NonceIncreases(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":true,"message":"","result":[]}`
	})

	opts, _ := testOptions(srv.URL, true)
	b := NewBittrexAdapter(opts)

	for i := 0; i < 3; i++ {
		_, err := b.GetOpenOrders(context.Background(), "BTC-LTC")
		require.NoError(t, err)
	}

	var previous string
	for _, req := range rec.all() {
		query, _ := url.ParseQuery(req.Query)
		nonce := query.Get("nonce")
		if previous != "" {
			assert.True(t, decimal.RequireFromString(nonce).GreaterThan(decimal.RequireFromString(previous)))
		}
		previous = nonce
	}
}

func TestBittrex_MissingCredentials(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":true}`
	})

	opts, _ := testOptions(srv.URL, false)
	b := NewBittrexAdapter(opts)

	_, err := b.GetBalances(context.Background())

	assert.True(t, errors.Is(err, entity.ErrAuth))
	assert.Empty(t, rec.all())
}

func TestBittrex_BusinessFailure(t *testing.T) {
	srv, _ := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":false,"message":"INSUFFICIENT_FUNDS","result":null}`
	})

	opts, hook := testOptions(srv.URL, true)
	b := NewBittrexAdapter(opts)

	_, err := b.CreateLimitOrder(context.Background(), "BTC-LTC", entity.SideBid, decimal.RequireFromString("1"), decimal.RequireFromString("0.01"))

	var exchangeErr *entity.ExchangeError
	require.True(t, errors.As(err, &exchangeErr))
	assert.Equal(t, "INSUFFICIENT_FUNDS", exchangeErr.Message)
	assert.Equal(t, BittrexName, exchangeErr.Exchange)
	assert.False(t, errors.Is(err, entity.ErrAuth))

	assertNoSecretsLogged(t, hook)
}

func TestBittrex_RejectedKeyIsAuthError(t *testing.T) {
	srv, _ := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":false,"message":"APIKEY_INVALID","result":null}`
	})

	opts, _ := testOptions(srv.URL, true)
	b := NewBittrexAdapter(opts)

	_, err := b.GetBalances(context.Background())

	assert.True(t, errors.Is(err, entity.ErrAuth))
}

func TestBittrex_HttpError(t *testing.T) {
	srv, _ := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusServiceUnavailable, `{"success":true,"result":{"buy":[],"sell":[]}}`
	})

	opts, _ := testOptions(srv.URL, false)
	b := NewBittrexAdapter(opts)

	_, err := b.GetOrderbook(context.Background(), "BTC-LTC")

	var httpErr *entity.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestBittrex_CreateOrders(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":true,"message":"","result":{"uuid":"e606d53c-8d70-11e3-94b5-425861b86ab6"}}`
	})

	opts, _ := testOptions(srv.URL, true)
	b := NewBittrexAdapter(opts)

	id, err := b.CreateLimitOrder(context.Background(), "BTC-LTC", entity.SideAsk, decimal.RequireFromString("1.50"), decimal.RequireFromString("0.0001"))
	require.NoError(t, err)
	assert.Equal(t, "e606d53c-8d70-11e3-94b5-425861b86ab6", id)

	req := rec.last()
	assert.Equal(t, "/market/selllimit", req.Path)
	query, _ := url.ParseQuery(req.Query)
	assert.Equal(t, "1.5", query.Get("quantity"))
	assert.Equal(t, "0.0001", query.Get("rate"))

	_, err = b.CreateMarketOrder(context.Background(), "BTC-LTC", entity.SideBid, decimal.RequireFromString("2"))
	require.NoError(t, err)
	assert.Equal(t, "/market/buymarket", rec.last().Path)
}

func TestBittrex_InvalidArguments(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":true}`
	})

	opts, _ := testOptions(srv.URL, true)
	b := NewBittrexAdapter(opts)
	ctx := context.Background()

	_, err := b.CreateLimitOrder(ctx, "BTC-LTC", entity.Side("Buy"), decimal.NewFromInt(1), decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument))

	_, err = b.CreateLimitOrder(ctx, "BTC-LTC", entity.SideBid, decimal.Zero, decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument))

	_, err = b.CreateLimitOrder(ctx, "BTC-LTC", entity.SideBid, decimal.NewFromInt(1), decimal.NewFromInt(-1))
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument))

	_, err = b.GetOrderHistory(ctx, "BTC-LTC", 0)
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument))

	assert.Empty(t, rec.all())
}

func TestBittrex_GetOrderHistory(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":true,"message":"","result":[
			{"OrderUuid":"a","Exchange":"BTC-LTC","OrderType":"LIMIT_SELL","Quantity":2,"QuantityRemaining":0,"Limit":0.01,"Price":0.02,"TimeStamp":"2014-07-09T04:01:00.667","Closed":"2014-07-09T04:01:01.000"},
			{"OrderUuid":"b","Exchange":"BTC-LTC","OrderType":"LIMIT_BUY","Quantity":1,"QuantityRemaining":1,"Limit":0.01,"Price":0,"TimeStamp":"2014-07-09T03:01:00.000","Closed":null,"CancelInitiated":true}]}`
	})

	opts, _ := testOptions(srv.URL, true)
	b := NewBittrexAdapter(opts)

	orders, err := b.GetOrderHistory(context.Background(), "BTC-LTC", 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, entity.SideAsk, orders[0].Side)
	assert.Equal(t, entity.OrderStatusFilled, orders[0].Status)
	assert.Equal(t, 2014, orders[0].CreatedAt.Year())
	assert.Equal(t, entity.SideBid, orders[1].Side)
	assert.Equal(t, entity.OrderStatusCancelled, orders[1].Status)

	query, _ := url.ParseQuery(rec.last().Query)
	assert.Equal(t, "10", query.Get("count"))
	assert.Equal(t, "/account/getorderhistory", rec.last().Path)
}

func TestBittrex_AccountExtras(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		switch req.Path {
		case "/public/getmarkets":
			return http.StatusOK, `{"success":true,"message":"","result":[
				{"MarketCurrency":"LTC","BaseCurrency":"BTC","MarketName":"BTC-LTC","MinTradeSize":0.01,"IsActive":true}]}`
		case "/account/getdepositaddress":
			return http.StatusOK, `{"success":true,"message":"","result":{"Currency":"BTC","Address":"1abc"}}`
		case "/account/withdraw":
			return http.StatusOK, `{"success":true,"message":"","result":{"uuid":"w-1"}}`
		}
		return http.StatusNotFound, `{}`
	})

	opts, hook := testOptions(srv.URL, true)
	b := NewBittrexAdapter(opts)
	ctx := context.Background()

	markets, err := b.GetMarkets(ctx)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "BTC-LTC", markets[0].Symbol)
	assert.Equal(t, "LTC", markets[0].BaseCurrency)
	assert.Equal(t, "BTC", markets[0].QuoteCurrency)
	assert.Equal(t, "0.01", markets[0].MinQty.String())

	address, err := b.GetDepositAddress(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, "1abc", address)

	id, err := b.Withdraw(ctx, "BTC", decimal.RequireFromString("0.5"), "1abc")
	require.NoError(t, err)
	assert.Equal(t, "w-1", id)

	query, err := url.ParseQuery(rec.last().Query)
	require.NoError(t, err)
	assert.Equal(t, "0.5", query.Get("quantity"))
	assert.Equal(t, "1abc", query.Get("address"))

	_, err = b.Withdraw(ctx, "BTC", decimal.RequireFromString("0.5"), "")
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument))

	assertNoSecretsLogged(t, hook)
}

func TestBittrex_CallDecodesInNumberMode(t *testing.T) {
	srv, rec := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":true,"message":"","result":{"Bid":0.00001230,"Ask":0.00001250,"Last":0.00001240}}`
	})

	spec := transport.RequestSpec{
		Method: http.MethodGet,
		Path:   "/public/getticker",
		Query:  transport.Params{}.Add("market", "BTC-LTC"),
	}

	t.Run("string", func(t *testing.T) {
		opts, _ := testOptions(srv.URL, false)
		opts.NumberMode = transport.NumberString
		b := NewBittrexAdapter(opts)

		res, err := b.Call(context.Background(), spec)
		require.NoError(t, err)
		assert.True(t, res.Success)

		result := res.Payload.(map[string]any)["result"].(map[string]any)
		assert.Equal(t, "0.00001230", result["Bid"])
		assert.Equal(t, "0.00001250", result["Ask"])
	})

	t.Run("decimal", func(t *testing.T) {
		opts, _ := testOptions(srv.URL, false)
		b := NewBittrexAdapter(opts)

		res, err := b.Call(context.Background(), spec)
		require.NoError(t, err)

		result := res.Payload.(map[string]any)["result"].(map[string]any)
		bid, ok := result["Bid"].(decimal.Decimal)
		require.True(t, ok)
		assert.Equal(t, "0.0000123", bid.String())
	})

	assert.Equal(t, "market=BTC-LTC", rec.last().Query)
}

func TestBittrex_CallRejection(t *testing.T) {
	srv, _ := newFakeExchange(t, func(req recordedRequest) (int, string) {
		return http.StatusOK, `{"success":false,"message":"INVALID_MARKET","result":null}`
	})

	opts, _ := testOptions(srv.URL, false)
	b := NewBittrexAdapter(opts)

	_, err := b.Call(context.Background(), transport.RequestSpec{Method: http.MethodGet, Path: "/public/getticker"})
	assert.True(t, errors.Is(err, entity.ErrExchange))
}
