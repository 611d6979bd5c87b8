package transport

import (
	"errors"
	"testing"

	"github.com/milkeg/CryptoBot/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_HttpErrorBeforeBusinessFlag(t *testing.T) {
	v := NewValidator("bittrex", BoolRule("success", "message"), NumberDecimal)

	_, err := v.Validate(RawResponse{StatusCode: 503, Body: []byte(`{"success":true}`)})

	var httpErr *entity.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 503, httpErr.StatusCode)
	assert.Equal(t, "bittrex", httpErr.Exchange)
	assert.True(t, errors.Is(err, entity.ErrHttp))
}

func TestValidator_BusinessFailureOn200(t *testing.T) {
	v := NewValidator("bittrex", BoolRule("success", "message"), NumberDecimal)

	decoded, err := v.Validate(RawResponse{StatusCode: 200, Body: []byte(`{"success":false,"message":"INSUFFICIENT_FUNDS","result":null}`)})

	var exErr *entity.ExchangeError
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, "INSUFFICIENT_FUNDS", exErr.Message)
	assert.Equal(t, "INSUFFICIENT_FUNDS", decoded.RawErrorMessage)
	assert.False(t, decoded.Success)
}

func TestValidator_AuthMessagePromoted(t *testing.T) {
	v := NewValidator("liqui", IntRule("success", 1, "error"), NumberDecimal)

	_, err := v.Validate(RawResponse{StatusCode: 200, Body: []byte(`{"success":0,"error":"invalid nonce parameter; on key:100, you sent:'5'"}`)})

	assert.True(t, errors.Is(err, entity.ErrAuth))
	assert.True(t, errors.Is(err, entity.ErrExchange))
}

func TestValidator_StringRule(t *testing.T) {
	v := NewValidator("gatecoin", StringRule("responseStatus.message", "OK", "responseStatus.message"), NumberDecimal)

	decoded, err := v.Validate(RawResponse{StatusCode: 200, Body: []byte(`{"bids":[],"responseStatus":{"message":"OK"}}`)})
	require.NoError(t, err)
	assert.True(t, decoded.Success)

	_, err = v.Validate(RawResponse{StatusCode: 200, Body: []byte(`{"responseStatus":{"errorCode":"1005","message":"Insufficient balance"}}`)})
	var exErr *entity.ExchangeError
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, "Insufficient balance", exErr.Message)
}

func TestValidator_MissingFlag(t *testing.T) {
	rule := IntRule("success", 1, "error")
	v := NewValidator("liqui", rule, NumberDecimal)

	_, err := v.Validate(RawResponse{StatusCode: 200, Body: []byte(`{"eth_btc":{"asks":[],"bids":[]}}`)})
	assert.True(t, errors.Is(err, entity.ErrDecode))

	decoded, err := v.ValidateWith(RawResponse{StatusCode: 200, Body: []byte(`{"eth_btc":{"asks":[],"bids":[]}}`)}, rule.WithOptional())
	require.NoError(t, err)
	assert.True(t, decoded.Success)
}

func TestValidator_MalformedBody(t *testing.T) {
	v := NewValidator("bittrex", BoolRule("success", "message"), NumberDecimal)

	_, err := v.Validate(RawResponse{StatusCode: 200, Body: []byte(`<html>bad gateway</html>`)})
	assert.True(t, errors.Is(err, entity.ErrDecode))
}

func TestValidator_FlagWrongType(t *testing.T) {
	v := NewValidator("bittrex", BoolRule("success", "message"), NumberDecimal)

	_, err := v.Validate(RawResponse{StatusCode: 200, Body: []byte(`{"success":"true"}`)})
	assert.True(t, errors.Is(err, entity.ErrExchange))
}

func TestIsAuthMessage(t *testing.T) {
	assert.True(t, IsAuthMessage("APIKEY_INVALID"))
	assert.True(t, IsAuthMessage("INVALID_SIGNATURE"))
	assert.True(t, IsAuthMessage("invalid sign"))
	assert.False(t, IsAuthMessage("INSUFFICIENT_FUNDS"))
}
