package transport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTree_NumbersBecomeDecimals(t *testing.T) {
	tree, err := DecodeTree([]byte(`{"price":0.1,"qty":"0.2","levels":[[100.5,"2"]],"ok":true,"none":null}`), NumberDecimal)
	require.NoError(t, err)

	m := tree.(map[string]any)
	price, ok := m["price"].(decimal.Decimal)
	require.True(t, ok)
	assert.Equal(t, "0.1", price.String())

	assert.Equal(t, "0.2", m["qty"])
	assert.Equal(t, true, m["ok"])
	assert.Nil(t, m["none"])

	level := m["levels"].([]any)[0].([]any)
	assert.Equal(t, "100.5", level[0].(decimal.Decimal).String())
	assert.Equal(t, "2", level[1])
}

func TestDecodeTree_PreservesPrecision(t *testing.T) {
	tree, err := DecodeTree([]byte(`{"v":0.123456789012345678901234567890}`), NumberDecimal)
	require.NoError(t, err)

	v := tree.(map[string]any)["v"].(decimal.Decimal)
	assert.Equal(t, "0.12345678901234567890123456789", v.String())
}

func TestDecodeTree_StringMode(t *testing.T) {
	tree, err := DecodeTree([]byte(`[1.50, 2e-8]`), NumberString)
	require.NoError(t, err)

	assert.Equal(t, []any{"1.50", "2e-8"}, tree)
}

func TestDecodeTree_Malformed(t *testing.T) {
	_, err := DecodeTree([]byte(`{"a":`), NumberDecimal)
	assert.Error(t, err)

	_, err = DecodeTree([]byte(`{} {}`), NumberDecimal)
	assert.Error(t, err)
}

func TestParseNumberMode(t *testing.T) {
	m, err := ParseNumberMode("")
	require.NoError(t, err)
	assert.Equal(t, NumberDecimal, m)

	m, err = ParseNumberMode("String")
	require.NoError(t, err)
	assert.Equal(t, NumberString, m)

	_, err = ParseNumberMode("float")
	assert.Error(t, err)
}

func TestDecodeInto_DecimalFields(t *testing.T) {
	var v struct {
		Rate     decimal.Decimal `json:"Rate"`
		Quantity decimal.Decimal `json:"Quantity"`
	}

	require.NoError(t, DecodeInto([]byte(`{"Rate":0.00012345,"Quantity":"12.5"}`), &v))
	assert.Equal(t, "0.00012345", v.Rate.String())
	assert.Equal(t, "12.5", v.Quantity.String())
}
