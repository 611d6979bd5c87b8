package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_EncodeKeepsOrder(t *testing.T) {
	p := Params{}.Add("nonce", "2").Add("apikey", "k").Add("market", "BTC-LTC")

	assert.Equal(t, "nonce=2&apikey=k&market=BTC-LTC", p.Encode())
}

func TestParams_AddDoesNotMutate(t *testing.T) {
	base := Params{}.Add("a", "1")
	_ = base.Add("b", "2")

	assert.Len(t, base, 1)
}

func TestParams_EncodeEscapes(t *testing.T) {
	p := Params{}.Add("address", "a b&c")

	assert.Equal(t, "address=a+b%26c", p.Encode())
}

func TestParams_EncodeJson(t *testing.T) {
	p := Params{}.Add("Code", "BTCUSD").Add("Way", "Bid").Add("Amount", "0.5")

	body, err := p.EncodeJson()
	require.NoError(t, err)
	assert.Equal(t, `{"Code":"BTCUSD","Way":"Bid","Amount":"0.5"}`, body)
}

func TestRequestSpec_GetMovesBodyIntoQuery(t *testing.T) {
	spec := RequestSpec{
		Method:  http.MethodGet,
		BaseUrl: "https://api.example.com",
		Path:    "/Trade/Trades",
		Body:    Params{}.Add("Count", "10"),
	}

	assert.Equal(t, "https://api.example.com/Trade/Trades?Count=10", spec.Url())
	assert.Equal(t, "", spec.ContentType())

	body, err := spec.EncodeBody()
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestRequestSpec_PostForm(t *testing.T) {
	spec := RequestSpec{
		Method:  http.MethodPost,
		BaseUrl: "https://api.example.com",
		Path:    "/tapi",
		Body:    Params{}.Add("method", "getInfo").Add("nonce", "1"),
	}

	body, err := spec.EncodeBody()
	require.NoError(t, err)
	assert.Equal(t, "method=getInfo&nonce=1", body)
	assert.Equal(t, ContentTypeForm, spec.ContentType())
	assert.Equal(t, "https://api.example.com/tapi", spec.Url())
}

func TestRequestSpec_PostJson(t *testing.T) {
	spec := RequestSpec{
		Method:       http.MethodPost,
		Path:         "/Trade/Orders",
		Body:         Params{}.Add("Code", "BTCUSD"),
		BodyEncoding: BodyJson,
	}

	assert.Equal(t, ContentTypeJson, spec.ContentType())
}

func TestRequestSpec_DeclaredContentTypeWithoutBody(t *testing.T) {
	spec := RequestSpec{
		Method:              http.MethodDelete,
		BaseUrl:             "https://api.example.com",
		Path:                "/Trade/Orders/BK1",
		DeclaredContentType: ContentTypeJson,
	}

	assert.Equal(t, ContentTypeJson, spec.ContentType())
	assert.Equal(t, "https://api.example.com/Trade/Orders/BK1", spec.Url())

	body, err := spec.EncodeBody()
	require.NoError(t, err)
	assert.Empty(t, body)
}
