package signing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milkeg/CryptoBot/adapter/transport"
	"github.com/milkeg/CryptoBot/common"
)

type Headers map[string]string

// Signer attaches authentication to a request. It is pure: the same
// credentials, request and nonce always give the same output, and the input
// request is never modified.
type Signer interface {
	Sign(creds common.Credentials, spec transport.RequestSpec, nonce int64) (transport.RequestSpec, Headers)
}

// QuerySigner puts apikey and nonce first in the query string and signs the
// full request URL with HMAC-SHA512, sent as the apisign header.
type QuerySigner struct{}

func (QuerySigner) Sign(creds common.Credentials, spec transport.RequestSpec, nonce int64) (transport.RequestSpec, Headers) {
	query := transport.Params{}.
		Add("apikey", creds.PublicKey()).
		Add("nonce", strconv.FormatInt(nonce, 10))
	query = append(query, spec.Query...)

	signed := spec.WithQuery(query)

	return signed, Headers{
		"apisign": common.HmacHash(signed.Url(), creds.Secret()),
	}
}

// HeaderSigner signs lower(method + base url + path + content type +
// timestamp) with HMAC-SHA256 and sends the base64 digest alongside the key
// and timestamp. The query string is not part of the message. The nonce is a
// microsecond count.
type HeaderSigner struct{}

func (HeaderSigner) Sign(creds common.Credentials, spec transport.RequestSpec, nonce int64) (transport.RequestSpec, Headers) {
	timestamp := FormatMicroTimestamp(nonce)
	message := strings.ToLower(spec.Method + spec.AbsoluteUrl() + spec.ContentType() + timestamp)

	return spec, Headers{
		"API_PUBLIC_KEY":        creds.PublicKey(),
		"API_REQUEST_SIGNATURE": common.HmacSha256Base64(message, creds.Secret()),
		"API_REQUEST_DATE":      timestamp,
	}
}

// BodySigner appends the nonce to the form body and signs the encoded body
// with HMAC-SHA512.
type BodySigner struct{}

func (BodySigner) Sign(creds common.Credentials, spec transport.RequestSpec, nonce int64) (transport.RequestSpec, Headers) {
	signed := spec.WithBody(spec.Body.Add("nonce", strconv.FormatInt(nonce, 10)))

	return signed, Headers{
		"Key":  creds.PublicKey(),
		"Sign": common.HmacHash(signed.Body.Encode(), creds.Secret()),
	}
}

// FormatMicroTimestamp renders a microsecond count as seconds with six
// decimals, e.g. 1500000000.123456.
func FormatMicroTimestamp(micros int64) string {
	return fmt.Sprintf("%d.%06d", micros/1_000_000, micros%1_000_000)
}
