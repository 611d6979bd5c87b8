package transport

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJson = "application/json"
)

type Param struct {
	Key   string
	Value string
}

// Params is an ordered parameter list. Unlike url.Values it keeps insertion
// order, which matters when the encoded string is what gets signed.
type Params []Param

func (p Params) Add(key, value string) Params {
	out := make(Params, len(p), len(p)+1)
	copy(out, p)
	return append(out, Param{Key: key, Value: value})
}

func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

func (p Params) Encode() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	return sb.String()
}

// EncodeJson renders the params as a flat JSON object of strings, in order.
func (p Params) EncodeJson() (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(param.Key)
		if err != nil {
			return "", err
		}
		v, err := json.Marshal(param.Value)
		if err != nil {
			return "", err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

type BodyEncoding int

const (
	BodyForm BodyEncoding = iota
	BodyJson
)

// RequestSpec describes one call. Values are copied on every With* call so a
// spec can be shared without being mutated.
type RequestSpec struct {
	Method       string
	BaseUrl      string
	Path         string
	Query        Params
	Body         Params
	BodyEncoding BodyEncoding
	RequiresAuth bool

	// DeclaredContentType is sent and signed even when the request has no
	// body, e.g. a DELETE on an exchange that expects a JSON content type.
	DeclaredContentType string
}

// HasBody reports whether parameters travel in the body (POST, PUT) rather
// than the query string (GET, DELETE).
func (r RequestSpec) HasBody() bool {
	return r.Method == http.MethodPost || r.Method == http.MethodPut
}

func (r RequestSpec) AbsoluteUrl() string {
	return r.BaseUrl + r.Path
}

func (r RequestSpec) QueryString() string {
	params := r.Query
	if !r.HasBody() && len(r.Body) > 0 {
		params = append(append(Params{}, r.Query...), r.Body...)
	}
	return params.Encode()
}

// Url is the fully assembled request URL, query string included.
func (r RequestSpec) Url() string {
	q := r.QueryString()
	if q == "" {
		return r.AbsoluteUrl()
	}
	return r.AbsoluteUrl() + "?" + q
}

func (r RequestSpec) ContentType() string {
	if r.DeclaredContentType != "" {
		return r.DeclaredContentType
	}
	if !r.HasBody() {
		return ""
	}
	if r.BodyEncoding == BodyJson {
		return ContentTypeJson
	}
	return ContentTypeForm
}

func (r RequestSpec) EncodeBody() (string, error) {
	if !r.HasBody() {
		return "", nil
	}
	if r.BodyEncoding == BodyJson {
		return r.Body.EncodeJson()
	}
	return r.Body.Encode(), nil
}

func (r RequestSpec) WithQuery(query Params) RequestSpec {
	r.Query = append(Params{}, query...)
	return r
}

func (r RequestSpec) WithBody(body Params) RequestSpec {
	r.Body = append(Params{}, body...)
	return r
}
