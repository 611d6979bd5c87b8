package transport

import (
	"errors"
	"net/http"
	"strings"

	"github.com/milkeg/CryptoBot/entity"
	"github.com/tidwall/gjson"
)

const maxErrorBody = 512

// SuccessRule locates an exchange's business success flag in a response body.
type SuccessRule struct {
	Path        string
	Match       func(gjson.Result) bool
	MessagePath string

	// Optional treats a missing flag as success. Some public endpoints
	// return bare payloads.
	Optional bool
}

func BoolRule(path, messagePath string) SuccessRule {
	return SuccessRule{
		Path:        path,
		MessagePath: messagePath,
		Match: func(r gjson.Result) bool {
			return r.Type == gjson.True
		},
	}
}

func IntRule(path string, want int64, messagePath string) SuccessRule {
	return SuccessRule{
		Path:        path,
		MessagePath: messagePath,
		Match: func(r gjson.Result) bool {
			return r.Type == gjson.Number && r.Int() == want
		},
	}
}

func StringRule(path, want, messagePath string) SuccessRule {
	return SuccessRule{
		Path:        path,
		MessagePath: messagePath,
		Match: func(r gjson.Result) bool {
			return r.Type == gjson.String && r.String() == want
		},
	}
}

func (r SuccessRule) WithOptional() SuccessRule {
	r.Optional = true
	return r
}

type DecodedResponse struct {
	Success         bool
	Payload         any
	Body            []byte
	RawErrorMessage string
}

type Validator struct {
	exchange string
	rule     SuccessRule
	mode     NumberMode
}

func NewValidator(exchange string, rule SuccessRule, mode NumberMode) *Validator {
	return &Validator{
		exchange: exchange,
		rule:     rule,
		mode:     mode,
	}
}

func (v *Validator) Rule() SuccessRule {
	return v.rule
}

// Validate checks the HTTP status first, then body well-formedness, then the
// exchange success flag. A 200 carrying a business failure is an error.
func (v *Validator) Validate(raw RawResponse) (DecodedResponse, error) {
	return v.validate(raw, v.rule)
}

// ValidateWith is Validate with a per-call rule, for endpoints whose flag
// convention differs from the client default.
func (v *Validator) ValidateWith(raw RawResponse, rule SuccessRule) (DecodedResponse, error) {
	return v.validate(raw, rule)
}

func (v *Validator) validate(raw RawResponse, rule SuccessRule) (DecodedResponse, error) {
	if raw.StatusCode != http.StatusOK {
		responsesTotal.WithLabelValues(v.exchange, "http_error").Inc()
		return DecodedResponse{}, &entity.HttpError{
			Exchange:   v.exchange,
			StatusCode: raw.StatusCode,
			Body:       truncate(string(raw.Body), maxErrorBody),
		}
	}

	if !gjson.ValidBytes(raw.Body) {
		responsesTotal.WithLabelValues(v.exchange, "decode_error").Inc()
		return DecodedResponse{}, &entity.DecodeError{
			Exchange: v.exchange,
			Err:      errors.New("response body is not valid json"),
		}
	}

	payload, err := DecodeTree(raw.Body, v.mode)
	if err != nil {
		responsesTotal.WithLabelValues(v.exchange, "decode_error").Inc()
		return DecodedResponse{}, &entity.DecodeError{Exchange: v.exchange, Err: err}
	}

	decoded := DecodedResponse{
		Payload: payload,
		Body:    raw.Body,
	}

	flag := gjson.GetBytes(raw.Body, rule.Path)
	if !flag.Exists() {
		if rule.Optional {
			responsesTotal.WithLabelValues(v.exchange, "ok").Inc()
			decoded.Success = true
			return decoded, nil
		}

		responsesTotal.WithLabelValues(v.exchange, "decode_error").Inc()
		return DecodedResponse{}, &entity.DecodeError{
			Exchange: v.exchange,
			Err:      errors.New("missing success flag " + rule.Path),
		}
	}

	if rule.Match(flag) {
		responsesTotal.WithLabelValues(v.exchange, "ok").Inc()
		decoded.Success = true
		return decoded, nil
	}

	message := gjson.GetBytes(raw.Body, rule.MessagePath).String()
	if message == "" {
		message = "request rejected without message"
	}
	decoded.RawErrorMessage = message

	exchangeErr := &entity.ExchangeError{Exchange: v.exchange, Message: message}
	if IsAuthMessage(message) {
		responsesTotal.WithLabelValues(v.exchange, "auth_error").Inc()
		return decoded, &entity.AuthError{
			Exchange: v.exchange,
			Reason:   "credentials rejected by exchange",
			Err:      exchangeErr,
		}
	}

	responsesTotal.WithLabelValues(v.exchange, "exchange_error").Inc()
	return decoded, exchangeErr
}

var authKeywords = []string{
	"nonce",
	"apikey",
	"api key",
	"api_key",
	"signature",
	"invalid sign",
	"invalid key",
	"authenticat",
	"permission",
}

// IsAuthMessage reports whether an exchange rejection message points at the
// key, the signature or the nonce.
func IsAuthMessage(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range authKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
