package entity

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrTransport           = errors.New("transport error")
	ErrHttp                = errors.New("http error")
	ErrDecode              = errors.New("decode error")
	ErrExchange            = errors.New("exchange error")
	ErrAuth                = errors.New("auth error")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInconsistentBalance = errors.New("inconsistent balance")
)

// TransportError covers connection, DNS and timeout failures.
type TransportError struct {
	Exchange string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Exchange, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

type HttpError struct {
	Exchange   string
	StatusCode int
	Body       string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("%s: http status %d: %s", e.Exchange, e.StatusCode, e.Body)
}

func (e *HttpError) Is(target error) bool { return target == ErrHttp }

// DecodeError reports a body that is not well formed for the expected schema.
type DecodeError struct {
	Exchange string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode error: %v", e.Exchange, e.Err)
}

func (e *DecodeError) Unwrap() error        { return e.Err }
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ExchangeError is a business rejection carried by a successful HTTP response.
type ExchangeError struct {
	Exchange string
	Message  string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s: exchange rejected request: %s", e.Exchange, e.Message)
}

func (e *ExchangeError) Is(target error) bool { return target == ErrExchange }

// AuthError is returned when credentials are missing, or when the exchange
// rejected the key, the signature or the nonce. Err holds the exchange
// rejection when there is one.
type AuthError struct {
	Exchange string
	Reason   string
	Err      error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: auth error: %s: %v", e.Exchange, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: auth error: %s", e.Exchange, e.Reason)
}

func (e *AuthError) Unwrap() error        { return e.Err }
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

type InvalidArgumentError struct {
	Exchange string
	Argument string
	Value    string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument %s: %q", e.Exchange, e.Argument, e.Value)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// InconsistentBalanceError is non-fatal: the balance it refers to is still
// returned, with Reserved clamped to zero.
type InconsistentBalanceError struct {
	Exchange  string
	Currency  string
	Total     decimal.Decimal
	Available decimal.Decimal
	Reserved  decimal.Decimal
}

func (e *InconsistentBalanceError) Error() string {
	return fmt.Sprintf("%s: inconsistent balance for %s: total %s, available %s, reserved %s",
		e.Exchange, e.Currency, e.Total, e.Available, e.Reserved)
}

func (e *InconsistentBalanceError) Is(target error) bool { return target == ErrInconsistentBalance }
