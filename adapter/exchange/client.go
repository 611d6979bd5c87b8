package exchange

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/milkeg/CryptoBot/adapter/signing"
	"github.com/milkeg/CryptoBot/adapter/transport"
	"github.com/milkeg/CryptoBot/common"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// client runs one call through auth check, nonce, signing, transport and
// validation. Exchange implementations embed it.
type client struct {
	name    string
	baseUrl string

	creds  common.Credentials
	nonce  *common.Nonce
	signer signing.Signer

	// signPublic signs public calls too whenever credentials are set.
	signPublic bool

	executor  *transport.Executor
	validator *transport.Validator
	logger    logrus.FieldLogger
}

func newClient(name, baseUrl string, opts Options, nonce *common.Nonce, signer signing.Signer, rule transport.SuccessRule) client {
	logger := opts.logger().WithField("exchange", name)

	return client{
		name:      name,
		baseUrl:   strings.TrimRight(baseUrl, "/"),
		creds:     common.NewCredentials(opts.PublicKey, opts.SecretKey),
		nonce:     nonce,
		signer:    signer,
		executor:  transport.NewExecutor(name, opts.Timeout, logger),
		validator: transport.NewValidator(name, rule, opts.NumberMode),
		logger:    logger,
	}
}

func (c *client) Name() string {
	return c.name
}

func (c *client) BaseUrl() string {
	return c.baseUrl
}

// Call sends a raw request and returns the validated response. Its Payload is
// the generic tree decoded in the client's number mode, for endpoints the
// typed methods do not cover.
func (c *client) Call(ctx context.Context, spec transport.RequestSpec) (transport.DecodedResponse, error) {
	return c.doWith(ctx, spec, c.validator.Rule(), nil)
}

// do sends spec and, when out is non-nil, decodes the validated body into it.
func (c *client) do(ctx context.Context, spec transport.RequestSpec, out any) (transport.DecodedResponse, error) {
	return c.doWith(ctx, spec, c.validator.Rule(), out)
}

func (c *client) doWith(ctx context.Context, spec transport.RequestSpec, rule transport.SuccessRule, out any) (transport.DecodedResponse, error) {
	if spec.BaseUrl == "" {
		spec.BaseUrl = c.baseUrl
	}

	if spec.RequiresAuth && c.creds.Empty() {
		return transport.DecodedResponse{}, &entity.AuthError{
			Exchange: c.name,
			Reason:   "public and secret key are required for " + spec.Path,
		}
	}

	headers := signing.Headers{}
	signed := spec.RequiresAuth || (c.signPublic && !c.creds.Empty())
	if signed {
		spec, headers = c.signer.Sign(c.creds, spec, c.nonce.Next())
	}

	raw, err := c.executor.Execute(ctx, spec, headers)
	if err != nil {
		return transport.DecodedResponse{}, err
	}

	decoded, err := c.validator.ValidateWith(raw, rule)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method":      spec.Method,
			"path":        spec.Path,
			"status_code": raw.StatusCode,
		}).Warnf("call rejected: %v", err)

		// The call itself is not retried. Later calls start from the clock
		// again in case it ran ahead of the counter.
		if signed && isNonceRejection(err) {
			c.nonce.Resync()
		}

		return decoded, err
	}

	if out != nil {
		if err := transport.DecodeInto(raw.Body, out); err != nil {
			return decoded, &entity.DecodeError{Exchange: c.name, Err: err}
		}
	}

	return decoded, nil
}

func isNonceRejection(err error) bool {
	var exchangeErr *entity.ExchangeError
	if !errors.Is(err, entity.ErrAuth) || !errors.As(err, &exchangeErr) {
		return false
	}
	return strings.Contains(strings.ToLower(exchangeErr.Message), "nonce")
}

func (c *client) invalid(argument, value string) error {
	return &entity.InvalidArgumentError{Exchange: c.name, Argument: argument, Value: value}
}

func (c *client) checkSide(side entity.Side) error {
	if !side.Valid() {
		return c.invalid("side", string(side))
	}
	return nil
}

func (c *client) checkPositive(argument string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return c.invalid(argument, v.String())
	}
	return nil
}

func (c *client) checkCount(count int) error {
	if count <= 0 {
		return c.invalid("count", strconv.Itoa(count))
	}
	return nil
}

func (c *client) checkSymbol(symbol string) error {
	if strings.TrimSpace(symbol) == "" {
		return c.invalid("symbol", symbol)
	}
	return nil
}
