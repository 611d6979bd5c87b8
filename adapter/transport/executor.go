package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 10 * time.Second

type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Executor sends one request per call with the timeout fixed at
// construction. It never retries.
type Executor struct {
	exchange string
	timeout  time.Duration
	client   *resty.Client
	logger   logrus.FieldLogger
}

func NewExecutor(exchange string, timeout time.Duration, logger logrus.FieldLogger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(logger)

	return &Executor{
		exchange: exchange,
		timeout:  timeout,
		client:   client,
		logger:   logger,
	}
}

func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

func (e *Executor) Execute(ctx context.Context, spec RequestSpec, headers map[string]string) (RawResponse, error) {
	body, err := spec.EncodeBody()
	if err != nil {
		return RawResponse{}, fmt.Errorf("[adapter][transport][Executor][Execute][EncodeBody] Error: %w", err)
	}

	requestId := uuid.NewString()
	log := e.logger.WithFields(logrus.Fields{
		"exchange":   e.exchange,
		"method":     spec.Method,
		"path":       spec.Path,
		"request_id": requestId,
	})

	req := e.client.R().
		SetContext(ctx).
		SetHeaders(headers)

	if ct := spec.ContentType(); ct != "" {
		req.SetHeader("Content-Type", ct)
	}
	if body != "" {
		req.SetBody(body)
	}

	log.Debug("sending request")

	start := time.Now()
	resp, err := req.Execute(spec.Method, spec.Url())
	elapsed := time.Since(start)

	requestDuration.WithLabelValues(e.exchange, spec.Method).Observe(elapsed.Seconds())

	if err != nil {
		err = redactUrl(err, spec)
		requestsTotal.WithLabelValues(e.exchange, spec.Method, "transport_error").Inc()
		log.WithField("duration", elapsed).Errorf("request failed: %v", err)
		return RawResponse{}, &entity.TransportError{Exchange: e.exchange, Err: err}
	}

	requestsTotal.WithLabelValues(e.exchange, spec.Method, strconv.Itoa(resp.StatusCode())).Inc()
	log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode(),
		"duration":    elapsed,
	}).Debug("received response")

	return RawResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// redactUrl drops the query string from url errors. Query-signed exchanges
// carry the public key there.
func redactUrl(err error, spec RequestSpec) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: spec.AbsoluteUrl(),
		Err: urlErr.Err,
	}
}
