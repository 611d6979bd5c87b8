package exchange

import (
	"time"

	"github.com/milkeg/CryptoBot/adapter/transport"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// BaseUrl overrides the exchange's public API host.
	BaseUrl    string
	PublicKey  string
	SecretKey  string
	Timeout    time.Duration
	NumberMode transport.NumberMode
	Logger     logrus.FieldLogger
}

func (o Options) baseUrlOr(def string) string {
	if o.BaseUrl == "" {
		return def
	}
	return o.BaseUrl
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.New()
	}
	return o.Logger
}
