package main

import (
	"net/url"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/milkeg/CryptoBot/adapter/exchange"
)

type baseUrler interface {
	BaseUrl() string
}

func newHealthcheck(adapters []exchange.ExchangeAdapter) healthcheck.Handler {
	health := healthcheck.NewHandler()

	// Not ready while an exchange host cannot be resolved.
	for _, a := range adapters {
		bu, ok := a.(baseUrler)
		if !ok {
			continue
		}

		u, err := url.Parse(bu.BaseUrl())
		if err != nil || u.Hostname() == "" {
			continue
		}

		health.AddReadinessCheck(a.Name()+"-dns", healthcheck.DNSResolveCheck(u.Hostname(), 500*time.Millisecond))
	}

	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(200))

	return health
}
