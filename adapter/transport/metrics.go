package transport

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptobot",
			Subsystem: "exchange",
			Name:      "requests_total",
			Help:      "Outbound exchange requests by exchange, method and HTTP status or transport_error",
		},
		[]string{"exchange", "method", "outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cryptobot",
			Subsystem: "exchange",
			Name:      "request_duration_seconds",
			Help:      "Outbound exchange request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"exchange", "method"},
	)

	responsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptobot",
			Subsystem: "exchange",
			Name:      "responses_total",
			Help:      "Validated exchange responses by result kind",
		},
		[]string{"exchange", "result"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, responsesTotal)
}
