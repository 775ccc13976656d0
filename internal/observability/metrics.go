package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests sent to the polymer database, by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of requests sent to the polymer database",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Requests served by the API, by route pattern and status code",
		},
		[]string{"route", "code"},
	)
)

// Register adds every collector of this package to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{UpstreamRequests, UpstreamDuration, HTTPRequests} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveUpstream records one upstream call. Outcome is "ok", "timeout" or
// "error".
func ObserveUpstream(endpoint string, err error, elapsed time.Duration) {
	outcome := "ok"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func ObserveHTTP(route string, code int) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
