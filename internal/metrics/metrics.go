// Package metrics holds the gateway's Prometheus collectors. Everything is
// registered on the default registry via promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgw_upstream_requests_total",
		Help: "Upstream fetches that went to the network, by outcome.",
	}, []string{"result"})

	UpstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "xgw_upstream_request_duration_seconds",
		Help:    "Wall time of upstream network fetches.",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 180, 300},
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgw_cache_hits_total",
		Help: "Fetch cache hits by tier.",
	}, []string{"tier"})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xgw_cache_misses_total",
		Help: "Fetches that missed every cache tier.",
	})

	RelayBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgw_relay_bytes_total",
		Help: "Bytes relayed to clients, by relay kind.",
	}, []string{"kind"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgw_http_requests_total",
		Help: "Gateway HTTP requests by route and status code.",
	}, []string{"route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xgw_http_request_duration_seconds",
		Help:    "Gateway HTTP request latency by route.",
		Buckets: []float64{0.05, 0.25, 1, 5, 30, 120, 300},
	}, []string{"route"})
)
