package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movfeed_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	pagesServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movfeed_pages_served_total",
		Help: "Feed pages rendered for HTTP clients",
	})

	sseClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "movfeed_sse_clients",
		Help: "Connected feed event stream clients",
	})
)
