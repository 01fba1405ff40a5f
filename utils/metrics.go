package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors, registered on the default registry and exposed
// through /metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datestack_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "datestack_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"method", "path"})

	EventsSyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datestack_events_synced_total",
		Help: "Total number of events accepted through sync",
	})

	ICSRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datestack_ics_refresh_total",
		Help: "Total number of ICS subscription refreshes by result",
	}, []string{"result"})

	AvailabilityLookupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datestack_availability_lookups_total",
		Help: "Total number of public availability lookups",
	})
)
