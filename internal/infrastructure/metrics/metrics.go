// Package metrics holds the Prometheus collectors for the API and the
// exchange core. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skillswap"

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	matchesComputed     prometheus.Counter
	exchangesCreated    prometheus.Counter
	exchangeTransitions *prometheus.CounterVec
	creditsTransferred  prometheus.Counter
	wsConnections       prometheus.Gauge
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,

		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		matchesComputed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_computed_total",
			Help:      "Total number of match results returned",
		}),
		exchangesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchanges_created_total",
			Help:      "Total number of exchanges created",
		}),
		exchangeTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchange_transitions_total",
				Help:      "Exchange status changes by target status",
			},
			[]string{"status"},
		),
		creditsTransferred: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_transferred_total",
			Help:      "Time credits moved from students to teachers",
		}),
		wsConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open websocket connections",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) MatchesComputed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.matchesComputed.Add(float64(n))
}

func (m *Metrics) ExchangeCreated() {
	if m == nil {
		return
	}
	m.exchangesCreated.Inc()
}

func (m *Metrics) ExchangeTransition(status string) {
	if m == nil {
		return
	}
	m.exchangeTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) CreditsTransferred(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.creditsTransferred.Add(float64(n))
}

func (m *Metrics) WSConnected() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

func (m *Metrics) WSDisconnected() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}
