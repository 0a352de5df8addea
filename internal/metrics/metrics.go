// Package metrics holds the Prometheus collectors for the settle service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/halfsies/internal/urlstate"
)

const namespace = "halfsies"

type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	loads     *prometheus.CounterVec
	transfers prometheus.Histogram
	gatherer  prometheus.Gatherer
}

// New registers the collectors with reg. Passing a fresh registry keeps
// tests independent of the global one.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_loads_total",
			Help:      "Shared links decoded, by outcome.",
		}, []string{"outcome"}),
		transfers: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Transfers emitted per settlement.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		gatherer: reg,
	}
}

// ObserveRequest records one RPC call.
func (m *Metrics) ObserveRequest(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(procedure, code).Inc()
	m.duration.WithLabelValues(procedure).Observe(seconds)
}

// ObserveLoad records the outcome of decoding a shared link. Its signature
// matches urlstate.WithObserver.
func (m *Metrics) ObserveLoad(o urlstate.Outcome) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(string(o)).Inc()
}

// ObserveSettlement records how many transfers a settlement needed.
func (m *Metrics) ObserveSettlement(transfers int) {
	if m == nil {
		return
	}
	m.transfers.Observe(float64(transfers))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
