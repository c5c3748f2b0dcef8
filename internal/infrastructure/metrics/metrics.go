// Package metrics exports registry operation counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/phone-token-service/internal/application/phonetoken"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "phonetoken"

// Metrics counts token registry operations by outcome.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	issued     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "operations_total",
			Help:      "Token registry operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "tokens_issued_total",
			Help:      "Tokens derived and written for phones seen for the first time.",
		}),
	}
	m.registry.MustRegister(
		m.operations,
		m.issued,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe implements phonetoken.Observer.
func (m *Metrics) Observe(op, outcome string) {
	m.operations.WithLabelValues(op, outcome).Inc()
	if outcome == phonetoken.OutcomeIssued {
		m.issued.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
