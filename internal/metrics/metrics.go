// Package metrics holds the prometheus collectors for the ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fkhayef/splitledger/internal/apperr"
)

const namespace = "splitledger"

// Expense kinds used as the "kind" label.
const (
	KindFriends = "friends"
	KindGroup   = "group"
)

// Metrics is a private registry with the ledger collectors registered on it.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	expensesCreated *prometheus.CounterVec
	splitsCreated   prometheus.Counter
	domainErrors    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		expensesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_created_total",
			Help:      "Expenses recorded, by participant source.",
		}, []string{"kind"}),
		splitsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_created_total",
			Help:      "Split rows recorded.",
		}),
		domainErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_errors_total",
			Help:      "Failed operations, by error kind.",
		}, []string{"kind"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.expensesCreated,
		m.splitsCreated,
		m.domainErrors,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ExpenseCreated records one expense and its split rows.
func (m *Metrics) ExpenseCreated(kind string, splits int) {
	if m == nil {
		return
	}
	m.expensesCreated.WithLabelValues(kind).Inc()
	m.splitsCreated.Add(float64(splits))
}

// DomainError records a failed operation under its error kind.
func (m *Metrics) DomainError(err error) {
	if m == nil || err == nil {
		return
	}
	m.domainErrors.WithLabelValues(string(apperr.KindOf(err))).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Registry exposes the registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
