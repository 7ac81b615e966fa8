// Package monitoring collects Prometheus metrics for upstream API traffic
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics tracks calls to the grocery and generative-text services
type Metrics struct {
	registry *prometheus.Registry

	tokenRefreshes     *prometheus.CounterVec
	productSearches    *prometheus.CounterVec
	searchAttempts     prometheus.Counter
	searchDuration     prometheus.Histogram
	generationRequests *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
}

// NewMetrics creates a metrics collector backed by its own registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		tokenRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grocery_token_refreshes_total",
			Help: "Total client-credentials token exchanges",
		}, []string{"outcome"}),
		productSearches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grocery_product_searches_total",
			Help: "Total product search calls, after retries resolved",
		}, []string{"outcome"}),
		searchAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "grocery_product_search_attempts_total",
			Help: "Total individual product search HTTP attempts, including retries",
		}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "grocery_product_search_duration_seconds",
			Help:    "Product search call duration, including retries",
			Buckets: prometheus.DefBuckets,
		}),
		generationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_generation_requests_total",
			Help: "Total generative-text service calls",
		}, []string{"operation", "outcome"}),
		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_generation_duration_seconds",
			Help:    "Generative-text call duration",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"operation"}),
	}
}

// Handler returns the HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// All observation helpers tolerate a nil receiver so components can run
// without a collector in tests.

// ObserveTokenRefresh records one token exchange
func (m *Metrics) ObserveTokenRefresh(err error) {
	if m == nil {
		return
	}
	m.tokenRefreshes.WithLabelValues(outcome(err)).Inc()
}

// ObserveSearchAttempt records one product search HTTP attempt
func (m *Metrics) ObserveSearchAttempt() {
	if m == nil {
		return
	}
	m.searchAttempts.Inc()
}

// ObserveSearch records one completed product search call
func (m *Metrics) ObserveSearch(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.productSearches.WithLabelValues(outcome(err)).Inc()
	m.searchDuration.Observe(elapsed.Seconds())
}

// ObserveGeneration records one generative-text call
func (m *Metrics) ObserveGeneration(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generationRequests.WithLabelValues(operation, outcome(err)).Inc()
	m.generationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
