package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the gateway.
// It includes counters for upstream attempts and retries, facade operation
// outcomes, and histograms for upstream, operation and HTTP request latency.
type Metrics struct {
	UpstreamAttempts  *prometheus.CounterVec
	UpstreamRetries   *prometheus.CounterVec
	UpstreamDuration  *prometheus.HistogramVec
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		UpstreamAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_gateway_upstream_attempts_total",
			Help: "Total number of requests sent to the upstream employee API, by method and status.",
		}, []string{"method", "status"}),
		UpstreamRetries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_gateway_upstream_retries_total",
			Help: "Total number of retried upstream requests.",
		}, []string{"method"}),
		UpstreamDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_gateway_upstream_request_duration_seconds",
			Help:    "Duration of a full upstream call, retries included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_gateway_operations_total",
			Help: "Total number of facade operations, by operation and result.",
		}, []string{"operation", "result"}), // result: 'success', 'failure'
		OperationDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_gateway_operation_duration_seconds",
			Help:    "Duration of facade operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_gateway_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the REST API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	return metrics
}

// ObserveOperation records the outcome of a facade operation.
func (m *Metrics) ObserveOperation(operation string, seconds float64, err error) {
	if m == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "failure"
	}

	m.Operations.WithLabelValues(operation, result).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(seconds)
}
