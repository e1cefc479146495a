// Package metrics provides Prometheus instrumentation for the evaluation
// service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/dealscore/internal/model"
	"github.com/sells-group/dealscore/internal/pipeline"
)

// tierIncomplete labels evaluations blocked on manual input.
const tierIncomplete = "incomplete"

// Manager owns the service metrics on a private registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	evaluations        *prometheus.CounterVec
	evaluationErrors   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	finalScore         prometheus.Histogram
	metricsMissing     *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithRegistry it uses a
// fresh registry so the default Go collectors are not exported.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dealscore",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluations_total",
		Help:      "Documents evaluated, by recommendation tier",
	}, []string{"tier"})

	m.evaluationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_errors_total",
		Help:      "Documents that could not be evaluated, by error kind",
	}, []string{"kind"})

	m.evaluationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_duration_seconds",
		Help:      "Time to normalize, extract and score one document",
		Buckets:   m.histogramBuckets,
	})

	m.finalScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "final_score",
		Help:      "Distribution of final deal scores",
		Buckets:   []float64{1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
	})

	m.metricsMissing = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "metrics_missing_total",
		Help:      "Catalogued metrics not found in evaluated documents",
	}, []string{"metric"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})
}

// ObserveEvaluation records a successful evaluation.
func (m *Manager) ObserveEvaluation(res *model.Result, elapsed time.Duration) {
	tier := string(res.Tier)
	if !res.Complete() {
		tier = tierIncomplete
	}
	m.evaluations.WithLabelValues(tier).Inc()
	m.evaluationDuration.Observe(elapsed.Seconds())
	if res.FinalScore != nil {
		m.finalScore.Observe(*res.FinalScore)
	}
	for _, name := range res.Metrics.Missing() {
		m.metricsMissing.WithLabelValues(string(name)).Inc()
	}
}

// ObserveError records a failed evaluation by error kind.
func (m *Manager) ObserveError(err error) {
	m.evaluationErrors.WithLabelValues(pipeline.ErrorKind(err)).Inc()
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Registry returns the registry backing the manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
