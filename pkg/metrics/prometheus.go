// Package metrics provides Prometheus metrics for the roster simulation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the simulation.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Simulation loop
	trialsTotal       prometheus.Counter
	predictionsTotal  *prometheus.CounterVec
	weightAdjustments *prometheus.CounterVec
	trialDuration     prometheus.Histogram
	reportsTotal      prometheus.Counter
	accuracyPercent   prometheus.Gauge
	leaderWeight      prometheus.Gauge

	// Pool setup
	poolSize          prometheus.Gauge
	athletesExcluded  *prometheus.CounterVec
	fitFailures       prometheus.Counter
	fitLatency        prometheus.Histogram
	repositoryLatency prometheus.Histogram
	repositoryRows    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rostersim",
		subsystem:        "simulation",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.trialsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("trials_total"),
		Help:        "Total number of simulated trials",
		ConstLabels: labels,
	})

	m.predictionsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("predictions_total"),
		Help:        "Predictions by outcome (correct, wrong)",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.weightAdjustments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("weight_adjustments_total"),
		Help:        "Weight adjustments by boosted roster",
		ConstLabels: labels,
	}, []string{"roster"})

	m.trialDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("trial_duration_microseconds"),
		Help:        "Wall time spent on one trial in microseconds",
		Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})

	m.reportsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("reports_total"),
		Help:        "Number of periodic reports emitted",
		ConstLabels: labels,
	})

	m.accuracyPercent = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("accuracy_percent"),
		Help:        "Prediction accuracy over the last report interval",
		ConstLabels: labels,
	})

	m.leaderWeight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("leader_weight"),
		Help:        "Weight of the top athlete at the last report",
		ConstLabels: labels,
	})

	m.poolSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pool_size"),
		Help:        "Number of eligible athletes in the pool",
		ConstLabels: labels,
	})

	m.athletesExcluded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("athletes_excluded_total"),
		Help:        "Athletes excluded from the pool by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.fitFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fit_failures_total"),
		Help:        "Distribution fits that did not converge",
		ConstLabels: labels,
	})

	m.fitLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fit_latency_milliseconds"),
		Help:        "Time spent fitting one athlete distribution",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.repositoryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("repository_query_latency_milliseconds"),
		Help:        "Stat repository query latency",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.repositoryRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("repository_rows"),
		Help:        "Rows returned by the last stat repository query",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordTrial increments the trial counter and observes its duration.
func RecordTrial(durationUs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.trialsTotal.Inc()
	globalManager.trialDuration.Observe(durationUs)
}

// RecordPrediction counts a trial's prediction as correct or wrong.
func RecordPrediction(correct bool) {
	if !globalManager.enabled {
		return
	}
	outcome := "wrong"
	if correct {
		outcome = "correct"
	}
	globalManager.predictionsTotal.WithLabelValues(outcome).Inc()
}

// RecordWeightAdjustment counts a weight update that boosted roster.
func RecordWeightAdjustment(roster string) {
	if !globalManager.enabled {
		return
	}
	globalManager.weightAdjustments.WithLabelValues(roster).Inc()
}

// RecordReport counts an emitted report and publishes its headline values.
func RecordReport(accuracy, leaderWeight float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.reportsTotal.Inc()
	globalManager.accuracyPercent.Set(accuracy)
	globalManager.leaderWeight.Set(leaderWeight)
}

// UpdatePoolSize sets the eligible pool size.
func UpdatePoolSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.poolSize.Set(float64(size))
}

// RecordAthleteExcluded counts an athlete dropped during setup.
func RecordAthleteExcluded(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.athletesExcluded.WithLabelValues(reason).Inc()
}

// RecordFitFailure counts a failed distribution fit.
func RecordFitFailure() {
	if !globalManager.enabled {
		return
	}
	globalManager.fitFailures.Inc()
}

// RecordFitLatency observes the time spent fitting one athlete.
func RecordFitLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.fitLatency.Observe(latencyMs)
}

// RecordRepositoryQuery observes a repository query and its row count.
func RecordRepositoryQuery(latencyMs float64, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryLatency.Observe(latencyMs)
	globalManager.repositoryRows.Set(float64(rows))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// SetEnabled turns the package-level recorders on or off.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
