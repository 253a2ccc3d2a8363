package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector owns the Prometheus collectors of the provisioning
// pipeline and the chat runtime.
type MetricsCollector struct {
	registry *prometheus.Registry

	validationsTotal *prometheus.CounterVec
	validationScore  *prometheus.HistogramVec
	agentsCreated    prometheus.Counter
	agentLoads       prometheus.Counter
	runsTotal        *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	activeStreams    prometheus.Gauge
}

// NewMetricsCollector builds and registers all collectors on a private
// registry.
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	mc := &MetricsCollector{
		registry: registry,
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentforge_validations_total",
				Help: "Specification validations by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		validationScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentforge_validation_score",
				Help:    "Validation score distribution",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"stage"},
		),
		agentsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "agentforge_agents_created_total",
				Help: "Successfully provisioned agents",
			},
		),
		agentLoads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "agentforge_agent_loads_total",
				Help: "Dynamic agent loads from storage",
			},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentforge_agent_runs_total",
				Help: "Agent runs by status",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentforge_agent_run_duration_seconds",
				Help:    "Agent run latency",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"agent_id"},
		),
		activeStreams: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "agentforge_active_streams",
				Help: "Open streaming chat connections",
			},
		),
	}

	registry.MustRegister(
		mc.validationsTotal,
		mc.validationScore,
		mc.agentsCreated,
		mc.agentLoads,
		mc.runsTotal,
		mc.runDuration,
		mc.activeStreams,
	)
	return mc
}

// Handler exposes the registry for scraping.
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}

// RecordValidation records one validation outcome.
func (mc *MetricsCollector) RecordValidation(stage string, valid bool, score float64) {
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	mc.validationsTotal.WithLabelValues(stage, outcome).Inc()
	mc.validationScore.WithLabelValues(stage).Observe(score)
}

// RecordAgentCreated counts a successful provisioning.
func (mc *MetricsCollector) RecordAgentCreated() {
	mc.agentsCreated.Inc()
}

// RecordAgentLoad counts a dynamic agent load.
func (mc *MetricsCollector) RecordAgentLoad() {
	mc.agentLoads.Inc()
}

// RecordRun records one agent run.
func (mc *MetricsCollector) RecordRun(agentID, status string, seconds float64) {
	mc.runsTotal.WithLabelValues(status).Inc()
	mc.runDuration.WithLabelValues(agentID).Observe(seconds)
}

// StreamOpened marks a streaming connection open.
func (mc *MetricsCollector) StreamOpened() {
	mc.activeStreams.Inc()
}

// StreamClosed marks a streaming connection closed.
func (mc *MetricsCollector) StreamClosed() {
	mc.activeStreams.Dec()
}
