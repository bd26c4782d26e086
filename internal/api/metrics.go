package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects sizing-run instrumentation for Prometheus.
type Metrics struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	runErrors     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	barsProcessed prometheus.Counter
}

// NewMetrics creates the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "sizing_runs_total",
			Help:      "Completed sizing pipeline runs by profile.",
		}, []string{"profile"}),
		runErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "sizing_run_errors_total",
			Help:      "Failed sizing pipeline runs by error cause.",
		}, []string{"cause"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "risk_engine",
			Name:      "sizing_run_duration_seconds",
			Help:      "Wall time of one sizing pipeline run.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		barsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "sizing_bars_processed_total",
			Help:      "Bars sized across all runs.",
		}),
	}
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
