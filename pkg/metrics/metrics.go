// Package metrics exposes Prometheus collectors for generation runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeFailed      = "failed"
	OutcomeUnavailable = "unavailable"
)

// Metrics holds the collectors on a private registry. All methods are safe
// on a nil receiver so callers can run without metrics.
type Metrics struct {
	Registry *prometheus.Registry

	providerCalls      *prometheus.CounterVec
	providerLatency    *prometheus.HistogramVec
	extractions        *prometheus.CounterVec
	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() (m *Metrics) {
	reg := prometheus.NewRegistry()

	m = &Metrics{
		Registry: reg,
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_provider_calls_total",
				Help: "Completion requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resume_provider_call_duration_seconds",
				Help:    "Completion request latency by provider",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"provider"},
		),
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_extractions_total",
				Help: "Extraction results by winning strategy, or \"failed\"",
			},
			[]string{"strategy"},
		),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_generations_total",
				Help: "Completed generations by record source",
			},
			[]string{"source"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "resume_generation_duration_seconds",
				Help: "End to end generation latency by record source",
			},
			[]string{"source"},
		),
	}

	reg.MustRegister(
		m.providerCalls,
		m.providerLatency,
		m.extractions,
		m.generations,
		m.generationDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveProviderCall records one provider attempt. Latency is only recorded
// for calls that reached the network.
func (m *Metrics) ObserveProviderCall(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeUnavailable {
		m.providerLatency.WithLabelValues(provider).Observe(d.Seconds())
	}
}

// ObserveExtraction records the winning strategy, or "failed".
func (m *Metrics) ObserveExtraction(strategy string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(strategy).Inc()
}

// ObserveGeneration records a finished generation.
func (m *Metrics) ObserveGeneration(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(source).Inc()
	m.generationDuration.WithLabelValues(source).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() (h http.Handler) {
	if m == nil {
		h = http.NotFoundHandler()
		return h
	}
	h = promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
	return h
}
