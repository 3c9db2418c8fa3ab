// Package metrics provides Prometheus metrics for Lden runs.
//
// A batch run has no scrape endpoint; the registry is dumped with
// WriteTextfile for the node exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager owns the run metrics and the registry they live on.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	runs                *prometheus.CounterVec
	phaseDuration       *prometheus.HistogramVec
	sourcesReconciled   prometheus.Gauge
	receiversReconciled prometheus.Gauge
	cellsCombined       prometheus.Counter
	errors              *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager = NewManager() //nolint:gochecknoglobals // process-wide run metrics

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

// NewManager creates a manager on its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lden",
		subsystem:        "run",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      prometheus.Labels{},
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

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of Lden runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.phaseDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "phase_duration_milliseconds",
		Help:        "Duration of each run phase in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"phase"})

	m.sourcesReconciled = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sources_reconciled",
		Help:        "Number of sources in the reconciled set of the last run",
		ConstLabels: m.constLabels,
	})

	m.receiversReconciled = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "receivers_reconciled",
		Help:        "Number of receivers in the reconciled set of the last run",
		ConstLabels: m.constLabels,
	})

	m.cellsCombined = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cells_combined_total",
		Help:        "Total number of source, receiver and band cells combined",
		ConstLabels: m.constLabels,
	})

	m.errors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Total number of failed runs by error kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})
}

// RecordRun counts a finished run.
func (m *Manager) RecordRun(outcome string) {
	m.runs.WithLabelValues(outcome).Inc()
}

// ObservePhase records how long a phase took.
func (m *Manager) ObservePhase(phase string, d time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(float64(d) / float64(time.Millisecond))
}

// SetReconciled records the size of the reconciled sets.
func (m *Manager) SetReconciled(sources, receivers int) {
	m.sourcesReconciled.Set(float64(sources))
	m.receiversReconciled.Set(float64(receivers))
}

// AddCellsCombined adds n combined cells.
func (m *Manager) AddCellsCombined(n int) {
	if n > 0 {
		m.cellsCombined.Add(float64(n))
	}
}

// RecordError counts a failure of the given kind.
func (m *Manager) RecordError(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}

// Registry returns the registry holding the run metrics.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (m *Manager) WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrWriteTextfile)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
