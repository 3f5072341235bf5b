// Package prometheus implements the metrics provider on top of the Prometheus
// client. Collected metrics are exported as a node exporter textfile.
package prometheus

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "go.uber.org/zap"

	"github.com/yanet-platform/coalesce/internal/monitoring/metrics"
)

type Provider struct {
	registry *prometheus.Registry

	counters    *Registry[prometheus.Counter]
	gauges      *Registry[prometheus.Gauge]
	countersVec *Registry[*CounterVec]

	log *log.Logger
}

var _ metrics.Metrics = &Provider{}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithRuntimeCollectors adds the Go runtime and process metrics to the
// registry.
func WithRuntimeCollectors() ProviderOption {
	return func(m *Provider) {
		m.registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	}
}

func NewProvider(logger *log.Logger, opts ...ProviderOption) *Provider {
	registry := prometheus.NewRegistry()
	provider := &Provider{
		registry:    registry,
		counters:    newRegistry[prometheus.Counter](registry),
		gauges:      newRegistry[prometheus.Gauge](registry),
		countersVec: newRegistry[*CounterVec](registry),
		log:         logger.With(log.String("metrics_provider", "prometheus")),
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

func (m *Provider) GetCounter(name string, opts ...metrics.MetricOption) metrics.Counter {
	options := applyOpts(opts)

	counter, err := m.counters.GetOrCreateMetric(name, func() prometheus.Counter {
		return prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        name,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
		)
	})
	if err != nil {
		m.log.Error("failed to create counter", log.String("name", name), log.Error(err))
		return &metrics.NopCounter{}
	}

	return counter
}

func (m *Provider) GetGauge(name string, opts ...metrics.MetricOption) metrics.Gauge {
	options := applyOpts(opts)

	gauge, err := m.gauges.GetOrCreateMetric(name, func() prometheus.Gauge {
		return prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        name,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
		)
	})
	if err != nil {
		m.log.Error("failed to create gauge", log.String("name", name), log.Error(err))
		return &metrics.NopGauge{}
	}

	return gauge
}

func (m *Provider) GetCounterVec(name string, labelNames []string, opts ...metrics.MetricOption) metrics.CounterVec {
	options := applyOpts(opts)

	counterVec, err := m.countersVec.GetOrCreateMetric(name, func() *CounterVec {
		return newCounterVec(
			prometheus.CounterOpts{
				Name:        name,
				Help:        options.Description,
				ConstLabels: prometheus.Labels(options.ConstLabels),
			},
			labelNames,
			m.log,
		)
	})
	if err != nil {
		m.log.Error("failed to create counter vector", log.String("name", name), log.Error(err))
		return &metrics.NopCounterVec{}
	}

	return counterVec
}

func (m *Provider) UnregisterMetric(metricType metrics.MetricType, name string) {
	switch metricType {
	case metrics.CounterMetric:
		m.counters.DeleteMetric(name)
	case metrics.GaugeMetric:
		m.gauges.DeleteMetric(name)
	case metrics.CounterVecMetric:
		m.countersVec.DeleteMetric(name)
	default:
		m.log.Error("unknown metric type", log.String("type", metricType.String()))
	}
}

// WriteTextfile writes every registered metric to path in the text exposition
// format. The file is replaced atomically.
func (m *Provider) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Shutdown stops the metrics provider and releases resources
func (m *Provider) Shutdown(ctx context.Context) error {
	m.counters.Shutdown()
	m.gauges.Shutdown()
	m.countersVec.Shutdown()

	return nil
}

func applyOpts(opts []metrics.MetricOption) metrics.MetricOpts {
	var options metrics.MetricOpts
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
