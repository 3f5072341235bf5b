package layers

import (
	"github.com/yanet-platform/coalesce/internal/monitoring/metrics"
)

// Metrics of the resolution runs.
type Metrics struct {
	resolved metrics.CounterVec
	reals    metrics.Gauge
	layers   metrics.Gauge
}

func NewMetrics(provider metrics.Provider) *Metrics {
	return &Metrics{
		resolved: provider.GetCounterVec(
			"coalesce_settings_resolved_total",
			[]string{"setting", "source"},
			metrics.WithDescription("number of settings resolved per source"),
		),
		reals: provider.GetGauge(
			"coalesce_reals",
			metrics.WithDescription("number of resolved reals"),
		),
		layers: provider.GetGauge(
			"coalesce_layers",
			metrics.WithDescription("number of loaded layers"),
		),
	}
}

func (m *Metrics) Resolved(setting string, source Source) metrics.Counter {
	return m.resolved.GetMetricWith(metrics.Labels{
		"setting": setting,
		"source":  string(source),
	})
}

func (m *Metrics) Reals() metrics.Gauge {
	return m.reals
}

func (m *Metrics) Layers() metrics.Gauge {
	return m.layers
}
