// Package metrics defines the metrics used by the resolver independently of
// the backend that collects them.
package metrics

import (
	"context"
	"fmt"
)

type Metrics interface {
	Provider
	Exporter
}

type Provider interface {
	GetCounter(name string, opts ...MetricOption) Counter
	GetGauge(name string, opts ...MetricOption) Gauge
	GetCounterVec(name string, labelNames []string, opts ...MetricOption) CounterVec

	UnregisterMetric(metricType MetricType, name string)
	Shutdown(ctx context.Context) error
}

// Exporter dumps collected metrics in the text exposition format, suitable for
// the node exporter textfile collector.
type Exporter interface {
	WriteTextfile(path string) error
}

type Counter interface {
	Inc()
	Add(float64)
}

type Gauge interface {
	Add(float64)
	Sub(float64)
	Set(float64)
}

type Labels map[string]string

type CounterVec interface {
	GetMetricWith(Labels) Counter
	CurryWith(Labels) CounterVec
	Delete(Labels)
	DeletePartialMatch(Labels)
}

type MetricType int

const (
	CounterMetric MetricType = iota + 1
	GaugeMetric
	CounterVecMetric
)

func (m MetricType) String() string {
	switch m {
	case CounterMetric:
		return "counter"
	case GaugeMetric:
		return "gauge"
	case CounterVecMetric:
		return "counter_vec"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}
