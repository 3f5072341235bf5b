package metrics

import (
	"context"
)

type NopMetrics struct {
	NopProvider
	NopExporter
}

var _ Metrics = &NopMetrics{}

type NopProvider struct{}

var _ Provider = &NopProvider{}

func (p *NopProvider) GetCounter(_ string, _ ...MetricOption) Counter {
	return &NopCounter{}
}

func (p *NopProvider) GetGauge(_ string, _ ...MetricOption) Gauge {
	return &NopGauge{}
}

func (p *NopProvider) GetCounterVec(_ string, _ []string, _ ...MetricOption) CounterVec {
	return &NopCounterVec{}
}

func (p *NopProvider) UnregisterMetric(_ MetricType, _ string) {}

func (p *NopProvider) Shutdown(_ context.Context) error {
	return nil
}

type NopCounter struct{}

var _ Counter = &NopCounter{}

func (c *NopCounter) Inc() {}

func (c *NopCounter) Add(_ float64) {}

type NopGauge struct{}

var _ Gauge = &NopGauge{}

func (g *NopGauge) Set(_ float64) {}

func (g *NopGauge) Add(_ float64) {}

func (g *NopGauge) Sub(_ float64) {}

type NopCounterVec struct{}

var _ CounterVec = &NopCounterVec{}

func (cv *NopCounterVec) GetMetricWith(_ Labels) Counter {
	return &NopCounter{}
}

func (cv *NopCounterVec) CurryWith(_ Labels) CounterVec {
	return &NopCounterVec{}
}

func (cv *NopCounterVec) Delete(_ Labels) {}

func (cv *NopCounterVec) DeletePartialMatch(_ Labels) {}

// NopExporter writes nothing.
type NopExporter struct{}

var _ Exporter = &NopExporter{}

func (e *NopExporter) WriteTextfile(_ string) error {
	return nil
}
