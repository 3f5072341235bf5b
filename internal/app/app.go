// Package app wires the layers, the resolver and the output together.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	log "go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/yanet-platform/coalesce/internal/layers"
	"github.com/yanet-platform/coalesce/internal/monitoring/metrics"
	"github.com/yanet-platform/coalesce/internal/monitoring/metrics/prometheus"
	"github.com/yanet-platform/coalesce/internal/scheduler"
	"github.com/yanet-platform/coalesce/internal/types/runid"
	"github.com/yanet-platform/coalesce/internal/utils/throttler"
	"github.com/yanet-platform/coalesce/pkg/optional"
)

// failuresLimit is the number of consecutive watch failures always logged.
const failuresLimit = 3

// Report is the output of a single resolution run.
type Report struct {
	RunID runid.RunID       `json:"run_id" yaml:"run_id"`
	Reals []layers.Resolved `json:"reals" yaml:"reals"`
}

type App struct {
	config Config

	env      *layers.Env
	metrics  *prometheus.Provider
	layers   *layers.Metrics
	runs     metrics.Counter
	failures *throttler.Throttler

	out    io.Writer
	logger *log.Logger
}

// New creates the application. Reports are written to out.
func New(config Config, out io.Writer, logger *log.Logger) (*App, error) {
	if err := config.Prepare(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var opts []prometheus.ProviderOption
	if config.Metrics.Runtime {
		opts = append(opts, prometheus.WithRuntimeCollectors())
	}
	provider := prometheus.NewProvider(logger, opts...)

	return &App{
		config:  config,
		env:     layers.NewEnv(config.EnvPrefix, logger),
		metrics: provider,
		layers:  layers.NewMetrics(provider),
		runs: provider.GetCounter(
			"coalesce_runs_total",
			metrics.WithDescription("number of resolution runs"),
		),
		failures: throttler.New(failuresLimit),
		out:      out,
		logger:   logger,
	}, nil
}

// Run resolves the layers once, or on the watch schedule until ctx is done.
func (m *App) Run(ctx context.Context) error {
	defer func() {
		if err := m.metrics.Shutdown(context.Background()); err != nil {
			m.logger.Error("failed to shutdown metrics provider", log.Error(err))
		}
	}()

	if m.config.Watch == nil {
		return m.resolve(ctx)
	}

	schedule := *m.config.Watch
	schedule.Inherit(optional.Some(m.config.Defaults))
	m.logger.Info("watching layers",
		log.Duration("delay_loop", schedule.GetDelayLoop()),
		log.Int("retries", schedule.GetRetries()),
	)

	return scheduler.New(schedule).Run(ctx, func(ctx context.Context) error {
		if err := m.resolve(ctx); err != nil {
			if n, throttled := m.failures.Hit(); !throttled {
				m.logger.Error("resolution failed", log.Uint64("failures", n), log.Error(err))
			}
			return err
		}
		m.failures.Reset()
		return nil
	})
}

func (m *App) resolve(ctx context.Context) error {
	m.runs.Inc()

	id := runid.Generate()
	ctx = runid.NewContext(ctx, id)

	loaded, err := layers.LoadAll(ctx, m.config.Layers)
	if err != nil {
		return fmt.Errorf("failed to load layers: %w", err)
	}

	stack, err := layers.NewStack(loaded, m.config.Defaults, m.env, m.layers, m.logger)
	if err != nil {
		return fmt.Errorf("failed to merge layers: %w", err)
	}
	defer stack.Close()

	report := Report{
		RunID: id,
		Reals: stack.Resolve(ctx),
	}
	if err := m.write(report); err != nil {
		return err
	}

	if path := m.config.Metrics.Textfile; path != "" {
		if err := m.metrics.WriteTextfile(path); err != nil {
			return err
		}
	}
	return nil
}

func (m *App) write(report Report) error {
	var (
		data []byte
		err  error
	)
	switch m.config.Output.Format {
	case FormatYAML:
		data, err = yaml.Marshal(report)
	default:
		data, err = json.MarshalIndent(report, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if _, err := m.out.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
