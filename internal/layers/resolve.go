package layers

import (
	"context"

	log "go.uber.org/zap"

	"github.com/yanet-platform/coalesce/internal/scheduler"
	"github.com/yanet-platform/coalesce/internal/types/runid"
	"github.com/yanet-platform/coalesce/pkg/coalesce"
)

// Source names the layer a setting was taken from.
type Source string

const (
	SourceEnv      Source = "env"
	SourceReal     Source = "real"
	SourceService  Source = "service"
	SourceGlobal   Source = "global"
	SourceDefaults Source = "defaults"
	SourceBuiltin  Source = "builtin"
)

// precedence lists the sources in the order they are consulted.
var precedence = [...]Source{SourceEnv, SourceReal, SourceService, SourceGlobal, SourceDefaults}

// Setting names, shared by the configuration keys, the environment overlay and
// the metric labels.
const (
	SettingDelayLoop   = "delay_loop"
	SettingRetries     = "retries"
	SettingRetryDelay  = "retry_delay"
	SettingVirtualhost = "virtualhost"
)

// Resolved holds the effective settings of a real.
type Resolved struct {
	Service     string            `json:"service" yaml:"service"`
	Addr        string            `json:"addr" yaml:"addr"`
	Virtualhost string            `json:"virtualhost,omitempty" yaml:"virtualhost,omitempty"`
	DelayLoop   float64           `json:"delay_loop" yaml:"delay_loop"`
	Retries     int               `json:"retries" yaml:"retries"`
	RetryDelay  float64           `json:"retry_delay" yaml:"retry_delay"`
	Sources     map[string]Source `json:"sources" yaml:"sources"`
}

// Scheduler returns the resolved settings as a complete scheduler
// configuration.
func (m Resolved) Scheduler() scheduler.Config {
	var cfg scheduler.Config
	cfg.DelayLoop.Set(m.DelayLoop)
	cfg.Retries.Set(m.Retries)
	cfg.RetryDelay.Set(m.RetryDelay)
	return cfg
}

// Resolve computes the effective settings of every real. Each setting is taken
// from the first source that provides it: environment, real, service, global
// layer, configured defaults, and finally the built-in default.
func (m *Stack) Resolve(ctx context.Context) []Resolved {
	logger := m.logger
	if id, ok := runid.FromContext(ctx); ok {
		logger = logger.With(log.String(runid.LogKey, string(id)))
	}

	var global coalesce.Holder[Global] = m.global.Weak()
	globalScheduler := coalesce.Convert(global, schedulerOf)
	globalVirtualhost := coalesce.Bind(global, func(g Global) coalesce.Holder[string] {
		return virtualhostOf(g)
	})
	builtin := scheduler.DefaultConfig()

	var result []Resolved
	for _, service := range m.services {
		for _, real := range service.Reals {
			r := resolver{
				sources: make(map[string]Source, 4),
				metrics: m.metrics,
				logger: logger.With(
					log.String("service", service.Name),
					log.Stringer("real", real.Addr),
				),
			}

			resolved := Resolved{
				Service: service.Name,
				Addr:    real.Addr.String(),
				DelayLoop: resolveSetting[float64](&r, SettingDelayLoop, builtin.DelayLoop.Value(),
					m.env.Float(SettingDelayLoop),
					real.DelayLoop,
					service.DelayLoop,
					scheduler.Field(globalScheduler, scheduler.DelayLoopOf),
					m.defaults.DelayLoop,
				),
				Retries: resolveSetting[int](&r, SettingRetries, builtin.Retries.Value(),
					m.env.Int(SettingRetries),
					real.Retries,
					service.Retries,
					scheduler.Field(globalScheduler, scheduler.RetriesOf),
					m.defaults.Retries,
				),
				RetryDelay: resolveSetting[float64](&r, SettingRetryDelay, builtin.RetryDelay.Value(),
					m.env.Float(SettingRetryDelay),
					real.RetryDelay,
					service.RetryDelay,
					scheduler.Field(globalScheduler, scheduler.RetryDelayOf),
					m.defaults.RetryDelay,
				),
				Virtualhost: resolveSetting[string](&r, SettingVirtualhost, "",
					m.env.String(SettingVirtualhost),
					real.Virtualhost,
					service.Virtualhost,
					globalVirtualhost,
					coalesce.Absent[string](),
				),
				Sources: r.sources,
			}
			result = append(result, resolved)
		}
	}

	m.metrics.Layers().Set(float64(m.layers))
	m.metrics.Reals().Set(float64(len(result)))
	logger.Info("settings resolved",
		log.Int("layers", m.layers),
		log.Int("services", len(m.services)),
		log.Int("reals", len(result)),
	)

	return result
}

type resolver struct {
	sources map[string]Source
	metrics *Metrics
	logger  *log.Logger
}

// resolveSetting takes the first present holder in precedence order and
// records which source supplied it.
func resolveSetting[T any](r *resolver, setting string, builtin T, holders ...coalesce.Holder[T]) T {
	v, idx := coalesce.Find(builtin, holders...)

	source := SourceBuiltin
	if idx >= 0 {
		source = precedence[idx]
	}
	r.sources[setting] = source
	r.metrics.Resolved(setting, source).Inc()
	r.logger.Debug("setting resolved",
		log.String("setting", setting),
		log.String("source", string(source)),
	)

	return v
}
