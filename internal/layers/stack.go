package layers

import (
	"errors"
	"fmt"

	log "go.uber.org/zap"

	"github.com/yanet-platform/coalesce/internal/inventory"
	"github.com/yanet-platform/coalesce/internal/scheduler"
	"github.com/yanet-platform/coalesce/pkg/ownership"
)

// Stack is the merged view of a set of layers. The global settings are owned
// by the stack; resolution reads them through a weak reference, so a closed
// stack falls back to the defaults.
type Stack struct {
	global   *ownership.Shared[Global]
	services []*inventory.Service
	defaults scheduler.Config
	layers   int

	env     *Env
	metrics *Metrics
	logger  *log.Logger
}

// NewStack merges layers and validates the result. Services are validated
// after merging, so a setting may be completed by a later layer.
func NewStack(layers []*Layer, defaults scheduler.Config, env *Env, metrics *Metrics, logger *log.Logger) (*Stack, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid defaults: %w", err)
	}

	global := MergeGlobal(layers)
	if err := global.Scheduler.Validate(); err != nil {
		return nil, fmt.Errorf("invalid global scheduler settings: %w", err)
	}

	lists := make([][]*inventory.Service, 0, len(layers))
	for _, layer := range layers {
		lists = append(lists, layer.Services)
	}
	services := inventory.MergeServices(lists...)

	var errs []error
	for _, service := range services {
		errs = append(errs, service.Prepare())
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Stack{
		global:   ownership.NewShared(global),
		services: services,
		defaults: defaults,
		layers:   len(layers),
		env:      env,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Services returns the merged services.
func (m *Stack) Services() []*inventory.Service {
	return m.services
}

// Close releases the global settings. Resolution on a closed stack skips the
// global layer.
func (m *Stack) Close() {
	m.global.Release()
}
