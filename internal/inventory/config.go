// Package inventory describes the services and reals whose check settings are
// resolved across layers.
package inventory

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/yanet-platform/coalesce/internal/scheduler"
	"github.com/yanet-platform/coalesce/pkg/optional"
)

var (
	ErrNoServiceName = errors.New("service name is empty")
	ErrInvalidAddr   = errors.New("invalid real address")
)

// Scheduler is a type alias for [scheduler.Config] to provide more informative
// naming for the embedded field in the Service and Real structures.
type Scheduler = scheduler.Config

// Real is a backend of a service.
type Real struct {
	// Address of the real.
	Addr netip.Addr `yaml:"addr"`
	// Optional virtual host used by checks of the real.
	Virtualhost optional.Option[string] `yaml:"virtualhost,omitempty"`

	// Embedded scheduler configuration.
	Scheduler `yaml:",inline"`
}

// Service groups reals sharing default check settings.
type Service struct {
	// Name uniquely identifies the service across layers.
	Name string `yaml:"name"`
	// Optional virtual host for the service.
	Virtualhost optional.Option[string] `yaml:"virtualhost,omitempty"`

	// Embedded scheduler configuration.
	Scheduler `yaml:",inline"`

	// List of real configurations.
	Reals []*Real `yaml:"reals"`
}

// Key returns the canonical address of the real.
func (m *Real) Key() netip.Addr {
	return m.Addr.Unmap()
}

// Prepare validates the real configuration and converts the address to its
// canonical form.
func (m *Real) Prepare() error {
	if !m.Addr.IsValid() {
		return ErrInvalidAddr
	}
	m.Addr = m.Addr.Unmap()
	return m.Scheduler.Validate()
}

// Merge overrides the settings of m with the ones present in other.
func (m *Real) Merge(other *Real) {
	m.Virtualhost = optional.Override(m.Virtualhost, other.Virtualhost)
	m.Scheduler = m.Scheduler.Override(other.Scheduler)
}

// Prepare validates the service configuration and prepares each real.
func (m *Service) Prepare() (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("service %q config validation error occurred: %w", m.Name, err)
		}
	}()

	if m.Name == "" {
		return ErrNoServiceName
	}
	if err := m.Scheduler.Validate(); err != nil {
		return err
	}

	for _, real := range m.Reals {
		if err := real.Prepare(); err != nil {
			return fmt.Errorf("real %s: %w", real.Addr, err)
		}
	}
	return nil
}

// Merge overrides the settings of m with the ones present in other. Reals are
// matched by address; reals only present in other are appended.
func (m *Service) Merge(other *Service) {
	m.Virtualhost = optional.Override(m.Virtualhost, other.Virtualhost)
	m.Scheduler = m.Scheduler.Override(other.Scheduler)

	idx := make(map[netip.Addr]*Real, len(m.Reals))
	for _, real := range m.Reals {
		idx[real.Key()] = real
	}
	for _, real := range other.Reals {
		if existing, ok := idx[real.Key()]; ok {
			existing.Merge(real)
			continue
		}
		clone := *real
		m.Reals = append(m.Reals, &clone)
		idx[real.Key()] = &clone
	}
}

// MergeServices combines service lists of several layers. Later lists take
// precedence; the order of first appearance is kept.
func MergeServices(lists ...[]*Service) []*Service {
	var merged []*Service
	idx := make(map[string]*Service)
	for _, services := range lists {
		for _, service := range services {
			if existing, ok := idx[service.Name]; ok {
				existing.Merge(service)
				continue
			}
			clone := *service
			clone.Reals = nil
			clone.Merge(&Service{Reals: service.Reals})
			merged = append(merged, &clone)
			idx[service.Name] = &clone
		}
	}
	return merged
}
