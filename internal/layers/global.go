package layers

import (
	"github.com/yanet-platform/coalesce/internal/scheduler"
	"github.com/yanet-platform/coalesce/pkg/optional"
)

// Global holds the settings shared by every service, merged from all layers.
type Global struct {
	Scheduler   scheduler.Config
	Virtualhost optional.Option[string]
}

// MergeGlobal merges the global settings of layers. Later layers take
// precedence.
func MergeGlobal(layers []*Layer) Global {
	var global Global
	for _, layer := range layers {
		global.Scheduler = global.Scheduler.Override(layer.Scheduler)
		global.Virtualhost = optional.Override(global.Virtualhost, layer.Virtualhost)
	}
	return global
}

func schedulerOf(g Global) scheduler.Config { return g.Scheduler }

func virtualhostOf(g Global) optional.Option[string] { return g.Virtualhost }
