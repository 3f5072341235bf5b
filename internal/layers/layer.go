// Package layers loads the configuration layers and resolves the effective
// scheduler settings of every real across them.
package layers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/yanet-platform/coalesce/internal/inventory"
	"github.com/yanet-platform/coalesce/internal/scheduler"
	"github.com/yanet-platform/coalesce/pkg/optional"
)

// maxConcurrentLoads limits the number of layer files read at once.
const maxConcurrentLoads = 8

var ErrNoLayers = errors.New("no layers configured")

// Layer is a single configuration file. Layers are ordered from the lowest
// precedence to the highest one.
type Layer struct {
	// Name of the layer, derived from its file name.
	Name string `yaml:"-"`

	// Global scheduler settings of the layer.
	Scheduler scheduler.Config `yaml:"scheduler"`
	// Global virtual host of the layer.
	Virtualhost optional.Option[string] `yaml:"virtualhost,omitempty"`

	Services []*inventory.Service `yaml:"services"`
}

// Load reads a layer from the file at path.
func Load(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layer: %w", err)
	}

	var layer Layer
	if err := yaml.UnmarshalStrict(data, &layer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layer %s: %w", path, err)
	}
	layer.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return &layer, nil
}

// LoadAll reads the layers at paths concurrently. The result keeps the order
// of paths. Errors of every failed file are joined together.
func LoadAll(ctx context.Context, paths []string) ([]*Layer, error) {
	if len(paths) == 0 {
		return nil, ErrNoLayers
	}

	layers := make([]*Layer, len(paths))
	errs := make([]error, len(paths))

	wg, ctx := errgroup.WithContext(ctx)
	wg.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		wg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			layers[i], errs[i] = Load(path)
			return nil
		})
	}
	// Goroutines report through errs.
	_ = wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return layers, nil
}
