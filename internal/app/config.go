package app

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/yanet-platform/coalesce/internal/monitoring/logger"
	"github.com/yanet-platform/coalesce/internal/scheduler"
	"github.com/yanet-platform/coalesce/pkg/coalesce"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Format is the encoding of the resolved settings.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Validate checks that the format is supported.
func (m Format) Validate() error {
	switch m {
	case FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(m))
	}
}

type Config struct {
	Logger *logger.Config `yaml:"logging"`

	// Layer files ordered from the lowest precedence to the highest one.
	Layers []string `yaml:"layers"`
	// Settings used when no layer provides them.
	Defaults scheduler.Config `yaml:"defaults"`
	// Prefix of the environment variables overriding settings. Empty disables
	// the overlay.
	EnvPrefix string `yaml:"env_prefix"`

	Metrics MetricsConfig `yaml:"metrics"`
	Output  OutputConfig  `yaml:"output"`

	// If set, layers are resolved repeatedly on this schedule.
	Watch *scheduler.Config `yaml:"watch"`
}

type MetricsConfig struct {
	// Path of the Prometheus textfile. Empty disables the export.
	Textfile string `yaml:"textfile"`
	// Export the Go runtime and process metrics as well.
	Runtime bool `yaml:"runtime"`
}

type OutputConfig struct {
	Format Format `yaml:"format"`
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// Prepare fills the defaults and validates the configuration.
func (m *Config) Prepare() error {
	m.Output.Format = coalesce.Or(m.Output.Format, FormatJSON)
	if err := m.Output.Format.Validate(); err != nil {
		return err
	}
	if err := m.Defaults.Validate(); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}
	if m.Watch != nil {
		if err := m.Watch.Validate(); err != nil {
			return fmt.Errorf("invalid watch schedule: %w", err)
		}
	}
	return nil
}
