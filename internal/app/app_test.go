package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	log "go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/yanet-platform/coalesce/internal/layers"
	"github.com/yanet-platform/coalesce/internal/scheduler"
	"github.com/yanet-platform/coalesce/pkg/optional"
)

const layer = `
scheduler:
  retries: 3
services:
  - name: web
    delay_loop: 15
    reals:
      - addr: 10.0.0.1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadConfig checks decoding of the application config.
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yaml", `
logging:
  level: debug
layers: [base.yaml, top.yaml]
defaults:
  retry_delay: 2
env_prefix: COALESCE
metrics:
  textfile: /tmp/coalesce.prom
output:
  format: yaml
watch:
  delay_loop: 10
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Prepare())

	assert.Equal(t, []string{"base.yaml", "top.yaml"}, config.Layers)
	assert.Equal(t, optional.Some(2.0), config.Defaults.RetryDelay)
	assert.Equal(t, "COALESCE", config.EnvPrefix)
	assert.Equal(t, "/tmp/coalesce.prom", config.Metrics.Textfile)
	assert.Equal(t, FormatYAML, config.Output.Format)
	require.NotNil(t, config.Watch)
	assert.Equal(t, 10*time.Second, config.Watch.GetDelayLoop())

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestConfig_Prepare checks the output format default and validation.
func TestConfig_Prepare(t *testing.T) {
	var config Config
	require.NoError(t, config.Prepare())
	assert.Equal(t, FormatJSON, config.Output.Format)

	config.Output.Format = "xml"
	assert.ErrorIs(t, config.Prepare(), ErrUnknownFormat)

	_, err := New(config, &bytes.Buffer{}, log.NewNop())
	assert.ErrorIs(t, err, ErrUnknownFormat)

	config = Config{Watch: &scheduler.Config{Retries: optional.Some(-1)}}
	assert.ErrorIs(t, config.Prepare(), scheduler.ErrInvalidRetries)
}

// TestApp_RunJSON checks a one-shot run with JSON output and textfile export.
func TestApp_RunJSON(t *testing.T) {
	dir := t.TempDir()
	textfile := filepath.Join(dir, "coalesce.prom")
	config := Config{
		Layers:   []string{writeFile(t, dir, "base.yaml", layer)},
		Defaults: scheduler.Config{RetryDelay: optional.Some(2.0)},
		Metrics:  MetricsConfig{Textfile: textfile},
	}

	var out bytes.Buffer
	app, err := New(config, &out, log.NewNop())
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Reals, 1)

	real := report.Reals[0]
	assert.Equal(t, "10.0.0.1", real.Addr)
	assert.Equal(t, 15.0, real.DelayLoop)
	assert.Equal(t, 3, real.Retries)
	assert.Equal(t, 2.0, real.RetryDelay)
	assert.Equal(t, layers.SourceService, real.Sources[layers.SettingDelayLoop])
	assert.Equal(t, layers.SourceGlobal, real.Sources[layers.SettingRetries])
	assert.Equal(t, layers.SourceDefaults, real.Sources[layers.SettingRetryDelay])

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "coalesce_reals 1")
	assert.Contains(t, string(data), "coalesce_runs_total 1")
	assert.Contains(t, string(data), `coalesce_settings_resolved_total{setting="retries",source="global"} 1`)
}

// TestApp_RunYAML checks YAML output.
func TestApp_RunYAML(t *testing.T) {
	dir := t.TempDir()
	config := Config{
		Layers: []string{writeFile(t, dir, "base.yaml", layer)},
		Output: OutputConfig{Format: FormatYAML},
	}

	var out bytes.Buffer
	app, err := New(config, &out, log.NewNop())
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))

	var report Report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Reals, 1)
	assert.Equal(t, "web", report.Reals[0].Service)
	assert.Equal(t, layers.SourceBuiltin, report.Reals[0].Sources[layers.SettingRetryDelay])
}

// TestApp_RunNoLayers checks that a run without layers fails.
func TestApp_RunNoLayers(t *testing.T) {
	app, err := New(Config{}, &bytes.Buffer{}, log.NewNop())
	require.NoError(t, err)
	assert.ErrorIs(t, app.Run(context.Background()), layers.ErrNoLayers)
}

// TestApp_Watch checks that watch mode resolves repeatedly until the context
// is done.
func TestApp_Watch(t *testing.T) {
	dir := t.TempDir()
	config := Config{
		Layers: []string{writeFile(t, dir, "base.yaml", layer)},
		Watch:  &scheduler.Config{DelayLoop: optional.Some(0.01)},
	}

	var out bytes.Buffer
	app, err := New(config, &out, log.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, app.Run(ctx), context.DeadlineExceeded)

	assert.Greater(t, strings.Count(out.String(), `"run_id"`), 1)
}
