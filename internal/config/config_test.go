// File: internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "conduit", cfg.Logger.ServiceName)
	assert.False(t, cfg.Runtime.AutoDiscover)
	assert.False(t, cfg.Runtime.StrictPreload)
	assert.Zero(t, cfg.Runtime.ModuleTimeout)
	assert.NotNil(t, cfg.Modules)
	assert.NotNil(t, cfg.Pipelines)
}

func TestLoadFromYAML(t *testing.T) {
	const raw = `
logger:
  level: debug
  format: json
runtime:
  auto_discover: true
  preload_modules: [echo, counter]
  strict_preload: true
  remove_all_occurrences: true
  module_timeout: 250ms
modules:
  echo:
    suffix: "?"
pipelines:
  greet: [echo]
  audit: [stamp, counter]
`
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(raw)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Runtime.AutoDiscover)
	assert.Equal(t, []string{"echo", "counter"}, cfg.Runtime.PreloadModules)
	assert.True(t, cfg.Runtime.StrictPreload)
	assert.True(t, cfg.Runtime.RemoveAllOccurrences)
	assert.Equal(t, 250*time.Millisecond, cfg.Runtime.ModuleTimeout)
	assert.Equal(t, "?", cfg.Modules["echo"]["suffix"])
	assert.Equal(t, []string{"stamp", "counter"}, cfg.Pipelines["audit"])
}

func TestLoadKeepsDefaultsForOmittedSections(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("pipelines:\n  p: [echo]\n")))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, []string{"echo"}, cfg.Pipelines["p"])
}

func TestModuleConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Modules = map[string]map[string]any{"echo": {"suffix": "!"}}

	assert.Equal(t, map[string]any{"suffix": "!"}, cfg.ModuleConfig("echo"))
	assert.Empty(t, cfg.ModuleConfig("missing"))

	cfg.Modules = nil
	assert.Empty(t, cfg.ModuleConfig("echo"))
}
