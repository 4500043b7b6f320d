// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. The recognized sections
// are logger, runtime, modules, and pipelines; anything else in the config
// file is ignored rather than rejected, so configs can carry deployment
// metadata the runtime does not care about.
type Config struct {
	Logger    LoggerConfig              `mapstructure:"logger" yaml:"logger"`
	Runtime   RuntimeConfig             `mapstructure:"runtime" yaml:"runtime"`
	Modules   map[string]map[string]any `mapstructure:"modules" yaml:"modules"`
	Pipelines map[string][]string       `mapstructure:"pipelines" yaml:"pipelines"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// RuntimeConfig controls dispatcher and registry behavior.
type RuntimeConfig struct {
	// AutoDiscover enables the fallback pipeline synthesized from all known
	// modules, in discovery order, when no pipeline name is given.
	AutoDiscover bool `mapstructure:"auto_discover" yaml:"auto_discover"`

	// PreloadModules are eagerly initialized at startup, in order.
	PreloadModules []string `mapstructure:"preload_modules" yaml:"preload_modules"`

	// StrictPreload aborts startup on the first preload failure. The default
	// (lenient) mode logs the failure and continues with the rest.
	StrictPreload bool `mapstructure:"strict_preload" yaml:"strict_preload"`

	// RemoveAllOccurrences makes pipeline removal drop every occurrence of a
	// module name instead of only the first.
	RemoveAllOccurrences bool `mapstructure:"remove_all_occurrences" yaml:"remove_all_occurrences"`

	// ModuleTimeout, when positive, bounds each individual module Process
	// call with a context deadline. Zero disables the limit; a module that
	// blocks then blocks the whole pipeline, which is the documented default.
	ModuleTimeout time.Duration `mapstructure:"module_timeout" yaml:"module_timeout"`
}

// NewDefaultConfig creates a configuration populated with default values.
// These are the values in effect when no config file is present.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "conduit",
			MaxSize:     50,
			MaxBackups:  3,
			MaxAge:      14,
		},
		Runtime: RuntimeConfig{
			AutoDiscover: false,
		},
		Modules:   map[string]map[string]any{},
		Pipelines: map[string][]string{},
	}
}

// Load unmarshals the currently loaded viper state on top of the defaults.
// Viper has already merged file, environment, and flag sources by the time
// this runs, so precedence is handled upstream.
func Load(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ModuleConfig returns the configuration slice for a single module, or an
// empty map when none is configured.
func (c *Config) ModuleConfig(name string) map[string]any {
	if c.Modules == nil {
		return map[string]any{}
	}
	mc, ok := c.Modules[name]
	if !ok || mc == nil {
		return map[string]any{}
	}
	return mc
}
