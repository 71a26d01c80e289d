package config

import (
	"time"

	"grimm.is/ifcompat/internal/brand"
)

// CurrentSchemaVersion defines the current schema version of the configuration.
const CurrentSchemaVersion = "1.0"

// Output formats accepted by the convert command.
const (
	FormatHCL  = "hcl"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the ifcompat daemon and CLI configuration.
type Config struct {
	SchemaVersion string `hcl:"schema_version,optional" json:"schema_version,omitempty"`

	// SysconfigDir holds the ifcfg-*, ifroute-* and global files.
	SysconfigDir string `hcl:"sysconfig_dir,optional" json:"sysconfig_dir,omitempty"`
	StateDir     string `hcl:"state_dir,optional" json:"state_dir,omitempty"`

	// Netns names the network namespace used for kernel snapshots. Empty
	// means the current namespace.
	Netns string `hcl:"netns,optional" json:"netns,omitempty"`

	// Format is the default output format of convert.
	Format string `hcl:"format,optional" json:"format,omitempty"`

	Log     *LogConfig     `hcl:"log,block" json:"log,omitempty"`
	Metrics *MetricsConfig `hcl:"metrics,block" json:"metrics,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `hcl:"level,optional" json:"level,omitempty"`
	JSON  bool   `hcl:"json,optional" json:"json,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint of serve-metrics.
type MetricsConfig struct {
	Enabled  bool   `hcl:"enabled,optional" json:"enabled,omitempty"`
	Listen   string `hcl:"listen,optional" json:"listen,omitempty"`
	Interval string `hcl:"interval,optional" json:"interval,omitempty"`
}

// DefaultMetricsInterval is the kernel snapshot interval of serve-metrics.
const DefaultMetricsInterval = 30 * time.Second

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.SchemaVersion == "" {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if c.SysconfigDir == "" {
		c.SysconfigDir = brand.GetSysconfigDir()
	}
	if c.StateDir == "" {
		c.StateDir = brand.GetStateDir()
	}
	if c.Format == "" {
		c.Format = FormatHCL
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = brand.MetricsListen
	}
	if c.Metrics.Interval == "" {
		c.Metrics.Interval = DefaultMetricsInterval.String()
	}
}

// MetricsInterval returns the parsed snapshot interval, falling back to the
// default when it is unset or invalid.
func (c *Config) MetricsInterval() time.Duration {
	if c.Metrics == nil {
		return DefaultMetricsInterval
	}
	d, err := time.ParseDuration(c.Metrics.Interval)
	if err != nil || d <= 0 {
		return DefaultMetricsInterval
	}
	return d
}
