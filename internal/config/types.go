package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Default values used when neither the config file nor a flag sets a key.
const (
	DefaultTop         = 10
	DefaultRefresh     = 1.0
	DefaultView        = "cpu"
	DefaultHistorySize = 60
)

// MinInterval is the shortest refresh interval accepted.
const MinInterval = time.Millisecond

// KnownViews lists the canonical view names accepted by the view setting.
var KnownViews = []string{"cpu", "memory", "disk", "network", "uptime"}

// Config represents the sysmon configuration file plus flag overrides.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Top is how many processes (or interfaces) each view lists.
	Top int `yaml:"top" mapstructure:"top"`

	// Refresh is the sampling interval in seconds. Fractions are allowed.
	Refresh float64 `yaml:"refresh" mapstructure:"refresh"`

	// View is the view shown at startup.
	View string `yaml:"view" mapstructure:"view"`

	// Mouse enables click-to-switch on the header tabs.
	Mouse bool `yaml:"mouse" mapstructure:"mouse"`

	// History is how many samples the overview sparklines keep.
	History int `yaml:"history" mapstructure:"history"`

	Thresholds ThresholdConfig `yaml:"thresholds" mapstructure:"thresholds"`
}

// ThresholdConfig holds warning/critical percentages used for coloring.
type ThresholdConfig struct {
	CPU    ThresholdValues `yaml:"cpu" mapstructure:"cpu"`
	Memory ThresholdValues `yaml:"memory" mapstructure:"memory"`
}

// ThresholdValues defines the warning and critical percentages for one metric.
type ThresholdValues struct {
	Warning  int `yaml:"warning" mapstructure:"warning"`
	Critical int `yaml:"critical" mapstructure:"critical"`
}

// Interval returns the refresh setting as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Refresh * float64(time.Second))
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Top:     DefaultTop,
		Refresh: DefaultRefresh,
		View:    DefaultView,
		Mouse:   true,
		History: DefaultHistorySize,
		Thresholds: ThresholdConfig{
			CPU:    ThresholdValues{Warning: 70, Critical: 90},
			Memory: ThresholdValues{Warning: 70, Critical: 90},
		},
	}
}
