package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for the user config, relative to $HOME.
	GlobalConfigDir = ".config/sysmon"
	// GlobalConfigFile is the config file name inside GlobalConfigDir.
	GlobalConfigFile = "config.yaml"
)

// Flag names that map one-to-one onto config keys.
const (
	FlagTop     = "top"
	FlagRefresh = "refresh"
	FlagView    = "view"
	FlagNoMouse = "no-mouse"
)

// boundFlags are the flags whose values override the config file when set.
var boundFlags = []string{FlagTop, FlagRefresh, FlagView}

// DefaultPath returns ~/.config/sysmon/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Pass the config location explicitly with --config")
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile), nil
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag), which must exist
// 2. ~/.config/sysmon/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	path, err := DefaultPath()
	if err != nil {
		// No home directory just means no user config.
		return "", nil
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// Load builds the effective config: defaults, then the file at path (if any),
// then any flags in flags that were explicitly set. The result is validated.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'sysmon config init' to create one, or drop --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	if flags != nil {
		for _, name := range boundFlags {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, errors.WrapWithCode(err, errors.ErrConfig,
						"Failed to bind --"+name,
						"")
				}
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}
	cfg.View = strings.ToLower(strings.TrimSpace(cfg.View))

	if flags != nil && flags.Changed(FlagNoMouse) {
		if off, err := flags.GetBool(FlagNoMouse); err == nil && off {
			cfg.Mouse = false
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault finds the config (see Find) and loads it with flag overrides.
func LoadOrDefault(explicit string, flags *pflag.FlagSet) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	return Load(path, flags)
}

// setDefaults registers the default value of every key with viper so that
// Unmarshal and the bound flags layer on top of them.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("top", d.Top)
	v.SetDefault("refresh", d.Refresh)
	v.SetDefault("view", d.View)
	v.SetDefault("mouse", d.Mouse)
	v.SetDefault("history", d.History)
	v.SetDefault("thresholds.cpu.warning", d.Thresholds.CPU.Warning)
	v.SetDefault("thresholds.cpu.critical", d.Thresholds.CPU.Critical)
	v.SetDefault("thresholds.memory.warning", d.Thresholds.Memory.Warning)
	v.SetDefault("thresholds.memory.critical", d.Thresholds.Memory.Critical)
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode config",
			"")
	}
	return data, nil
}

// Write saves cfg to path as YAML, creating parent directories as needed.
func Write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory "+filepath.Dir(path),
			"Check directory permissions")
	}

	header := []byte("# sysmon configuration\n# Flags (-n, -r, --view) override these values.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check file permissions")
	}
	return nil
}
