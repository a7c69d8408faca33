package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sysmon or regenerate the file with 'sysmon config init --force'")
	}

	if cfg.Top < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Top process count must be at least 1 (got %d)", cfg.Top),
			"Pass something like -n 10")
	}

	if math.IsNaN(cfg.Refresh) || math.IsInf(cfg.Refresh, 0) || cfg.Refresh <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval must be greater than zero (got %g)", cfg.Refresh),
			"Pass something like -r 1 or -r 0.5")
	}
	if cfg.Interval() < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval is too short (got %gs, minimum is %s)", cfg.Refresh, MinInterval),
			"Pass something like -r 1 or -r 0.5")
	}

	if !IsKnownView(cfg.View) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown view '%s'", cfg.View),
			"Pick one of: "+strings.Join(KnownViews, ", "))
	}

	if cfg.History < 2 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history needs at least 2 samples (got %d)", cfg.History),
			"Remove the history key to use the default of 60")
	}

	if err := validateThresholds("cpu", cfg.Thresholds.CPU); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid thresholds", "Use percentages where warning < critical <= 100")
	}
	if err := validateThresholds("memory", cfg.Thresholds.Memory); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid thresholds", "Use percentages where warning < critical <= 100")
	}

	return nil
}

// IsKnownView reports whether name is a canonical view name.
func IsKnownView(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range KnownViews {
		if v == name {
			return true
		}
	}
	return false
}

// validateThresholds checks a threshold configuration for a single metric type.
func validateThresholds(name string, thresh ThresholdValues) error {
	if thresh.Warning <= 0 || thresh.Warning > 100 {
		return fmt.Errorf("thresholds.%s.warning needs to be 1-100 (got %d)", name, thresh.Warning)
	}
	if thresh.Critical <= 0 || thresh.Critical > 100 {
		return fmt.Errorf("thresholds.%s.critical needs to be 1-100 (got %d)", name, thresh.Critical)
	}
	if thresh.Warning >= thresh.Critical {
		return fmt.Errorf("thresholds.%s.warning (%d%%) is higher than critical (%d%%) - should be the other way around", name, thresh.Warning, thresh.Critical)
	}
	return nil
}
