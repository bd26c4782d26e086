package risk

import (
	"fmt"

	"github.com/atlas-desktop/risk-engine/internal/regime"
)

// Config is the immutable configuration for one sizing pipeline. It is
// validated once at pipeline construction and never mutated afterwards, so a
// single Config is safe to share across parallel runs.
type Config struct {
	UseVolatilitySizing bool    `json:"use_volatility_sizing" mapstructure:"use_volatility_sizing"`
	VolLookback         int     `json:"vol_lookback" mapstructure:"vol_lookback"`
	TargetVol           float64 `json:"target_vol" mapstructure:"target_vol"`

	UseRegimeSizing   bool                   `json:"use_regime_sizing" mapstructure:"use_regime_sizing"`
	RegimeMultipliers regime.MultiplierTable `json:"regime_multipliers" mapstructure:"regime_multipliers"`

	UseCycleSizing           bool    `json:"use_cycle_sizing" mapstructure:"use_cycle_sizing"`
	CycleAmplitudeMultiplier float64 `json:"cycle_amplitude_multiplier" mapstructure:"cycle_amplitude_multiplier"`
	CycleScoreMultiplier     float64 `json:"cycle_score_multiplier" mapstructure:"cycle_score_multiplier"`

	UseKelly      bool    `json:"use_kelly" mapstructure:"use_kelly"`
	KellyFraction float64 `json:"kelly_fraction" mapstructure:"kelly_fraction"`

	MinPosition     float64 `json:"min_position" mapstructure:"min_position"`
	MaxPosition     float64 `json:"max_position" mapstructure:"max_position"`
	SmoothingWindow int     `json:"smoothing_window" mapstructure:"smoothing_window"`
}

// DefaultConfig returns conservative defaults: inverse-vol targeting at 2%
// with quarter Kelly, sizes bounded in [0, 2].
func DefaultConfig() *Config {
	return &Config{
		UseVolatilitySizing:      true,
		VolLookback:              20,
		TargetVol:                0.02,
		UseRegimeSizing:          true,
		RegimeMultipliers:        regime.DefaultMultiplierTable(),
		UseCycleSizing:           false,
		CycleAmplitudeMultiplier: 0.5,
		CycleScoreMultiplier:     0.5,
		UseKelly:                 false,
		KellyFraction:            0.25,
		MinPosition:              0.0,
		MaxPosition:              2.0,
		SmoothingWindow:          3,
	}
}

// Validate checks the configuration invariants. Violations are fatal at
// construction and never silently corrected.
func (c *Config) Validate() error {
	if c.MinPosition > c.MaxPosition {
		return fmt.Errorf("%w: min_position %v > max_position %v",
			ErrInvalidConfiguration, c.MinPosition, c.MaxPosition)
	}
	if c.SmoothingWindow < 1 {
		return fmt.Errorf("%w: smoothing_window must be >= 1, got %d",
			ErrInvalidConfiguration, c.SmoothingWindow)
	}
	if c.UseVolatilitySizing {
		if c.VolLookback <= 0 {
			return fmt.Errorf("%w: vol_lookback must be > 0, got %d",
				ErrInvalidConfiguration, c.VolLookback)
		}
		if c.TargetVol <= 0 {
			return fmt.Errorf("%w: target_vol must be > 0, got %v",
				ErrInvalidConfiguration, c.TargetVol)
		}
	}
	if c.UseRegimeSizing {
		if err := c.RegimeMultipliers.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
	}
	if c.UseKelly {
		if c.KellyFraction <= 0 || c.KellyFraction > 1 {
			return fmt.Errorf("%w: kelly_fraction must be in (0, 1], got %v",
				ErrInvalidConfiguration, c.KellyFraction)
		}
	}
	return nil
}
