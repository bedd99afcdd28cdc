package model

import "fmt"

// CreeperCriteria configures the creeper pattern scorer. Values are supplied
// externally and never mutated by the classifier.
type CreeperCriteria struct {
	// LookBackBars is the trailing window the scorer inspects.
	LookBackBars int `yaml:"look_back_bars"`
	// BaselinePeriod is the SMA period used as the trend baseline.
	BaselinePeriod int `yaml:"baseline_period"`
	// AtrPeriod is the ATR period for the volatility metrics.
	AtrPeriod int `yaml:"atr_period"`

	// MinBarsAboveBaselinePct is the minimum fraction (0..1) of bars that
	// must close above the baseline.
	MinBarsAboveBaselinePct float64 `yaml:"min_bars_above_baseline_pct"`
	// MaxBaselineDeviationPct is the maximum tolerated absolute percentage
	// deviation from the baseline.
	MaxBaselineDeviationPct float64 `yaml:"max_baseline_deviation_pct"`
	// MaxAtrPctOfPrice caps ATR as a percentage of the last close (strict
	// mode only).
	MaxAtrPctOfPrice float64 `yaml:"max_atr_pct_of_price"`
	// AtrCompressionRatio caps short-ATR/long-ATR (strict mode only).
	AtrCompressionRatio float64 `yaml:"atr_compression_ratio"`

	// ScoreThreshold is the minimum total score for a positive classification.
	ScoreThreshold float64 `yaml:"score_threshold"`
	// Strict enables the volatility hard filters.
	Strict bool `yaml:"strict"`
}

// DefaultCreeperCriteria returns the production defaults.
func DefaultCreeperCriteria() CreeperCriteria {
	return CreeperCriteria{
		LookBackBars:            60,
		BaselinePeriod:          20,
		AtrPeriod:               14,
		MinBarsAboveBaselinePct: 0.60,
		MaxBaselineDeviationPct: 6.0,
		MaxAtrPctOfPrice:        3.0,
		AtrCompressionRatio:     1.25,
		ScoreThreshold:          60,
		Strict:                  true,
	}
}

// Validate rejects configurations that would make the scorer meaningless.
// Invalid criteria are fatal at construction time, never mid-scan.
func (c CreeperCriteria) Validate() error {
	if c.LookBackBars <= 0 {
		return fmt.Errorf("look_back_bars must be positive, got %d", c.LookBackBars)
	}
	if c.BaselinePeriod <= 0 || c.BaselinePeriod > c.LookBackBars {
		return fmt.Errorf("baseline_period must be in 1..%d, got %d", c.LookBackBars, c.BaselinePeriod)
	}
	if c.AtrPeriod <= 0 {
		return fmt.Errorf("atr_period must be positive, got %d", c.AtrPeriod)
	}
	if c.MinBarsAboveBaselinePct < 0 || c.MinBarsAboveBaselinePct >= 1 {
		return fmt.Errorf("min_bars_above_baseline_pct must be in [0,1), got %g", c.MinBarsAboveBaselinePct)
	}
	if c.MaxBaselineDeviationPct <= 0 {
		return fmt.Errorf("max_baseline_deviation_pct must be positive, got %g", c.MaxBaselineDeviationPct)
	}
	if c.MaxAtrPctOfPrice <= 0 {
		return fmt.Errorf("max_atr_pct_of_price must be positive, got %g", c.MaxAtrPctOfPrice)
	}
	if c.AtrCompressionRatio <= 0 {
		return fmt.Errorf("atr_compression_ratio must be positive, got %g", c.AtrCompressionRatio)
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 100 {
		return fmt.Errorf("score_threshold must be in [0,100], got %g", c.ScoreThreshold)
	}
	return nil
}
