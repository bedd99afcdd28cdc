package classify

import (
	"fmt"
	"math"

	"TickerScout/internal/indicator"
	"TickerScout/internal/model"
)

// Slope (percent) beyond which a creeper counts as trending rather than
// accumulating.
const trendSlopePct = 0.2

// CreeperClassifier scores low-volatility, persistently-trending price
// behavior over a trailing window: hard filters first, then a weighted
// trend/volatility score.
type CreeperClassifier struct {
	criteria model.CreeperCriteria
}

// NewCreeperClassifier validates the criteria up front; invalid criteria
// never reach a running scan.
func NewCreeperClassifier(criteria model.CreeperCriteria) (*CreeperClassifier, error) {
	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("creeper criteria: %w", err)
	}
	return &CreeperClassifier{criteria: criteria}, nil
}

func (c *CreeperClassifier) Name() string { return "creeper" }

func (c *CreeperClassifier) Classify(result *model.EquityScanResult, bars []model.Bar) {
	crit := c.criteria
	if len(bars) < crit.LookBackBars {
		return
	}
	window := bars[len(bars)-crit.LookBackBars:]
	closes := model.Closes(window)

	// Trend metrics against the baseline SMA.
	baseline := indicator.SMASeries(closes, crit.BaselinePeriod)
	if len(baseline) == 0 {
		return
	}
	offset := crit.BaselinePeriod - 1
	var above int
	var maxDevPct float64
	for i, base := range baseline {
		close := closes[offset+i]
		if close > base {
			above++
		}
		if base != 0 {
			if dev := math.Abs(close-base) / base * 100; dev > maxDevPct {
				maxDevPct = dev
			}
		}
	}
	fracAbove := float64(above) / float64(len(baseline))
	slopePct := 0.0
	if first := baseline[0]; first != 0 {
		slopePct = (baseline[len(baseline)-1] - first) / first * 100
	}

	// Volatility metrics.
	lastClose := closes[len(closes)-1]
	atr := indicator.ATR(window, crit.AtrPeriod)
	if math.IsNaN(atr) || lastClose == 0 {
		return
	}
	atrPct := atr / lastClose * 100
	compression := 1.0
	if longATR := indicator.ATR(window, crit.AtrPeriod*3); !math.IsNaN(longATR) && longATR > 0 {
		compression = atr / longATR
	}

	// Hard filters disqualify outright; the score stays zero.
	result.CreeperScore = 0
	if fracAbove < crit.MinBarsAboveBaselinePct {
		return
	}
	if maxDevPct > crit.MaxBaselineDeviationPct {
		return
	}
	if crit.Strict {
		if atrPct > crit.MaxAtrPctOfPrice {
			return
		}
		if compression > crit.AtrCompressionRatio {
			return
		}
	}

	trendScore := clamp01((fracAbove-crit.MinBarsAboveBaselinePct)/(1-crit.MinBarsAboveBaselinePct))*70 +
		clamp01(slopePct/crit.MaxBaselineDeviationPct)*30
	volScore := (clamp01(1-atrPct/crit.MaxAtrPctOfPrice)*0.6 +
		clamp01(1-compression/crit.AtrCompressionRatio)*0.4) * 100
	total := math.Round(trendScore*0.6 + volScore*0.4)

	result.CreeperScore = total
	if total < crit.ScoreThreshold {
		return
	}

	switch {
	case slopePct > trendSlopePct:
		result.CreeperType = model.CreeperUptrend
	case slopePct < -trendSlopePct:
		result.CreeperType = model.CreeperDowntrend
	default:
		result.CreeperType = model.CreeperAccumulation
	}
	result.AddTag(model.TagCreeper)
	result.AddTag(model.TagCreeper + ":" + string(result.CreeperType))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
