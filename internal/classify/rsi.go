package classify

import (
	"math"

	"TickerScout/internal/model"
)

// Default RSI trigger thresholds.
const (
	DefaultOverbought = 70
	DefaultOversold   = 30
)

// RSIClassifier tags results whose RSI crosses the configured thresholds.
type RSIClassifier struct {
	Overbought float64
	Oversold   float64
}

// NewRSIClassifier returns a classifier with the given thresholds; zero
// values fall back to the 70/30 defaults.
func NewRSIClassifier(overbought, oversold float64) *RSIClassifier {
	if overbought == 0 {
		overbought = DefaultOverbought
	}
	if oversold == 0 {
		oversold = DefaultOversold
	}
	return &RSIClassifier{Overbought: overbought, Oversold: oversold}
}

func (c *RSIClassifier) Name() string { return "rsi" }

func (c *RSIClassifier) Classify(result *model.EquityScanResult, _ []model.Bar) {
	if math.IsNaN(result.RSI) {
		return
	}
	switch {
	case result.RSI >= c.Overbought:
		result.AddTag(model.TagOverbought)
	case result.RSI <= c.Oversold:
		result.AddTag(model.TagOversold)
	}
}
