package model

import "time"

// Bar represents a single OHLCV observation, typically one trading day.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// SplitAdjustment describes a corporate action affecting historical prices.
// Factor multiplies the close (and divides the volume) of every bar strictly
// before Effective.
type SplitAdjustment struct {
	Effective time.Time
	Factor    float64
	Source    string
}

// TickerInfo holds symbol reference data resolved from a fundamentals provider.
type TickerInfo struct {
	Symbol   string
	Country  string
	Sector   string
	Exchange string
	Price    float64
}

// Complete reports whether the reference fields worth caching are populated.
func (t *TickerInfo) Complete() bool {
	return t.Sector != "" && t.Country != ""
}

// Closes extracts the close price of every bar, in order.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
