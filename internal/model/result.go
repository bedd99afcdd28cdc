package model

import (
	"math"
	"time"
)

// Well-known classification tags.
const (
	TagOverbought = "Overbought"
	TagOversold   = "Oversold"
	TagCreeper    = "Creeper"
)

// CreeperType labels the sub-pattern of a positive creeper classification.
type CreeperType string

const (
	CreeperNone         CreeperType = ""
	CreeperUptrend      CreeperType = "Uptrend"
	CreeperDowntrend    CreeperType = "Downtrend"
	CreeperAccumulation CreeperType = "Accumulation"
)

// EquityScanResult is the output of one per-symbol pipeline run. It is
// created once per run and treated as immutable after classification.
type EquityScanResult struct {
	Symbol    string
	Price     float64
	RSI       float64
	SMA       float64
	UpperBand float64
	LowerBand float64
	Volume    float64
	Time      time.Time

	Tags         []string
	CreeperScore float64
	CreeperType  CreeperType

	// Info is a non-owning snapshot of the symbol metadata current at
	// classification time.
	Info *TickerInfo
}

// EmptyResult returns the NaN-valued result used when a symbol is skipped.
func EmptyResult(symbol string) *EquityScanResult {
	return &EquityScanResult{
		Symbol:    symbol,
		Price:     math.NaN(),
		RSI:       math.NaN(),
		SMA:       math.NaN(),
		UpperBand: math.NaN(),
		LowerBand: math.NaN(),
		Time:      time.Now(),
	}
}

// Empty reports whether the result carries no usable data.
func (r *EquityScanResult) Empty() bool {
	return math.IsNaN(r.Price)
}

// AddTag appends tag if not already present.
func (r *EquityScanResult) AddTag(tag string) {
	for _, t := range r.Tags {
		if t == tag {
			return
		}
	}
	r.Tags = append(r.Tags, tag)
}

// HasTag reports whether tag has been applied by a classifier.
func (r *EquityScanResult) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
