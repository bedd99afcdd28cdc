package indicator

import (
	"math"

	"TickerScout/internal/model"
)

// ATR computes the mean true range over the trailing period bars. The true
// range of a bar needs the previous close, so at least period+1 bars are
// required; otherwise NaN.
func ATR(bars []model.Bar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += trueRange(bars[i], bars[i-1].Close)
	}
	return sum / float64(period)
}

// ATRSeries returns one ATR value per eligible window end: output index i
// corresponds to the window ending at input index period+i.
func ATRSeries(bars []model.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period+1 {
		return nil
	}
	out := make([]float64, 0, len(bars)-period)
	for end := period + 1; end <= len(bars); end++ {
		out = append(out, ATR(bars[:end], period))
	}
	return out
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func trueRange(b model.Bar, prevClose float64) float64 {
	tr := b.High - b.Low
	if v := math.Abs(b.High - prevClose); v > tr {
		tr = v
	}
	if v := math.Abs(b.Low - prevClose); v > tr {
		tr = v
	}
	return tr
}
