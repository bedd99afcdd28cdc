package indicator

import "math"

// Band is one Bollinger band triple.
type Band struct {
	Middle float64
	Upper  float64
	Lower  float64
}

// Bollinger computes SMA-centered bands at k population standard deviations
// over the trailing window. All fields are NaN if fewer than period values
// are available.
func Bollinger(values []float64, period int, k float64) Band {
	if period <= 0 || len(values) < period {
		return Band{Middle: math.NaN(), Upper: math.NaN(), Lower: math.NaN()}
	}
	window := values[len(values)-period:]
	mid := SMA(values, period)
	var sumSq float64
	for _, v := range window {
		d := v - mid
		sumSq += d * d
	}
	sigma := math.Sqrt(sumSq / float64(period))
	return Band{Middle: mid, Upper: mid + k*sigma, Lower: mid - k*sigma}
}

// BollingerSeries returns one Band per eligible window end, with the same
// windowing as SMASeries.
func BollingerSeries(values []float64, period int, k float64) []Band {
	if period <= 0 || len(values) < period {
		return nil
	}
	out := make([]Band, 0, len(values)-period+1)
	for end := period; end <= len(values); end++ {
		out = append(out, Bollinger(values[:end], period, k))
	}
	return out
}
