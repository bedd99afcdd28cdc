// Package indicator provides the pure technical-indicator functions used by
// the scan pipeline. All functions are stateless and return math.NaN() when
// the input series is too short for the requested period.
package indicator

import (
	"fmt"
	"math"
	"strings"
)

// Method selects the RSI smoothing variant.
type Method string

const (
	MethodWilder Method = "wilder"
	MethodEMA    Method = "ema"
	MethodSimple Method = "simple"
)

// ParseMethod maps a config string to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wilder":
		return MethodWilder, nil
	case "ema":
		return MethodEMA, nil
	case "simple":
		return MethodSimple, nil
	}
	return "", fmt.Errorf("unknown rsi smoothing method %q", s)
}

// RSI computes the Relative Strength Index over the full series, using the
// given smoothing method. Returns NaN if len(closes) <= period.
func RSI(closes []float64, period int, method Method) float64 {
	if period <= 0 || len(closes) <= period {
		return math.NaN()
	}
	switch method {
	case MethodEMA:
		return rsiEMA(closes, period)
	case MethodSimple:
		return rsiSimple(closes, period)
	default:
		return rsiWilder(closes, period)
	}
}

// RSISeries returns one RSI value per eligible window end, i.e. for every
// index >= period of the input. Windowing semantics match RSI exactly: the
// value at output index i equals RSI(closes[:period+i+1], period, method).
func RSISeries(closes []float64, period int, method Method) []float64 {
	if period <= 0 || len(closes) <= period {
		return nil
	}
	out := make([]float64, 0, len(closes)-period)
	switch method {
	case MethodSimple:
		for end := period; end < len(closes); end++ {
			out = append(out, rsiSimple(closes[:end+1], period))
		}
	case MethodEMA:
		alpha := 2.0 / float64(period+1)
		avgGain, avgLoss := seedAverages(closes, period)
		out = append(out, rsiFromAverages(avgGain, avgLoss))
		for i := period + 1; i < len(closes); i++ {
			gain, loss := gainLoss(closes[i] - closes[i-1])
			avgGain = alpha*gain + (1-alpha)*avgGain
			avgLoss = alpha*loss + (1-alpha)*avgLoss
			out = append(out, rsiFromAverages(avgGain, avgLoss))
		}
	default:
		avgGain, avgLoss := seedAverages(closes, period)
		out = append(out, rsiFromAverages(avgGain, avgLoss))
		for i := period + 1; i < len(closes); i++ {
			gain, loss := gainLoss(closes[i] - closes[i-1])
			avgGain = (avgGain*float64(period-1) + gain) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
			out = append(out, rsiFromAverages(avgGain, avgLoss))
		}
	}
	return out
}

// rsiWilder seeds average gain/loss over the first period deltas, then
// applies Wilder's recursive smoothing for the remainder.
func rsiWilder(closes []float64, period int) float64 {
	avgGain, avgLoss := seedAverages(closes, period)
	for i := period + 1; i < len(closes); i++ {
		gain, loss := gainLoss(closes[i] - closes[i-1])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	return rsiFromAverages(avgGain, avgLoss)
}

// rsiEMA smooths gains and losses exponentially with alpha = 2/(period+1),
// seeded by the simple average over the first window.
func rsiEMA(closes []float64, period int) float64 {
	alpha := 2.0 / float64(period+1)
	avgGain, avgLoss := seedAverages(closes, period)
	for i := period + 1; i < len(closes); i++ {
		gain, loss := gainLoss(closes[i] - closes[i-1])
		avgGain = alpha*gain + (1-alpha)*avgGain
		avgLoss = alpha*loss + (1-alpha)*avgLoss
	}
	return rsiFromAverages(avgGain, avgLoss)
}

// rsiSimple averages gains and losses over the trailing period deltas only,
// with no recursive memory.
func rsiSimple(closes []float64, period int) float64 {
	var sumGain, sumLoss float64
	for i := len(closes) - period; i < len(closes); i++ {
		gain, loss := gainLoss(closes[i] - closes[i-1])
		sumGain += gain
		sumLoss += loss
	}
	return rsiFromAverages(sumGain/float64(period), sumLoss/float64(period))
}

func seedAverages(closes []float64, period int) (avgGain, avgLoss float64) {
	for i := 1; i <= period; i++ {
		gain, loss := gainLoss(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	return avgGain / float64(period), avgLoss / float64(period)
}

func gainLoss(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
