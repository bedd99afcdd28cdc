// Package cleaner normalizes raw bar sequences and applies corporate-action
// adjustments before any indicator sees them.
package cleaner

import (
	"context"
	"math"
	"sort"

	"TickerScout/internal/logger"
	"TickerScout/internal/model"
)

// AdjustmentSource supplies split/dividend adjustments for a symbol.
type AdjustmentSource interface {
	GetSplitAdjustments(ctx context.Context, symbol string) ([]model.SplitAdjustment, error)
}

// Cleaner produces bar sequences with unique, strictly ascending timestamps
// and split-adjusted prices.
type Cleaner struct {
	source AdjustmentSource
	log    logger.Logger
}

// New creates a Cleaner. source may be nil, in which case no adjustments
// are ever applied.
func New(source AdjustmentSource, log logger.Logger) *Cleaner {
	return &Cleaner{source: source, log: log}
}

// Clean normalizes bars for symbol: drops NaN closes, sorts ascending by
// timestamp, collapses duplicate timestamps keeping the last occurrence,
// then applies split adjustments in ascending effective-date order. A
// failure to fetch adjustments degrades to "no adjustment applied".
func (c *Cleaner) Clean(ctx context.Context, symbol string, bars []model.Bar) []model.Bar {
	cleaned := Normalize(bars)
	if len(cleaned) == 0 || c.source == nil {
		return cleaned
	}

	adjs, err := c.source.GetSplitAdjustments(ctx, symbol)
	if err != nil {
		c.log.Warnf("fetch split adjustments for %s failed, skipping adjustment: %v", symbol, err)
		return cleaned
	}
	return Adjust(cleaned, adjs)
}

// Normalize performs the dedup/sort pass only. The result has unique,
// strictly ascending timestamps; re-normalizing it is a no-op.
func Normalize(bars []model.Bar) []model.Bar {
	cleaned := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) {
			continue
		}
		cleaned = append(cleaned, b)
	}
	// Stable sort so the last occurrence of a duplicate timestamp wins.
	sort.SliceStable(cleaned, func(i, j int) bool { return cleaned[i].Time.Before(cleaned[j].Time) })

	deduped := cleaned[:0]
	for _, b := range cleaned {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(b.Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}

// Adjust applies each adjustment, ordered by effective date ascending, to
// every bar strictly before its effective date: close is multiplied and
// volume divided by the factor. Earlier-dated actions compound.
func Adjust(bars []model.Bar, adjs []model.SplitAdjustment) []model.Bar {
	if len(adjs) == 0 {
		return bars
	}
	ordered := make([]model.SplitAdjustment, len(adjs))
	copy(ordered, adjs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Effective.Before(ordered[j].Effective) })

	for _, adj := range ordered {
		if adj.Factor <= 0 {
			continue
		}
		for i := range bars {
			if !bars[i].Time.Before(adj.Effective) {
				break
			}
			bars[i].Close *= adj.Factor
			if bars[i].Volume != 0 {
				bars[i].Volume /= adj.Factor
			}
		}
	}
	return bars
}
