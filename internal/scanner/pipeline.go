// Package scanner contains the per-symbol scan pipeline, the run
// controller state machine, and batched progress reporting.
package scanner

import (
	"context"
	"fmt"
	"time"

	"TickerScout/internal/classify"
	"TickerScout/internal/indicator"
	"TickerScout/internal/logger"
	"TickerScout/internal/metadata"
	"TickerScout/internal/metrics"
	"TickerScout/internal/model"
	"TickerScout/internal/pricecache"
)

const (
	// MinimumCloses is the least history a symbol needs to be scanned.
	MinimumCloses = 150
	// IndicatorWindow is the trailing bar count indicators are computed over.
	IndicatorWindow = 120
	// bandMultiplier is the Bollinger band width in standard deviations.
	bandMultiplier = 2
)

// QuoteSource is the slice of the market-data provider the pipeline needs
// for live prices.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (price, volume float64, err error)
}

// Pipeline orchestrates one symbol's scan: cache lookup, metadata
// enrichment, indicators, quote, classification.
type Pipeline struct {
	prices   *pricecache.Cache
	metadata *metadata.Service
	quotes   QuoteSource
	engine   *classify.Engine
	method   indicator.Method
	period   int
	log      logger.Logger
	metrics  *metrics.Metrics
}

// NewPipeline validates the configuration up front; an invalid period is a
// construction-time failure, never a mid-scan one.
func NewPipeline(prices *pricecache.Cache, meta *metadata.Service, quotes QuoteSource,
	engine *classify.Engine, method indicator.Method, period int,
	log logger.Logger, m *metrics.Metrics) (*Pipeline, error) {
	if prices == nil || engine == nil {
		return nil, fmt.Errorf("pipeline needs a price cache and a classification engine")
	}
	if period <= 0 || period >= IndicatorWindow {
		return nil, fmt.Errorf("indicator period must be in 1..%d, got %d", IndicatorWindow-1, period)
	}
	return &Pipeline{
		prices:   prices,
		metadata: meta,
		quotes:   quotes,
		engine:   engine,
		method:   method,
		period:   period,
		log:      log,
		metrics:  m,
	}, nil
}

// Scan runs the full per-symbol sequence and never panics or errors out:
// any failure yields the empty result for the symbol.
func (p *Pipeline) Scan(ctx context.Context, info *model.TickerInfo) (res *model.EquityScanResult) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorf("scan %s panicked: %v", info.Symbol, r)
			p.metrics.IncSymbolsSkipped()
			res = model.EmptyResult(info.Symbol)
		}
		p.metrics.ObserveScanDuration(time.Since(started).Seconds())
	}()

	if ctx.Err() != nil {
		return model.EmptyResult(info.Symbol)
	}

	bars, err := p.prices.GetBars(ctx, info.Symbol, MinimumCloses)
	if err != nil {
		p.log.Debugf("skip %s: %v", info.Symbol, err)
		p.metrics.IncSymbolsSkipped()
		return model.EmptyResult(info.Symbol)
	}
	if len(bars) > IndicatorWindow {
		bars = bars[len(bars)-IndicatorWindow:]
	}

	if ctx.Err() != nil {
		return model.EmptyResult(info.Symbol)
	}
	if p.metadata != nil {
		info = p.metadata.EnsureMetadata(ctx, info)
	}

	closes := model.Closes(bars)
	rsi := indicator.RSI(closes, p.period, p.method)
	band := indicator.Bollinger(closes, p.period, bandMultiplier)

	lastBar := bars[len(bars)-1]
	price, volume := lastBar.Close, lastBar.Volume
	if p.quotes != nil && ctx.Err() == nil {
		if qp, qv, qerr := p.quotes.GetQuote(ctx, info.Symbol); qerr == nil && qp > 0 {
			price, volume = qp, qv
		} else if qerr != nil {
			p.log.Debugf("quote %s unavailable, using last close: %v", info.Symbol, qerr)
		}
	}

	snapshot := *info
	snapshot.Price = price
	res = &model.EquityScanResult{
		Symbol:    info.Symbol,
		Price:     price,
		RSI:       rsi,
		SMA:       band.Middle,
		UpperBand: band.Upper,
		LowerBand: band.Lower,
		Volume:    volume,
		Time:      time.Now(),
		Info:      &snapshot,
	}
	p.engine.Classify(res, bars)
	p.metrics.IncSymbolsScanned()
	return res
}
