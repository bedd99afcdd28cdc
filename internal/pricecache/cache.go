// Package pricecache keeps one time-bounded entry of cleaned price history
// per symbol, refetching from the market-data provider on miss or expiry.
package pricecache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"TickerScout/internal/cleaner"
	"TickerScout/internal/logger"
	"TickerScout/internal/model"
)

// TTL is how long a cached entry stays fresh.
const TTL = 2 * time.Hour

// fetchPadding is the number of extra days requested beyond minimumCount so
// weekends and holidays still leave enough bars.
const fetchPadding = 60

// ErrInsufficientData reports that even a fresh fetch did not yield enough
// history for the requested count.
var ErrInsufficientData = errors.New("insufficient price history")

// BarSource is the slice of the market-data provider the cache needs.
type BarSource interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error)
}

type entry struct {
	fetchedAt time.Time
	bars      []model.Bar
}

// Cache is safe for concurrent use. Entries are replaced whole, so readers
// never observe a partially updated symbol. Concurrent requests for the
// same stale symbol may both refetch; the later write wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	source  BarSource
	cleaner *cleaner.Cleaner
	log     logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates an empty cache over the given source and cleaner.
func New(source BarSource, cl *cleaner.Cleaner, log logger.Logger) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		source:  source,
		cleaner: cl,
		log:     log,
		now:     time.Now,
	}
}

// GetClosingPrices returns at least minimumCount cleaned closes for symbol,
// most recent last.
func (c *Cache) GetClosingPrices(ctx context.Context, symbol string, minimumCount int) ([]float64, error) {
	bars, err := c.GetBars(ctx, symbol, minimumCount)
	if err != nil {
		return nil, err
	}
	return model.Closes(bars), nil
}

// GetBars returns at least minimumCount cleaned bars for symbol, refetching
// when the cached entry is missing, too short, or older than TTL.
func (c *Cache) GetBars(ctx context.Context, symbol string, minimumCount int) ([]model.Bar, error) {
	c.mu.RLock()
	e, ok := c.entries[symbol]
	c.mu.RUnlock()

	if ok && len(e.bars) >= minimumCount && c.now().Sub(e.fetchedAt) < TTL {
		return e.bars, nil
	}

	bars, err := c.refetch(ctx, symbol, minimumCount)
	if err != nil {
		return nil, err
	}
	if len(bars) < minimumCount {
		c.log.Debugf("%s: %d bars after clean, need %d", symbol, len(bars), minimumCount)
		return nil, fmt.Errorf("%w: %s has %d bars, need %d", ErrInsufficientData, symbol, len(bars), minimumCount)
	}

	c.mu.Lock()
	c.entries[symbol] = entry{fetchedAt: c.now(), bars: bars}
	c.mu.Unlock()
	return bars, nil
}

func (c *Cache) refetch(ctx context.Context, symbol string, minimumCount int) ([]model.Bar, error) {
	end := c.now()
	start := end.AddDate(0, 0, -(minimumCount + fetchPadding))
	raw, err := c.source.FetchBars(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("refetch %s: %w", symbol, err)
	}
	return c.cleaner.Clean(ctx, symbol, raw), nil
}

// Invalidate drops the entry for symbol, forcing the next read to refetch.
func (c *Cache) Invalidate(symbol string) {
	c.mu.Lock()
	delete(c.entries, symbol)
	c.mu.Unlock()
}

// Len reports the number of cached symbols.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
