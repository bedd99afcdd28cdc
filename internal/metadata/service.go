// Package metadata resolves and caches symbol reference data (country,
// sector, exchange) from a fundamentals provider, with a SQLite-persisted
// in-memory cache.
package metadata

import (
	"context"
	"fmt"

	"sync"

	"TickerScout/internal/logger"
	"TickerScout/internal/model"
	"TickerScout/internal/provider"
)

// TickerSource lists the full symbol universe for Preload.
type TickerSource interface {
	GetAllTickers(ctx context.Context) ([]string, error)
}

// preloadBatch bounds how often Preload reports progress.
const preloadBatch = 10

// Service is safe for concurrent use; cache entries are replaced whole.
type Service struct {
	mu    sync.RWMutex
	cache map[string]model.TickerInfo

	fundamentals provider.Fundamentals
	tickers      TickerSource
	store        *Store
	log          logger.Logger
}

// NewService builds the service, loading any persisted cache from store.
// store and tickers may be nil (no persistence / no Preload).
func NewService(fundamentals provider.Fundamentals, tickers TickerSource, store *Store, log logger.Logger) (*Service, error) {
	s := &Service{
		cache:        make(map[string]model.TickerInfo),
		fundamentals: fundamentals,
		tickers:      tickers,
		store:        store,
		log:          log,
	}
	if store != nil {
		persisted, err := store.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("load metadata cache: %w", err)
		}
		s.cache = persisted
		log.Infof("metadata cache loaded, %d symbols", len(persisted))
	}
	return s, nil
}

// EnsureMetadata fills in reference fields for info. On a cache miss or an
// incomplete cached record it calls the fundamentals provider once; the
// result is written through to the cache. On provider failure the input is
// returned unchanged. The returned value is a snapshot; the cache retains
// ownership of the current record.
func (s *Service) EnsureMetadata(ctx context.Context, info *model.TickerInfo) *model.TickerInfo {
	if info == nil || info.Symbol == "" {
		return info
	}

	s.mu.RLock()
	cached, ok := s.cache[info.Symbol]
	s.mu.RUnlock()
	if ok && cached.Complete() {
		return merge(info, cached)
	}

	fetched, err := s.fundamentals.GetMetadata(ctx, info.Symbol)
	if err != nil {
		s.log.Warnf("fetch metadata for %s: %v", info.Symbol, err)
		return info
	}
	if fetched == nil {
		s.log.Debugf("no metadata for %s", info.Symbol)
		return info
	}

	s.mu.Lock()
	s.cache[info.Symbol] = *fetched
	s.mu.Unlock()
	return merge(info, *fetched)
}

// merge copies reference fields from cached onto a snapshot of info,
// preferring the caller's live price when present.
func merge(info *model.TickerInfo, cached model.TickerInfo) *model.TickerInfo {
	out := *info
	out.Country = cached.Country
	out.Sector = cached.Sector
	out.Exchange = cached.Exchange
	if out.Price == 0 {
		out.Price = cached.Price
	}
	return &out
}

// Preload iterates the full ticker universe once, populating the cache and
// persisting it at the end. Batch warm-up only; not part of the scan hot
// path. progress, if non-nil, receives 0-100 at most once per batch.
func (s *Service) Preload(ctx context.Context, progress func(pct int)) error {
	if s.tickers == nil {
		return fmt.Errorf("preload: no ticker source configured")
	}
	symbols, err := s.tickers.GetAllTickers(ctx)
	if err != nil {
		return fmt.Errorf("preload: list tickers: %w", err)
	}

	for i, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.EnsureMetadata(ctx, &model.TickerInfo{Symbol: sym})
		if progress != nil && ((i+1)%preloadBatch == 0 || i+1 == len(symbols)) {
			progress((i + 1) * 100 / len(symbols))
		}
	}
	return s.Persist()
}

// Persist writes the current cache through to the durable store.
func (s *Service) Persist() error {
	if s.store == nil {
		return nil
	}
	s.mu.RLock()
	snapshot := make(map[string]model.TickerInfo, len(s.cache))
	for k, v := range s.cache {
		snapshot[k] = v
	}
	s.mu.RUnlock()

	if err := s.store.SaveAll(snapshot); err != nil {
		return fmt.Errorf("persist metadata cache: %w", err)
	}
	s.log.Infof("metadata cache persisted, %d symbols", len(snapshot))
	return nil
}

// Len reports the number of cached symbols.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
