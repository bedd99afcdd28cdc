// Package provider defines the external data-source boundaries of the
// scanner and ships a REST implementation plus a controllable mock.
package provider

import (
	"context"
	"time"

	"TickerScout/internal/model"
)

// MarketData supplies price history, quotes, the ticker universe, and
// corporate actions. Implementations should return errors for transient
// failures; callers degrade them to empty results at their own boundary.
type MarketData interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error)
	GetQuote(ctx context.Context, symbol string) (price, volume float64, err error)
	GetAllTickers(ctx context.Context) ([]string, error)
	GetSplitAdjustments(ctx context.Context, symbol string) ([]model.SplitAdjustment, error)
}

// Fundamentals resolves symbol reference data. A nil info with nil error
// means the symbol is unknown to the provider.
type Fundamentals interface {
	GetMetadata(ctx context.Context, symbol string) (*model.TickerInfo, error)
}
