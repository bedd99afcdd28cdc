package provider

import (
	"context"
	"time"

	"TickerScout/internal/model"
)

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	Price       float64
	Bars        []model.Bar
	BarsBySym   map[string][]model.Bar
	Tickers     []string
	Adjustments map[string][]model.SplitAdjustment
	Metadata    map[string]*model.TickerInfo

	// Optional error injection, applied to every call when set.
	Err error

	// QuoteErr fails only GetQuote, to exercise the last-close fallback.
	QuoteErr error
}

func (m *Mock) FetchBars(_ context.Context, symbol string, _, _ time.Time) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.BarsBySym[symbol]; ok {
		return bars, nil
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateBars(m.Price, 200), nil
}

func (m *Mock) GetQuote(_ context.Context, _ string) (float64, float64, error) {
	if m.Err != nil {
		return 0, 0, m.Err
	}
	if m.QuoteErr != nil {
		return 0, 0, m.QuoteErr
	}
	return m.Price, 1000000, nil
}

func (m *Mock) GetAllTickers(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tickers, nil
}

func (m *Mock) GetSplitAdjustments(_ context.Context, symbol string) ([]model.SplitAdjustment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Adjustments[symbol], nil
}

func (m *Mock) GetMetadata(_ context.Context, symbol string) (*model.TickerInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Metadata[symbol], nil
}

// GenerateBars builds a gently drifting daily series around basePrice.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   time.Now().UTC().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
