package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"TickerScout/internal/model"
)

// RESTProvider implements MarketData and Fundamentals against a REST
// market-data API.
type RESTProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTProvider creates a provider with optional proxy support.
func NewRESTProvider(baseURL, apiKey, proxyURL string) *RESTProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (p *RESTProvider) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars?symbol=%s&start=%d&end=%d",
		p.BaseURL, url.QueryEscape(symbol), start.Unix(), end.Unix())
	var raw []restBar
	if err := p.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}
	bars := make([]model.Bar, len(raw))
	for i, rb := range raw {
		bars[i] = model.Bar{
			Time:   time.Unix(rb.Timestamp, 0).UTC(),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (p *RESTProvider) GetQuote(ctx context.Context, symbol string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", p.BaseURL, url.QueryEscape(symbol))
	var result struct {
		Price  float64 `json:"price"`
		Volume float64 `json:"volume"`
	}
	if err := p.getJSON(ctx, endpoint, &result); err != nil {
		return 0, 0, fmt.Errorf("get quote %s: %w", symbol, err)
	}
	return result.Price, result.Volume, nil
}

func (p *RESTProvider) GetAllTickers(ctx context.Context) ([]string, error) {
	endpoint := p.BaseURL + "/api/v1/tickers"
	var result struct {
		Symbols []string `json:"symbols"`
	}
	if err := p.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("get tickers: %w", err)
	}
	return result.Symbols, nil
}

func (p *RESTProvider) GetSplitAdjustments(ctx context.Context, symbol string) ([]model.SplitAdjustment, error) {
	endpoint := fmt.Sprintf("%s/api/v1/splits?symbol=%s", p.BaseURL, url.QueryEscape(symbol))
	var raw []struct {
		Effective int64   `json:"effective"`
		Factor    float64 `json:"factor"`
		Source    string  `json:"source"`
	}
	if err := p.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("get split adjustments %s: %w", symbol, err)
	}
	adjs := make([]model.SplitAdjustment, len(raw))
	for i, a := range raw {
		adjs[i] = model.SplitAdjustment{
			Effective: time.Unix(a.Effective, 0).UTC(),
			Factor:    a.Factor,
			Source:    a.Source,
		}
	}
	return adjs, nil
}

func (p *RESTProvider) GetMetadata(ctx context.Context, symbol string) (*model.TickerInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/fundamentals?symbol=%s", p.BaseURL, url.QueryEscape(symbol))
	var result struct {
		Symbol   string  `json:"symbol"`
		Country  string  `json:"country"`
		Sector   string  `json:"sector"`
		Exchange string  `json:"exchange"`
		Price    float64 `json:"price"`
	}
	if err := p.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("get metadata %s: %w", symbol, err)
	}
	if result.Symbol == "" {
		return nil, nil
	}
	return &model.TickerInfo{
		Symbol:   result.Symbol,
		Country:  result.Country,
		Sector:   result.Sector,
		Exchange: result.Exchange,
		Price:    result.Price,
	}, nil
}

func (p *RESTProvider) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
