package scanner

import (
	"context"
	"sync"
	"testing"
	"time"

	"TickerScout/internal/alert"
	"TickerScout/internal/classify"
	"TickerScout/internal/cleaner"
	"TickerScout/internal/indicator"
	"TickerScout/internal/logger"
	"TickerScout/internal/model"
	"TickerScout/internal/pricecache"
	"TickerScout/internal/provider"
	"TickerScout/internal/recorder"
)

type fakeRecorder struct {
	mu      sync.Mutex
	runs    []*recorder.RunSummary
	results []*model.EquityScanResult
}

func (f *fakeRecorder) RecordRun(run *recorder.RunSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRecorder) RecordResult(_ string, res *model.EquityScanResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, res)
	return nil
}

func (f *fakeRecorder) Close() error { return nil }

func (f *fakeRecorder) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func (f *fakeRecorder) lastRun() *recorder.RunSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.runs) == 0 {
		return nil
	}
	return f.runs[len(f.runs)-1]
}

// blockingSource holds every FetchBars call until released, so tests can
// observe the controller mid-run.
type blockingSource struct {
	started chan string
	release chan struct{}
	bars    []model.Bar
}

func newBlockingSource(capacity int) *blockingSource {
	return &blockingSource{
		started: make(chan string, capacity),
		release: make(chan struct{}),
		bars:    provider.GenerateBars(50, 200),
	}
}

func (s *blockingSource) FetchBars(ctx context.Context, symbol string, _, _ time.Time) ([]model.Bar, error) {
	s.started <- symbol
	select {
	case <-s.release:
		return s.bars, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newTestController(t *testing.T, src pricecache.BarSource, symbols []string, rec recorder.Recorder, opts ...func(*ControllerConfig)) *Controller {
	t.Helper()
	nop := logger.NewNop()
	cache := pricecache.New(src, cleaner.New(nil, nop), nop)
	engine := classify.NewEngine(nop, classify.NewRSIClassifier(0, 0))
	pipe, err := NewPipeline(cache, nil, nil, engine, indicator.MethodWilder, 14, nop, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	cfg := ControllerConfig{
		Pipeline:      pipe,
		Alerts:        alert.NewManager(nil, nop),
		Recorder:      rec,
		Symbols:       symbols,
		MaxConcurrent: 4,
		Log:           nop,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	c, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func symbols(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "SYM" + string(rune('A'+i%26)) + string(rune('A'+i/26))
	}
	return out
}

func waitForState(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %s, want %s", c.State(), want)
}

func TestControllerRunCompletes(t *testing.T) {
	rec := &fakeRecorder{}
	syms := symbols(12)
	m := &provider.Mock{Price: 50, Bars: provider.GenerateBars(50, 200)}
	c := newTestController(t, m, syms, rec)

	c.Start()
	c.Wait()

	if got := c.State(); got != StateIdle {
		t.Fatalf("state after run = %s, want idle", got)
	}
	run := rec.lastRun()
	if run == nil {
		t.Fatal("no run summary recorded")
	}
	if run.Cancelled {
		t.Error("completed run marked cancelled")
	}
	if run.Processed != len(syms) {
		t.Errorf("processed = %d, want %d", run.Processed, len(syms))
	}
	if run.RunID == "" {
		t.Error("run summary missing run ID")
	}
}

func TestControllerDoubleStartIsNoOp(t *testing.T) {
	rec := &fakeRecorder{}
	src := newBlockingSource(8)
	c := newTestController(t, src, symbols(4), rec)

	c.Start()
	<-src.started // at least one symbol is in flight
	c.Start()     // must not spawn a second run

	close(src.release)
	c.Wait()

	if got := rec.runCount(); got != 1 {
		t.Fatalf("recorded %d runs, want 1", got)
	}
}

func TestControllerStopCancelsRun(t *testing.T) {
	rec := &fakeRecorder{}
	src := newBlockingSource(64)
	c := newTestController(t, src, symbols(40), rec)

	c.Start()
	<-src.started
	c.Stop()

	if got := c.State(); got != StateIdle {
		t.Fatalf("state after stop = %s, want idle", got)
	}
	run := rec.lastRun()
	if run == nil {
		t.Fatal("cancelled run should still record a summary")
	}
	if !run.Cancelled {
		t.Error("run summary should be marked cancelled")
	}
	if run.Processed >= len(symbols(40)) {
		t.Errorf("processed = %d, expected a partial run", run.Processed)
	}
}

func TestControllerStopWhilePaused(t *testing.T) {
	rec := &fakeRecorder{}
	src := newBlockingSource(64)
	c := newTestController(t, src, symbols(40), rec)

	c.Start()
	<-src.started
	c.Pause()
	if got := c.State(); got != StatePaused {
		t.Fatalf("state after pause = %s, want paused", got)
	}

	c.Stop()
	if got := c.State(); got != StateIdle {
		t.Fatalf("state after stop = %s, want idle", got)
	}
}

func TestControllerPauseResume(t *testing.T) {
	rec := &fakeRecorder{}
	src := newBlockingSource(64)
	c := newTestController(t, src, symbols(6), rec, func(cfg *ControllerConfig) {
		cfg.MaxConcurrent = 2
	})

	// Pause before start and resume on idle are both no-ops.
	c.Pause()
	if got := c.State(); got != StateIdle {
		t.Fatalf("pause on idle moved state to %s", got)
	}
	c.Resume()

	c.Start()
	<-src.started
	c.Pause()
	c.Resume()
	waitForState(t, c, StateRunning)

	close(src.release)
	c.Wait()
	if got := c.State(); got != StateIdle {
		t.Fatalf("state after run = %s, want idle", got)
	}
	if run := rec.lastRun(); run == nil || run.Cancelled {
		t.Fatal("resumed run should complete normally")
	}
}

func TestControllerRestart(t *testing.T) {
	rec := &fakeRecorder{}
	m := &provider.Mock{Price: 50, Bars: provider.GenerateBars(50, 200)}
	c := newTestController(t, m, symbols(5), rec)

	c.Start()
	c.Wait()
	c.Restart() // from idle: plain start
	c.Wait()

	if got := rec.runCount(); got != 2 {
		t.Fatalf("recorded %d runs, want 2", got)
	}
	if rec.runs[0].RunID == rec.runs[1].RunID {
		t.Error("restarted run reused the previous run ID")
	}
}

func TestControllerUniverseFallback(t *testing.T) {
	rec := &fakeRecorder{}
	m := &provider.Mock{
		Price:   50,
		Bars:    provider.GenerateBars(50, 200),
		Tickers: []string{"AAA", "BBB", "CCC"},
	}
	c := newTestController(t, m, nil, rec, func(cfg *ControllerConfig) {
		cfg.Universe = m
	})

	c.Start()
	c.Wait()

	run := rec.lastRun()
	if run == nil {
		t.Fatal("no run summary recorded")
	}
	if run.Symbols != 3 {
		t.Errorf("universe size = %d, want 3 from provider", run.Symbols)
	}
}

func TestControllerProgressReporting(t *testing.T) {
	rec := &fakeRecorder{}
	m := &provider.Mock{Price: 50, Bars: provider.GenerateBars(50, 200)}

	var mu sync.Mutex
	var pcts []int
	c := newTestController(t, m, symbols(20), rec, func(cfg *ControllerConfig) {
		cfg.Progress = func(pct int) {
			mu.Lock()
			pcts = append(pcts, pct)
			mu.Unlock()
		}
	})

	c.Start()
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(pcts) == 0 {
		t.Fatal("no progress reported")
	}
	if last := pcts[len(pcts)-1]; last != 100 {
		t.Errorf("final progress = %d, want 100", last)
	}
}

type taggingClassifier struct{}

func (taggingClassifier) Name() string { return "always-overbought" }
func (taggingClassifier) Classify(res *model.EquityScanResult, _ []model.Bar) {
	res.RSI = 95
	res.AddTag(model.TagOverbought)
}

func TestControllerFlushesAlerts(t *testing.T) {
	rec := &fakeRecorder{}
	nop := logger.NewNop()
	m := &provider.Mock{Price: 50, Bars: provider.GenerateBars(50, 200)}
	cache := pricecache.New(m, cleaner.New(nil, nop), nop)
	engine := classify.NewEngine(nop, taggingClassifier{})
	pipe, err := NewPipeline(cache, nil, nil, engine, indicator.MethodWilder, 14, nop, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	alerts := alert.NewManager(nil, nop)
	c, err := NewController(ControllerConfig{
		Pipeline:      pipe,
		Alerts:        alerts,
		Recorder:      rec,
		Symbols:       []string{"AAA", "BBB"},
		MaxConcurrent: 2,
		Log:           nop,
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	c.Start()
	c.Wait()

	if alerts.Pending() != 0 {
		t.Errorf("queue not flushed, %d pending", alerts.Pending())
	}
	for _, sym := range []string{"AAA", "BBB"} {
		if !alerts.Overbought.Contains(sym) {
			t.Errorf("%s missing from overbought set", sym)
		}
	}
	run := rec.lastRun()
	if run == nil || run.Tagged != 2 {
		t.Fatalf("tagged count wrong: %+v", run)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.results) != 2 {
		t.Errorf("recorded %d tagged results, want 2", len(rec.results))
	}
}

func TestNewControllerValidation(t *testing.T) {
	nop := logger.NewNop()
	m := &provider.Mock{Price: 50}
	cache := pricecache.New(m, cleaner.New(nil, nop), nop)
	engine := classify.NewEngine(nop, classify.NewRSIClassifier(0, 0))
	pipe, err := NewPipeline(cache, nil, nil, engine, indicator.MethodWilder, 14, nop, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	alerts := alert.NewManager(nil, nop)

	cases := []struct {
		name string
		cfg  ControllerConfig
	}{
		{"nil pipeline", ControllerConfig{Alerts: alerts, MaxConcurrent: 1}},
		{"nil alerts", ControllerConfig{Pipeline: pipe, MaxConcurrent: 1}},
		{"zero concurrency", ControllerConfig{Pipeline: pipe, Alerts: alerts}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewController(tc.cfg); err == nil {
				t.Error("expected a construction error")
			}
		})
	}
}
