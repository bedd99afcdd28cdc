package scanner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"TickerScout/internal/alert"
	"TickerScout/internal/logger"
	"TickerScout/internal/metrics"
	"TickerScout/internal/model"
	"TickerScout/internal/pool"
	"TickerScout/internal/recorder"
)

// State is the scan controller lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

// UniverseSource lists all scannable symbols when none are configured.
type UniverseSource interface {
	GetAllTickers(ctx context.Context) ([]string, error)
}

// ControllerConfig wires a Controller.
type ControllerConfig struct {
	Pipeline      *Pipeline
	Alerts        *alert.Manager
	Recorder      recorder.Recorder // optional
	Universe      UniverseSource    // optional, used when Symbols is empty
	Symbols       []string
	MaxConcurrent int
	Progress      func(pct int) // optional
	Log           logger.Logger
	Metrics       *metrics.Metrics
}

// Controller is the state machine governing one scan run at a time across
// the whole symbol universe. Start/Stop/Restart are serialized; Pause and
// Resume only toggle the admission gate.
type Controller struct {
	opMu sync.Mutex // serializes Start/Stop/Restart

	mu     sync.Mutex // guards state, cancel, done
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	gate *pool.Gate
	cfg  ControllerConfig
	log  logger.Logger
}

// NewController validates the configuration; errors here are fatal before
// any scan starts.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("controller needs a pipeline")
	}
	if cfg.Alerts == nil {
		return nil, fmt.Errorf("controller needs an alert manager")
	}
	if cfg.MaxConcurrent <= 0 {
		return nil, fmt.Errorf("max concurrent scans must be positive, got %d", cfg.MaxConcurrent)
	}
	if cfg.Recorder == nil {
		cfg.Recorder = recorder.NewNoopRecorder()
	}
	if cfg.Log == nil {
		cfg.Log = logger.NewNop()
	}
	return &Controller{gate: pool.NewGate(), cfg: cfg, log: cfg.Log}, nil
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start launches a scan run. A second Start while a run is active is a
// no-op.
func (c *Controller) Start() {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.start()
}

// Stop cancels the active run, if any, and blocks until it has unwound and
// the controller is Idle. Stopping an idle controller is a no-op.
func (c *Controller) Stop() {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.stop()
}

// Restart stops the active run and starts a new one under the same
// serialization lock, so overlapping restarts cannot race.
func (c *Controller) Restart() {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.stop()
	c.start()
}

// Pause closes the admission gate: no new symbols enter the pipeline, but
// already-admitted work runs to completion.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return
	}
	c.state = StatePaused
	c.gate.Close()
	c.log.Infof("scan paused")
}

// Resume reopens the admission gate.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePaused {
		return
	}
	c.state = StateRunning
	c.gate.Open()
	c.log.Infof("scan resumed")
}

// Wait blocks until the active run (if any) finishes.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (c *Controller) start() {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		c.log.Debugf("start ignored in state %s", c.state)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = StateRunning
	c.gate.Open()
	done := c.done
	c.mu.Unlock()

	go c.run(ctx, done)
}

func (c *Controller) stop() {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	c.state = StateStopping
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// run executes one scan across the universe. Cancellation is not a
// failure: the run unwinds quietly and the controller returns to Idle.
func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.cancel = nil
		c.mu.Unlock()
		close(done)
	}()

	runID := uuid.New().String()
	started := time.Now()
	c.cfg.Metrics.IncScansStarted()

	symbols := c.cfg.Symbols
	if len(symbols) == 0 && c.cfg.Universe != nil {
		var err error
		symbols, err = c.cfg.Universe.GetAllTickers(ctx)
		if err != nil {
			c.log.Errorf("scan %s: list universe: %v", runID, err)
			return
		}
	}
	if len(symbols) == 0 {
		c.log.Warnf("scan %s: empty symbol universe", runID)
		return
	}
	c.log.Infof("scan %s started: %d symbols", runID, len(symbols))

	tracker := NewProgress(len(symbols), c.cfg.Progress)
	var taggedMu sync.Mutex
	tagged := 0

	err := pool.ForEachGated(ctx, c.gate, symbols, c.cfg.MaxConcurrent, func(ctx context.Context, symbol string) {
		res := c.cfg.Pipeline.Scan(ctx, &model.TickerInfo{Symbol: symbol})
		if res != nil && !res.Empty() && len(res.Tags) > 0 {
			for _, tag := range res.Tags {
				c.cfg.Alerts.Enqueue(res.Symbol, tag, triggerValue(res, tag))
				c.cfg.Metrics.IncAlertsEmitted()
			}
			if rerr := c.cfg.Recorder.RecordResult(runID, res); rerr != nil {
				c.log.Errorf("record result %s: %v", res.Symbol, rerr)
			}
			taggedMu.Lock()
			tagged++
			taggedMu.Unlock()
		}
		tracker.Increment()
	})
	cancelled := errors.Is(err, context.Canceled)

	c.cfg.Alerts.Flush(ctx)

	if rerr := c.cfg.Recorder.RecordRun(&recorder.RunSummary{
		RunID:     runID,
		Symbols:   len(symbols),
		Processed: tracker.Processed(),
		Tagged:    tagged,
		Cancelled: cancelled,
		Started:   started,
		Duration:  time.Since(started),
	}); rerr != nil {
		c.log.Errorf("record run %s: %v", runID, rerr)
	}

	if cancelled {
		c.cfg.Metrics.IncScansCancelled()
		c.log.Infof("scan %s cancelled after %d/%d symbols", runID, tracker.Processed(), len(symbols))
		return
	}
	c.cfg.Metrics.IncScansCompleted()
	c.log.Infof("scan %s completed: %d symbols, %d tagged, %v",
		runID, tracker.Processed(), tagged, time.Since(started).Round(time.Millisecond))
}

// triggerValue picks the numeric value reported alongside a tag.
func triggerValue(res *model.EquityScanResult, tag string) float64 {
	switch tag {
	case model.TagOverbought, model.TagOversold:
		return res.RSI
	}
	if res.CreeperScore > 0 {
		return res.CreeperScore
	}
	if math.IsNaN(res.Price) {
		return 0
	}
	return res.Price
}
