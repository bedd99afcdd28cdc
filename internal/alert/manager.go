// Package alert bridges classification tags to a pluggable alert sink via
// a thread-safe, deduplicating queue.
package alert

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"TickerScout/internal/logger"
)

// Sink receives formatted alert messages. Delivery is fire-and-forget; the
// manager never blocks on it.
type Sink interface {
	AddAlert(message string)
}

type pending struct {
	Symbol  string
	Trigger string
	Value   float64
	At      time.Time
}

// Manager collects alerts from many concurrent producers and resolves them
// into the overbought/oversold watch sets on Flush.
type Manager struct {
	mu    sync.Mutex
	queue []pending

	Overbought *WatchSet
	Oversold   *WatchSet

	sink     Sink
	dispatch func(func())
	log      logger.Logger
}

// NewManager creates a manager over the given sink. sink may be nil.
func NewManager(sink Sink, log logger.Logger) *Manager {
	return &Manager{
		Overbought: NewWatchSet(),
		Oversold:   NewWatchSet(),
		sink:       sink,
		dispatch:   func(fn func()) { fn() },
		log:        log,
	}
}

// SetDispatcher routes watch-set updates through fn, the designated
// execution context (a UI thread marshaller, typically). Updates for one
// Flush arrive as a single dispatched unit, so observers never see a
// partial update. The default dispatcher runs inline.
func (m *Manager) SetDispatcher(fn func(func())) {
	if fn == nil {
		fn = func(f func()) { f() }
	}
	m.mu.Lock()
	m.dispatch = fn
	m.mu.Unlock()
}

// Enqueue records an alert and immediately forwards a formatted message to
// the sink without waiting for delivery.
func (m *Manager) Enqueue(symbol, triggerName string, value float64) {
	p := pending{Symbol: symbol, Trigger: triggerName, Value: value, At: time.Now()}
	m.mu.Lock()
	m.queue = append(m.queue, p)
	sink := m.sink
	m.mu.Unlock()

	if sink != nil {
		go sink.AddAlert(Format(p.Symbol, p.Trigger, p.Value, p.At))
	}
}

// Flush drains the queue and updates the overbought/oversold sets. A
// trigger name containing "overbought" or "oversold" (case-insensitive)
// routes the symbol to the matching set; symbols already present are not
// re-added.
func (m *Manager) Flush(ctx context.Context) {
	m.mu.Lock()
	drained := m.queue
	m.queue = nil
	dispatch := m.dispatch
	m.mu.Unlock()

	if len(drained) == 0 {
		return
	}

	dispatch(func() {
		for _, p := range drained {
			if ctx.Err() != nil {
				return
			}
			trigger := strings.ToLower(p.Trigger)
			switch {
			case strings.Contains(trigger, "overbought"):
				if m.Overbought.Add(p.Symbol) {
					m.log.Debugf("%s entered overbought set", p.Symbol)
				}
			case strings.Contains(trigger, "oversold"):
				if m.Oversold.Add(p.Symbol) {
					m.log.Debugf("%s entered oversold set", p.Symbol)
				}
			}
		}
	})
}

// Reset drains the queue and clears both sets.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.queue = nil
	dispatch := m.dispatch
	m.mu.Unlock()

	dispatch(func() {
		m.Overbought.Clear()
		m.Oversold.Clear()
	})
}

// Pending reports the number of undrained alerts.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Format renders the sink message for one alert.
func Format(symbol, trigger string, value float64, at time.Time) string {
	return fmt.Sprintf("[%s] %s %s (%.2f)", at.Format("15:04:05"), symbol, trigger, value)
}
