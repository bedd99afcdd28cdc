package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"TickerScout/internal/logger"
)

type fakeRunner struct {
	starts   atomic.Int32
	restarts atomic.Int32
}

func (f *fakeRunner) Start()   { f.starts.Add(1) }
func (f *fakeRunner) Restart() { f.restarts.Add(1) }

func TestRegisterRejectsShortInterval(t *testing.T) {
	s := New(&fakeRunner{}, logger.NewNop())
	if err := s.Register(10 * time.Second); err == nil {
		t.Error("expected error for sub-minute interval")
	}
	if err := s.Register(time.Hour); err != nil {
		t.Errorf("1h interval rejected: %v", err)
	}
}

func TestRunNowStartsRunner(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, logger.NewNop())
	s.RunNow()
	if got := r.starts.Load(); got != 1 {
		t.Errorf("starts = %d, want 1", got)
	}
}

func TestTickRestartsRunner(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, logger.NewNop())
	s.tick()
	s.tick()
	if got := r.restarts.Load(); got != 2 {
		t.Errorf("restarts = %d, want 2", got)
	}
	if got := r.starts.Load(); got != 0 {
		t.Errorf("ticks should restart, not start; starts = %d", got)
	}
}
