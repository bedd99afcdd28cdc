package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestForEach_NeverExceedsLimit(t *testing.T) {
	const total = 1000
	const limit = 8

	items := make([]int, total)
	for i := range items {
		items[i] = i
	}

	var inFlight, maxSeen, completed atomic.Int64
	err := ForEach(context.Background(), items, limit, func(_ context.Context, _ int) {
		n := inFlight.Add(1)
		for {
			seen := maxSeen.Load()
			if n <= seen || maxSeen.CompareAndSwap(seen, n) {
				break
			}
		}
		time.Sleep(time.Microsecond)
		inFlight.Add(-1)
		completed.Add(1)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := maxSeen.Load(); got > limit {
		t.Errorf("observed %d concurrent operations, limit is %d", got, limit)
	}
	if got := completed.Load(); got != total {
		t.Errorf("completed %d of %d operations", got, total)
	}
}

func TestForEach_InvalidConcurrency(t *testing.T) {
	err := ForEach(context.Background(), []int{1}, 0, func(context.Context, int) {})
	if err == nil {
		t.Fatal("expected error for zero concurrency")
	}
}

func TestForEach_CancellationStopsAdmission(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	items := make([]int, 100)
	var started atomic.Int64
	err := ForEach(ctx, items, 2, func(_ context.Context, _ int) {
		if started.Add(1) == 4 {
			cancel()
		}
		time.Sleep(time.Millisecond)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := started.Load(); got >= 100 {
		t.Errorf("cancellation should stop admission, %d items started", got)
	}
}

func TestGate_PauseBlocksAdmission(t *testing.T) {
	gate := NewGate()
	gate.Close()

	var started atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		ForEachGated(context.Background(), gate, []int{1, 2, 3}, 2, func(_ context.Context, _ int) {
			started.Add(1)
		})
	}()

	time.Sleep(20 * time.Millisecond)
	if got := started.Load(); got != 0 {
		t.Fatalf("closed gate admitted %d items", got)
	}

	gate.Open()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not finish after gate reopened")
	}
	if got := started.Load(); got != 3 {
		t.Errorf("expected 3 items after resume, got %d", got)
	}
}

func TestGate_ReentrantOpenClose(t *testing.T) {
	gate := NewGate()
	gate.Open() // already open; must not panic
	gate.Close()
	gate.Close() // already closed; must not panic
	gate.Open()
	if err := gate.Wait(context.Background()); err != nil {
		t.Fatalf("open gate must not block: %v", err)
	}
}

func TestGate_WaitRespectsContext(t *testing.T) {
	gate := NewGate()
	gate.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := gate.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestForEach_WaitsForInFlightOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	finished := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	ForEach(ctx, make([]int, 50), 4, func(_ context.Context, _ int) {
		time.Sleep(2 * time.Millisecond)
		mu.Lock()
		finished++
		mu.Unlock()
	})

	// Whatever was admitted must have completed before ForEach returned.
	mu.Lock()
	defer mu.Unlock()
	if finished == 0 {
		t.Error("expected at least one completed op before cancellation took effect")
	}
}
