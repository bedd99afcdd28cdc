// Package pool provides the scanner's single admission-control mechanism:
// a bounded-parallelism ForEach with an optional pause gate.
package pool

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Gate blocks admission of new work while closed. In-flight work is never
// interrupted. A new Gate starts open.
type Gate struct {
	mu   sync.Mutex
	open chan struct{} // closed channel == gate open
}

// NewGate returns an open gate.
func NewGate() *Gate {
	g := &Gate{open: make(chan struct{})}
	close(g.open)
	return g
}

// Close shuts the gate; subsequent Wait calls block until Open.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		g.open = make(chan struct{})
	default:
		// already closed
	}
}

// Open reopens the gate, releasing all waiters.
func (g *Gate) Open() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		// already open
	default:
		close(g.open)
	}
}

// Wait blocks until the gate is open or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	ch := g.open
	g.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ForEach runs op for every item with at most maxConcurrency invocations in
// flight. It waits for all admitted items to finish before returning, and
// returns ctx.Err() if admission stopped early due to cancellation.
func ForEach[T any](ctx context.Context, items []T, maxConcurrency int, op func(context.Context, T)) error {
	return ForEachGated(ctx, nil, items, maxConcurrency, op)
}

// ForEachGated is ForEach with a pause gate: each item waits for gate to be
// open before acquiring a permit. gate may be nil (always open).
func ForEachGated[T any](ctx context.Context, gate *Gate, items []T, maxConcurrency int, op func(context.Context, T)) error {
	if maxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive, got %d", maxConcurrency)
	}

	sem := semaphore.NewWeighted(int64(maxConcurrency))
	var wg sync.WaitGroup
	for _, item := range items {
		if gate != nil {
			if err := gate.Wait(ctx); err != nil {
				break
			}
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(it T) {
			defer wg.Done()
			defer sem.Release(1)
			op(ctx, it)
		}(item)
	}
	wg.Wait()
	return ctx.Err()
}
