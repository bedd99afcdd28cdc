// Package recorder persists scan history for later analysis. Persistence
// is best-effort; a failing recorder never fails a scan.
package recorder

import (
	"time"

	"TickerScout/internal/model"
)

// RunSummary describes one completed (or cancelled) scan run.
type RunSummary struct {
	RunID     string
	Symbols   int
	Processed int
	Tagged    int
	Cancelled bool
	Started   time.Time
	Duration  time.Duration
}

// Recorder persists scan runs and their tagged results.
type Recorder interface {
	RecordRun(run *RunSummary) error
	RecordResult(runID string, res *model.EquityScanResult) error
	Close() error
}
