package recorder

import "TickerScout/internal/model"

// NoopRecorder is used when SQLite persistence is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunSummary) error                         { return nil }
func (n *NoopRecorder) RecordResult(_ string, _ *model.EquityScanResult) error { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }
