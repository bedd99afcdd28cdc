// Package metrics holds the Prometheus instrumentation for scan runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all scanner metrics. A nil *Metrics is safe to use; every
// method becomes a no-op, so tests and minimal deployments skip metrics
// without branching at call sites.
type Metrics struct {
	ScansStarted   prometheus.Counter
	ScansCompleted prometheus.Counter
	ScansCancelled prometheus.Counter
	SymbolsScanned prometheus.Counter
	SymbolsSkipped prometheus.Counter
	AlertsEmitted  prometheus.Counter
	ScanDuration   prometheus.Histogram
}

// New registers all metrics with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScansStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickerscout_scans_started_total",
			Help: "Number of scan runs started.",
		}),
		ScansCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickerscout_scans_completed_total",
			Help: "Number of scan runs that ran to completion.",
		}),
		ScansCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickerscout_scans_cancelled_total",
			Help: "Number of scan runs cancelled before completion.",
		}),
		SymbolsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickerscout_symbols_scanned_total",
			Help: "Number of symbols processed across all runs.",
		}),
		SymbolsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickerscout_symbols_skipped_total",
			Help: "Number of symbols skipped for insufficient data or errors.",
		}),
		AlertsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tickerscout_alerts_emitted_total",
			Help: "Number of alerts enqueued from classification tags.",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tickerscout_symbol_scan_duration_seconds",
			Help:    "Wall time of one per-symbol pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.ScansStarted, m.ScansCompleted, m.ScansCancelled,
		m.SymbolsScanned, m.SymbolsSkipped, m.AlertsEmitted, m.ScanDuration,
	)
	return m
}

func (m *Metrics) IncScansStarted() {
	if m != nil {
		m.ScansStarted.Inc()
	}
}

func (m *Metrics) IncScansCompleted() {
	if m != nil {
		m.ScansCompleted.Inc()
	}
}

func (m *Metrics) IncScansCancelled() {
	if m != nil {
		m.ScansCancelled.Inc()
	}
}

func (m *Metrics) IncSymbolsScanned() {
	if m != nil {
		m.SymbolsScanned.Inc()
	}
}

func (m *Metrics) IncSymbolsSkipped() {
	if m != nil {
		m.SymbolsSkipped.Inc()
	}
}

func (m *Metrics) IncAlertsEmitted() {
	if m != nil {
		m.AlertsEmitted.Inc()
	}
}

func (m *Metrics) ObserveScanDuration(seconds float64) {
	if m != nil {
		m.ScanDuration.Observe(seconds)
	}
}
