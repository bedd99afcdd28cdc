package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TickerScout/internal/logger"
	"TickerScout/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log logger.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, log logger.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			run_id    TEXT PRIMARY KEY,
			started   INTEGER NOT NULL,
			duration_ms INTEGER,
			symbols   INTEGER,
			processed INTEGER,
			tagged    INTEGER,
			cancelled INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS scan_results (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			price         REAL,
			rsi           REAL,
			sma           REAL,
			upper_band    REAL,
			lower_band    REAL,
			volume        REAL,
			tags          TEXT,
			creeper_score REAL,
			creeper_type  TEXT,
			sector        TEXT,
			country       TEXT,
			exchange      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON scan_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_symbol ON scan_results(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancelled := 0
	if run.Cancelled {
		cancelled = 1
	}
	_, err := r.db.Exec(`INSERT INTO scan_runs
		(run_id, started, duration_ms, symbols, processed, tagged, cancelled)
		VALUES (?,?,?,?,?,?,?)`,
		run.RunID, run.Started.Unix(), run.Duration.Milliseconds(),
		run.Symbols, run.Processed, run.Tagged, cancelled,
	)
	return err
}

func (r *SQLiteRecorder) RecordResult(runID string, res *model.EquityScanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sector, country, exchange string
	if res.Info != nil {
		sector, country, exchange = res.Info.Sector, res.Info.Country, res.Info.Exchange
	}
	_, err := r.db.Exec(`INSERT INTO scan_results
		(run_id, timestamp, symbol, price, rsi, sma, upper_band, lower_band,
		 volume, tags, creeper_score, creeper_type, sector, country, exchange)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, time.Now().Unix(), res.Symbol, res.Price, res.RSI, res.SMA,
		res.UpperBand, res.LowerBand, res.Volume,
		strings.Join(res.Tags, ","), res.CreeperScore, string(res.CreeperType),
		sector, country, exchange,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Infof("closing sqlite recorder")
	return r.db.Close()
}
