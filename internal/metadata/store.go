package metadata

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TickerScout/internal/model"
)

// Store persists the metadata cache to a SQLite database so warm-up work
// survives restarts.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenStore opens (or creates) the SQLite database and runs migrations.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ticker_metadata (
		symbol     TEXT PRIMARY KEY,
		country    TEXT,
		sector     TEXT,
		exchange   TEXT,
		price      REAL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

// LoadAll reads every persisted record into a map keyed by symbol.
func (s *Store) LoadAll() (map[string]model.TickerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT symbol, country, sector, exchange, price FROM ticker_metadata`)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.TickerInfo)
	for rows.Next() {
		var info model.TickerInfo
		if err := rows.Scan(&info.Symbol, &info.Country, &info.Sector, &info.Exchange, &info.Price); err != nil {
			return nil, fmt.Errorf("scan metadata row: %w", err)
		}
		out[info.Symbol] = info
	}
	return out, rows.Err()
}

// SaveAll upserts every record in one transaction.
func (s *Store) SaveAll(records map[string]model.TickerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO ticker_metadata (symbol, country, sector, exchange, price, updated_at)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			country=excluded.country, sector=excluded.sector,
			exchange=excluded.exchange, price=excluded.price,
			updated_at=excluded.updated_at`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, info := range records {
		if _, err := stmt.Exec(info.Symbol, info.Country, info.Sector, info.Exchange, info.Price, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert %s: %w", info.Symbol, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
