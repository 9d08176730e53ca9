// Package store is the relational backend the support tools operate
// on: customers and their tickets, in SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Store wraps the support database.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Config holds store configuration.
type Config struct {
	Path   string
	Logger zerolog.Logger
}

// Open opens (creating if necessary) the support database.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode allows concurrent readers alongside a writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{
		db:     db,
		logger: cfg.Logger,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Info().Str("path", cfg.Path).Msg("Support store opened")

	return s, nil
}

// initSchema creates the customers and tickets tables if absent.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		issue TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		priority TEXT NOT NULL DEFAULT 'medium',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_id) REFERENCES customers(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_customer ON tickets(customer_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	return nil
}

// Seed inserts sample customers when the table is empty, so a fresh
// install has something to query.
func (s *Store) Seed() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}
	if count > 0 {
		return nil
	}

	samples := []struct {
		name, email, phone, status string
	}{
		{"Alice Williams", "alice@example.com", "555-0101", "active"},
		{"Bob Johnson", "bob@example.com", "555-0102", "active"},
		{"Charlie Brown", "charlie@example.com", "555-0103", "disabled"},
	}

	for _, c := range samples {
		if _, err := s.db.Exec(
			"INSERT INTO customers (name, email, phone, status) VALUES (?, ?, ?, ?)",
			c.name, c.email, c.phone, c.status,
		); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", c.name, err)
		}
	}

	s.logger.Info().Int("customers", len(samples)).Msg("Seeded sample data")

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
