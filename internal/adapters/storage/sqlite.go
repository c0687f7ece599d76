// Package storage provides SQLite implementations of the storage ports.
//
// The wizard keeps nothing between runs, so the usual database is ":memory:".
package storage

import (
	"database/sql"
	"fmt"

	"github.com/xvierd/prep-cli/internal/ports"
	_ "modernc.org/sqlite"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db              *sql.DB
	goalRepo        ports.GoalRepository
	affirmationRepo ports.AffirmationRepository
	environmentRepo ports.EnvironmentRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dsn string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	storage := &sqliteStorage{
		db:              db,
		goalRepo:        &goalRepository{db: db},
		affirmationRepo: &affirmationRepository{db: db},
		environmentRepo: &environmentRepository{db: db},
	}

	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// Goals returns the goal repository.
func (s *sqliteStorage) Goals() ports.GoalRepository {
	return s.goalRepo
}

// Affirmations returns the affirmation repository.
func (s *sqliteStorage) Affirmations() ports.AffirmationRepository {
	return s.affirmationRepo
}

// Environment returns the environment checklist repository.
func (s *sqliteStorage) Environment() ports.EnvironmentRepository {
	return s.environmentRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS goals (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS affirmations (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS environment_items (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL,
		checked INTEGER NOT NULL DEFAULT 0,
		source TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_environment_text ON environment_items(text);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}
