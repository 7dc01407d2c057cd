package scores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store on a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer keeps SQLITE_BUSY away
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS best_scores (
		key TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		score INTEGER NOT NULL,
		updated_at DATETIME NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the best score for key, zero if none was saved
func (s *SQLiteStore) Load(key string) (int, error) {
	var score int
	err := s.db.QueryRow(`SELECT score FROM best_scores WHERE key = ?`, key).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load score %q: %w", key, err)
	}
	return score, nil
}

// Save records score for key if it beats the stored one
func (s *SQLiteStore) Save(key string, score int) error {
	_, err := s.db.Exec(`INSERT INTO best_scores (key, id, score, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			score = excluded.score,
			updated_at = excluded.updated_at
		WHERE excluded.score > best_scores.score`,
		key, uuid.NewString(), score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save score %q: %w", key, err)
	}
	return nil
}

// All returns every stored score
func (s *SQLiteStore) All() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT key, score FROM best_scores`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var score int
		if err := rows.Scan(&key, &score); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		out[key] = score
	}
	return out, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
