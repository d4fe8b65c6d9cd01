package transcript

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// storageKey is the single kv key holding the JSON-encoded conversation.
const storageKey = "transcript"

// Store persists the conversation in a SQLite kv table. The whole
// sequence is rewritten on every append; there are no partial updates.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "voxchat", "voxchat.sqlite")
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadAll returns the stored conversation in insertion order. A missing
// or undecodable value yields an empty conversation.
func (s *Store) LoadAll() []Entry {
	var raw string
	if err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, storageKey).Scan(&raw); err != nil {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

// Append adds one entry and rewrites the full stored sequence under the
// fixed key, overwriting the previous value.
func (s *Store) Append(role Role, text string) error {
	entries := append(s.LoadAll(), Entry{Role: role, Text: text})

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	if _, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, storageKey, string(raw)); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
