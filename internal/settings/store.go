// Package settings persists user automation choices between runs.
package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Well-known keys.
const (
	KeyQueueEnabled = "queue.enabled"
	KeyPickEnabled  = "pick.enabled"
	KeyPickChampion = "pick.champion"
	KeyPickBackup2  = "pick.backup2"
	KeyPickBackup3  = "pick.backup3"
	KeyBanEnabled   = "ban.enabled"
	KeyBanChampion  = "ban.champion"
)

// Store is a small key-value settings table backed by sqlite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the settings database in the user config directory.
func Open() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}

	dir := filepath.Join(configDir, "DraftPilot")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings directory: %w", err)
	}
	return OpenAt(filepath.Join(dir, "settings.db"))
}

// OpenAt opens a settings database at an explicit path.
func OpenAt(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create settings schema: %w", err)
	}
	return nil
}

// Get returns the stored value for key.
func (s *Store) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// GetString returns the stored value or def when absent.
func (s *Store) GetString(key, def string) string {
	if value, ok := s.Get(key); ok {
		return value
	}
	return def
}

// GetBool returns the stored boolean or def when absent or unparseable.
func (s *Store) GetBool(key string, def bool) bool {
	value, ok := s.Get(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

// Set stores a value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// SetBool stores a boolean under key.
func (s *Store) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
