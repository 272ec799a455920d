package store

import (
	"database/sql"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Keys for the two pieces of durable client state.
const (
	keyToken = "token"
	keyTheme = "theme"
)

// Settings is the durable client-side store. It holds exactly two things:
// the session's bearer credential and the UI theme preference.
type Settings struct {
	db *sql.DB
}

// Open opens (or creates) the settings database inside dataDir.
func Open(dataDir string) (*Settings, error) {
	db, err := sql.Open("sqlite3", filepath.Join(dataDir, "taskflow.db"))
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Settings{db: db}, nil
}

// Close closes the underlying database.
func (s *Settings) Close() error {
	return s.db.Close()
}

func (s *Settings) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Settings) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (s *Settings) del(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// Token returns the persisted bearer credential, or "" when none is stored.
func (s *Settings) Token() (string, error) {
	return s.get(keyToken)
}

// SetToken persists the bearer credential across restarts.
func (s *Settings) SetToken(token string) error {
	return s.set(keyToken, token)
}

// ClearToken removes the persisted credential. Safe to call when none is
// stored.
func (s *Settings) ClearToken() error {
	return s.del(keyToken)
}

// Theme returns the persisted theme name, or "" for the default.
func (s *Settings) Theme() (string, error) {
	return s.get(keyTheme)
}

// SetTheme persists the theme preference.
func (s *Settings) SetTheme(name string) error {
	return s.set(keyTheme, name)
}
