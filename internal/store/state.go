// Package store persists per-installation preferences in a SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

const prefDisplayMode = "display_mode"

// State provides SQLite-backed preference storage keyed by installation.
type State struct {
	db        *sql.DB
	installID string
}

// DefaultPath returns the state database path under the XDG state directory.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "yescode-statusbar", "state.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "yescode-statusbar", "state.db")
}

// Open opens or creates the state database at the given path, assigning an
// installation id on first run.
func Open(dbPath string) (*State, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &State{db: db}
	if err := s.ensureInstallID(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the state database.
func (s *State) Close() error {
	return s.db.Close()
}

// InstallID returns the stable identifier assigned to this installation.
func (s *State) InstallID() string {
	return s.installID
}

func (s *State) ensureInstallID() error {
	row := s.db.QueryRow("SELECT install_id FROM installation WHERE id = 1")
	err := row.Scan(&s.installID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading install id: %w", err)
	}

	s.installID = uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(
		"INSERT INTO installation (id, install_id, created_at) VALUES (1, ?, ?)",
		s.installID, now,
	); err != nil {
		return fmt.Errorf("writing install id: %w", err)
	}
	return nil
}

// DisplayMode returns the persisted display mode, or "" if never set.
func (s *State) DisplayMode() (string, error) {
	return s.preference(prefDisplayMode)
}

// SetDisplayMode persists the display mode preference.
func (s *State) SetDisplayMode(mode string) error {
	return s.setPreference(prefDisplayMode, mode)
}

func (s *State) preference(name string) (string, error) {
	row := s.db.QueryRow(
		"SELECT value FROM preferences WHERE install_id = ? AND name = ?",
		s.installID, name,
	)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("reading preference %s: %w", name, err)
	}
	return value, nil
}

func (s *State) setPreference(name, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT INTO preferences (install_id, name, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (install_id, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.installID, name, value, now,
	)
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", name, err)
	}
	return nil
}
