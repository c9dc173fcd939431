// Package secret stores the YesCode API key outside the main config file.
package secret

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvAPIKey is checked before any stored credential.
const EnvAPIKey = "YESCODE_API_KEY"

// ErrNotFound indicates no credential has been stored.
var ErrNotFound = errors.New("secret: no API key stored")

// Store persists a single API key. Implementations must survive process
// restarts and never log the key.
type Store interface {
	Retrieve() (string, error)
	Save(key string) error
	Delete() error
}

// FileStore keeps the key in a 0600 file under the config directory.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by a credentials file in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "credentials")}
}

// Retrieve returns the stored key, or ErrNotFound.
func (s *FileStore) Retrieve() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading credentials: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNotFound
	}
	return key, nil
}

// Save writes the key, creating the directory if needed.
func (s *FileStore) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("secret: refusing to store empty API key")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Delete removes the stored key. Deleting a missing key is not an error.
func (s *FileStore) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}

// Resolve returns the effective API key: the environment variable first, then
// the store, then the legacy config-file key. Returns ErrNotFound when none
// is set.
func Resolve(store Store, configKey string) (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	key, err := store.Retrieve()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	if configKey = strings.TrimSpace(configKey); configKey != "" {
		return configKey, nil
	}
	return "", ErrNotFound
}
