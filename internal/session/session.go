// Package session holds per-device state the browser build kept in local
// storage: the bearer token and the onboarding dismissal flag. Persistence
// is an injected capability so commands and tests never touch a global.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Well-known keys
const (
	KeyToken               = "token"
	KeyUserID              = "user_id"
	KeyOnboardingDismissed = "onboarding_dismissed"
)

// ErrNotFound is returned when a key has no stored value
var ErrNotFound = errors.New("session key not found")

// Store persists small string values per key
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Clear(key string) error
}

// FileStore implements Store with one file per key under a directory
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key)
}

// Get returns the stored value for key, or ErrNotFound
func (f *FileStore) Get(key string) (string, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set writes the value for key, token files included, with owner-only perms
func (f *FileStore) Set(key, value string) error {
	if err := os.WriteFile(f.path(key), []byte(value+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

// Clear removes the stored value for key. Clearing an absent key is not an error.
func (f *FileStore) Clear(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session key %s: %w", key, err)
	}
	return nil
}

// MemStore implements Store in memory, for tests
type MemStore struct {
	values map[string]string
}

// NewMemStore returns an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

// Get returns the stored value for key, or ErrNotFound
func (m *MemStore) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores the value for key
func (m *MemStore) Set(key, value string) error {
	m.values[key] = value
	return nil
}

// Clear removes the value for key
func (m *MemStore) Clear(key string) error {
	delete(m.values, key)
	return nil
}
