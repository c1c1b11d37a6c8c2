// Package state persists the last-observed version for each tracked app.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/storewatch/storewatch/internal/common/logger"
)

// ErrStateCorrupted is returned when the state file cannot be parsed
var ErrStateCorrupted = errors.New("state file is corrupted")

// stateFileName is the file holding the version map inside the state directory
const stateFileName = "versions.json"

// Record is the persisted last-seen entry for a single app.
type Record struct {
	// Version is the last version observed for the app
	Version string `json:"version"`
	// CheckedAt is when the version was last observed
	CheckedAt time.Time `json:"checked_at"`
}

// stateFile represents the JSON structure stored on disk
type stateFile struct {
	Apps map[string]Record `json:"apps"`
}

// Store holds the app ID → last-seen version mapping and mirrors every
// mutation to disk (write-through). A missing or unreadable backing file
// yields an empty mapping, never an error: the monitor must always start.
type Store struct {
	apps map[string]Record
	// path is the file path where state is persisted
	path string
	// mu protects concurrent access to apps
	mu sync.RWMutex
	// nowFunc allows injecting time for testing
	nowFunc func() time.Time
}

// Option is a functional option for configuring Store
type Option func(*Store)

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = fn
	}
}

// NewStore creates or loads the version state from stateDir.
// If the state file exists, existing entries are loaded. A missing file
// starts an empty store; a corrupted file starts an empty store with a
// logged warning and is overwritten on the next save.
func NewStore(stateDir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	store := &Store{
		apps:    make(map[string]Record),
		path:    filepath.Join(stateDir, stateFileName),
		nowFunc: time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("State file %s is unreadable, starting fresh: %v", store.path, err)
			store.apps = make(map[string]Record)
		}
	}

	return store, nil
}

// load reads the state from disk
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}

	if sf.Apps != nil {
		s.apps = sf.Apps
	}

	return nil
}

// Get retrieves the last-seen record for an app.
// The second return value is false when the app was never observed.
func (s *Store) Get(appID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.apps[appID]
	return rec, exists
}

// Set records a newly observed version for an app, stamped with the current
// time, and saves the store to disk immediately.
func (s *Store) Set(appID, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apps[appID] = Record{
		Version:   version,
		CheckedAt: s.nowFunc(),
	}

	return s.saveUnsafe()
}

// Save persists the state to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveUnsafe()
}

// saveUnsafe persists the state to disk without locking.
// Caller must hold the write lock.
func (s *Store) saveUnsafe() error {
	sf := stateFile{
		Apps: s.apps,
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}

// Delete removes an app from the state and saves to disk.
func (s *Store) Delete(appID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.apps, appID)
	return s.saveUnsafe()
}

// Clear removes all entries from the state and saves to disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apps = make(map[string]Record)
	return s.saveUnsafe()
}

// Len returns the number of tracked entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apps)
}

// All returns a copy of the full version mapping.
func (s *Store) All() map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := make(map[string]Record, len(s.apps))
	for id, rec := range s.apps {
		apps[id] = rec
	}
	return apps
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}
