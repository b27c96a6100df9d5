// Package counter persists the session counters that keep batch names and
// session folders collision-free across application runs.
package counter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a key→integer counter map with atomic increments. Next must never
// hand the same value to two callers of the same key, within a process or
// across restarts.
type Store interface {
	Next(key string) (int, error)
	Peek(key string) (int, error)
	All() (map[string]int, error)
	Reset(key string) error
	ResetAll() error
}

// diskStore keeps counters in a JSON file, flushed via temp file + os.Rename
// so a crash mid-write never corrupts the previous state.
type diskStore struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/hexbloop/counters.json or ~/.local/share/hexbloop/counters.json
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "counters.json")}, nil
}

// NewStoreAt returns a Store backed by an explicit file path, for callers
// that manage their own state location (and for tests).
func NewStoreAt(path string) Store {
	return &diskStore{path: path}
}

func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "hexbloop"), nil
}

// load reads the counter file. Missing or unparseable files yield empty
// counters rather than an error; a corrupt store must never block naming.
func (d *diskStore) load() map[string]int {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return map[string]int{}
	}
	var counters map[string]int
	if err := json.Unmarshal(data, &counters); err != nil || counters == nil {
		return map[string]int{}
	}
	return counters
}

// flush writes counters atomically.
func (d *diskStore) flush(counters map[string]int) error {
	data, err := json.Marshal(counters)
	if err != nil {
		return fmt.Errorf("failed to persist counters: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "counters-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist counters: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist counters: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist counters: %w", err)
	}
	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist counters: %w", err)
	}
	return nil
}

// Next increments the counter for key and returns the new value. The whole
// read-increment-flush runs under the store lock so concurrent claims in one
// batch can never collide.
func (d *diskStore) Next(key string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	counters := d.load()
	counters[key]++
	if err := d.flush(counters); err != nil {
		return 0, err
	}
	return counters[key], nil
}

// Peek returns the current value for key without incrementing.
func (d *diskStore) Peek(key string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()[key], nil
}

// All returns a copy of every counter.
func (d *diskStore) All() (map[string]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := map[string]int{}
	for k, v := range d.load() {
		out[k] = v
	}
	return out, nil
}

// Reset removes a single counter key.
func (d *diskStore) Reset(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	counters := d.load()
	delete(counters, key)
	return d.flush(counters)
}

// ResetAll removes the counter file entirely.
func (d *diskStore) ResetAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete counters: %w", err)
	}
	return nil
}
