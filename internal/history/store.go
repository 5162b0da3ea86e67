// Package history persists finished workout records and derives simple
// progress metrics from them.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fakeyudi/repcount/internal/workout"
)

// Store persists workout records.
type Store interface {
	Append(r workout.Record) error
	Load() ([]workout.Record, error) // oldest first; empty when nothing is stored
}

// diskStore keeps every record in one JSON array on disk.
type diskStore struct {
	mu   sync.Mutex
	path string // full path to sessions.json
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/repcount/sessions.json or ~/.local/share/repcount/sessions.json
func NewStore() (Store, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	return NewStoreAt(dir)
}

// NewStoreAt returns a Store that writes sessions.json inside dir.
func NewStoreAt(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "sessions.json")}, nil
}

// DataDir returns the repcount-specific XDG data directory.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "repcount"), nil
}

// Append adds r to the stored history. A record whose ID is already stored
// replaces the earlier copy.
func (d *diskStore) Append(r workout.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	records, err := d.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range records {
		if records[i].ID == r.ID {
			records[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, r)
	}
	return d.save(records)
}

// Load reads every stored record, sorted by date.
func (d *diskStore) Load() ([]workout.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

func (d *diskStore) load() ([]workout.Record, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []workout.Record{}, nil
		}
		return nil, fmt.Errorf("failed to read workout history: %w", err)
	}

	var records []workout.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse workout history: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

// save writes records atomically via a temp file + os.Rename.
func (d *diskStore) save(records []workout.Record) (err error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist workout history: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "sessions-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist workout history: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist workout history: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist workout history: %w", err)
	}
	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist workout history: %w", err)
	}
	return nil
}
