// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Entry describes one cached artifact. Implementations must be comparable
// (pointer types in practice) because the cache detects re-insertion of the
// same entry by identity.
type Entry interface {
	// Path is the location of the backing file. It may be empty for entries
	// that have nothing on disk.
	Path() string
	// Key uniquely identifies the entry within a cache.
	Key() string
	// Cost is the entry's contribution to the cache budget, typically bytes.
	Cost() int64
	// LastAccess orders entries for eviction.
	LastAccess() time.Time
	// RemoveFromDisk deletes the backing storage. It must succeed at most
	// once; later calls return an error wrapping ErrAlreadyRemoved.
	RemoveFromDisk() error
}

// Factory builds entries for a cache that discovers or writes files itself,
// such as SetPath and AddData.
type Factory interface {
	NewEntry(path, key string, cost int64, lastAccess time.Time) Entry
}

// FactoryFunc adapts an ordinary function to the Factory interface.
type FactoryFunc func(path, key string, cost int64, lastAccess time.Time) Entry

// NewEntry calls f.
func (f FactoryFunc) NewEntry(path, key string, cost int64, lastAccess time.Time) Entry {
	return f(path, key, cost, lastAccess)
}

// FileEntries is the production Factory. It produces *FileEntry values.
var FileEntries = FactoryFunc(func(path, key string, cost int64, lastAccess time.Time) Entry {
	return NewFileEntry(path, key, cost, lastAccess)
})

type entryState int

const (
	stateActive entryState = iota
	stateRemoved
)

// meta holds the read-only attributes shared by the concrete entry types.
type meta struct {
	path       string
	key        string
	cost       int64
	lastAccess time.Time
	state      entryState
}

func (m *meta) Path() string          { return m.path }
func (m *meta) Key() string           { return m.key }
func (m *meta) Cost() int64           { return m.cost }
func (m *meta) LastAccess() time.Time { return m.lastAccess }

// markRemoved moves the entry to the removed state, failing if it is there
// already.
func (m *meta) markRemoved() error {
	if m.state == stateRemoved {
		return fmt.Errorf("%w: %s", ErrAlreadyRemoved, m.key)
	}
	m.state = stateRemoved
	return nil
}

// FileEntry is an Entry backed by a regular file.
type FileEntry struct {
	meta
}

// NewFileEntry returns an active entry. It performs no I/O and no validation.
func NewFileEntry(path, key string, cost int64, lastAccess time.Time) *FileEntry {
	return &FileEntry{meta{path: path, key: key, cost: cost, lastAccess: lastAccess}}
}

// RemoveFromDisk deletes the backing file. A file that is already gone is not
// an error; a second call on the same entry is.
func (e *FileEntry) RemoveFromDisk() error {
	if err := e.markRemoved(); err != nil {
		return err
	}
	if e.path == "" {
		return nil
	}
	if err := os.Remove(e.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file %s: %w", e.path, err)
	}
	return nil
}

// MemoryEntry is an Entry with no disk backing. Removing it only records the
// state transition.
type MemoryEntry struct {
	meta
}

// NewMemoryEntry returns an active entry without a path.
func NewMemoryEntry(key string, cost int64, lastAccess time.Time) *MemoryEntry {
	return &MemoryEntry{meta{key: key, cost: cost, lastAccess: lastAccess}}
}

func (e *MemoryEntry) RemoveFromDisk() error {
	return e.markRemoved()
}
