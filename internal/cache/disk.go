// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
)

// Path returns the directory mirrored by the cache, or "" when the cache is
// memory-only.
func (c *Cache) Path() string { return c.path }

// IsDiskBacked reports whether the cache mirrors a directory.
func (c *Cache) IsDiskBacked() bool { return c.path != "" }

// SetPath points the cache at dir and rebuilds the index from the regular
// files found there: the base name becomes the key, the size the cost and the
// modification time the last access. Files in the previous directory are left
// alone. Setting the current path again is a no-op.
//
// If dir cannot be created or read, SetPath returns an error wrapping
// ErrDirectoryUnavailable and the cache keeps its previous path and entries.
func (c *Cache) SetPath(dir string, f Factory) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirectoryUnavailable, dir, err)
	}
	if abs == c.path {
		return nil
	}

	if err := os.MkdirAll(abs, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("%w: %s: %v", ErrDirectoryUnavailable, abs, err)
	}
	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirectoryUnavailable, abs, err)
	}

	c.Clear()
	c.path = abs
	log.Debugf("cache: loading %d candidate files from %s", len(dirEntries), abs)

	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between the listing and the stat.
			log.WithError(err).Debugf("cache: skipping %s", de.Name())
			continue
		}
		e := f.NewEntry(filepath.Join(abs, de.Name()), de.Name(), info.Size(), info.ModTime())
		if err := c.Add(e); err != nil {
			return err
		}
	}

	log.Debugf("cache: loaded %d entries (%d bytes) from %s", c.Size(), c.totalCost, abs)
	return nil
}

// AddData writes data to <path>/<key> and adds an entry for it built by f.
// On a memory-only cache it does nothing; check IsDiskBacked first.
func (c *Cache) AddData(data []byte, key string, f Factory) error {
	if !c.IsDiskBacked() {
		log.Debugf("cache: not disk backed, dropping %s", key)
		return nil
	}

	// The directory is flat; keys name files directly beneath it.
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("invalid cache key %q", key)
	}

	p := filepath.Join(c.path, key)
	if err := os.WriteFile(p, data, os.FileMode(0o644)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("failed to stat cache file: %w", err)
	}

	return c.Add(f.NewEntry(p, key, int64(len(data)), info.ModTime()))
}
