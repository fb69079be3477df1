// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package recent keeps a most-recently-used list of rendered documents.
package recent

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultMax is used when no positive maximum is configured.
const DefaultMax = 8

// List is an ordered list of document names, most recent first.
type List struct {
	max  int
	docs []string
}

type file struct {
	Documents []string `yaml:"documents"`
}

// New returns an empty list holding at most max names.
func New(max int) *List {
	if max <= 0 {
		max = DefaultMax
	}
	return &List{max: max}
}

// Accessing moves name to the front, dropping the oldest names beyond the
// maximum.
func (l *List) Accessing(name string) {
	if i := slices.Index(l.docs, name); i >= 0 {
		l.docs = slices.Delete(l.docs, i, i+1)
	}
	l.docs = slices.Insert(l.docs, 0, name)
	if len(l.docs) > l.max {
		l.docs = l.docs[:l.max]
	}
}

// Documents returns the names, most recent first.
func (l *List) Documents() []string {
	return slices.Clone(l.docs)
}

// Clear empties the list.
func (l *List) Clear() {
	l.docs = nil
}

// Load replaces the list with the contents of path. A missing file yields an
// empty list.
func (l *List) Load(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.docs = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read recent documents: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("failed to parse recent documents: %w", err)
	}
	l.docs = nil
	// Oldest first so Accessing rebuilds the order and drops duplicates.
	for i := len(f.Documents) - 1; i >= 0; i-- {
		if f.Documents[i] != "" {
			l.Accessing(f.Documents[i])
		}
	}
	return nil
}

// Save writes the list to path, creating parent directories.
func (l *List) Save(path string) error {
	b, err := yaml.Marshal(file{Documents: l.docs})
	if err != nil {
		return fmt.Errorf("failed to encode recent documents: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, b, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write recent documents: %w", err)
	}
	return nil
}
