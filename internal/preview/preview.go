// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package preview renders documents through the render cache: a document is
// fingerprinted, looked up, and only rendered on a miss.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/staranto/pumlcache/internal/cache"
	"github.com/staranto/pumlcache/internal/fingerprint"
	"github.com/staranto/pumlcache/internal/render"
)

// ErrEmptyDocument is returned for documents with no content.
var ErrEmptyDocument = errors.New("empty document")

// Result is the outcome of a Preview call.
type Result struct {
	Key  string
	Data []byte
	// Hit is true when the image came from the cache.
	Hit bool
}

// Previewer owns a cache and serializes all access to it.
type Previewer struct {
	mu       sync.Mutex
	cache    *cache.Cache
	renderer render.Renderer
	// memory holds image bytes for caches that are not disk backed.
	memory map[string][]byte
	now    func() time.Time
}

// New returns a Previewer. The caller hands c over and must not use it
// directly afterwards.
func New(c *cache.Cache, r render.Renderer) *Previewer {
	return &Previewer{
		cache:    c,
		renderer: r,
		memory:   make(map[string][]byte),
		now:      time.Now,
	}
}

// Preview returns the image for document in format f.
func (p *Previewer) Preview(ctx context.Context, document []byte, f render.Format) (Result, error) {
	if len(bytes.TrimSpace(document)) == 0 {
		return Result{}, ErrEmptyDocument
	}
	key := fingerprint.Key(document, string(f))

	p.mu.Lock()
	defer p.mu.Unlock()

	if data, ok := p.lookup(key); ok {
		log.Debugf("preview: cache hit %s", key)
		return Result{Key: key, Data: data, Hit: true}, nil
	}

	log.Debugf("preview: cache miss %s", key)
	data, err := p.renderer.Render(ctx, document, f)
	if err != nil {
		return Result{}, err
	}
	if err := p.store(key, data); err != nil {
		return Result{}, err
	}
	return Result{Key: key, Data: data}, nil
}

// lookup returns the cached bytes for key and refreshes its recency.
func (p *Previewer) lookup(key string) ([]byte, bool) {
	e, ok := p.cache.Item(key)
	if !ok {
		return nil, false
	}

	now := p.now()
	if !p.cache.IsDiskBacked() {
		data, ok := p.memory[key]
		if !ok {
			return nil, false
		}
		p.touch(cache.NewMemoryEntry(key, e.Cost(), now))
		return data, true
	}

	data, err := os.ReadFile(e.Path())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warnf("preview: unreadable cache file %s", e.Path())
		}
		// Rerender; the new file replaces the stale entry.
		return nil, false
	}
	if err := os.Chtimes(e.Path(), now, now); err != nil {
		log.WithError(err).Debugf("preview: failed to touch %s", e.Path())
	}
	p.touch(cache.NewFileEntry(e.Path(), key, int64(len(data)), now))
	return data, true
}

// touch replaces the entry under its key with a fresher one. The backing file
// is shared, so nothing is deleted.
func (p *Previewer) touch(e cache.Entry) {
	if err := p.cache.Add(e); err != nil {
		log.WithError(err).Warnf("preview: failed to refresh %s", e.Key())
	}
	p.forget()
}

func (p *Previewer) store(key string, data []byte) error {
	if p.cache.IsDiskBacked() {
		if err := p.cache.AddData(data, key, cache.FileEntries); err != nil {
			return fmt.Errorf("failed to cache %s: %w", key, err)
		}
		return nil
	}

	p.memory[key] = data
	err := p.cache.Add(cache.NewMemoryEntry(key, int64(len(data)), p.now()))
	p.forget()
	if err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

// forget drops retained bytes for keys the cache no longer holds.
func (p *Previewer) forget() {
	for k := range p.memory {
		if !p.cache.HasItem(k) {
			delete(p.memory, k)
		}
	}
}
