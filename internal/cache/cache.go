// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/apex/log"
)

// Cache holds entries under a cost budget. Total cost, the entry map and the
// recency index are always updated together.
type Cache struct {
	path      string
	maxCost   int64
	totalCost int64
	entries   map[string]Entry
	// byAccess holds every key once, sorted ascending by LastAccess. Equal
	// timestamps keep insertion order.
	byAccess []string
}

// New returns an empty, memory-only cache with the given budget.
func New(maxCost int64) *Cache {
	return &Cache{
		maxCost: maxCost,
		entries: make(map[string]Entry),
	}
}

// MaxCost returns the budget ceiling.
func (c *Cache) MaxCost() int64 { return c.maxCost }

// SetMaxCost changes the budget. It does not evict; the new budget is
// enforced by the next Add.
func (c *Cache) SetMaxCost(n int64) { c.maxCost = n }

// TotalCost returns the sum of the cost of all held entries.
func (c *Cache) TotalCost() int64 { return c.totalCost }

// Size returns the number of held entries.
func (c *Cache) Size() int { return len(c.entries) }

// HasItem reports whether an entry is stored under key.
func (c *Cache) HasItem(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Item returns the entry stored under key.
func (c *Cache) Item(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Keys returns the held keys, oldest access first.
func (c *Cache) Keys() []string {
	return slices.Clone(c.byAccess)
}

// Entries returns the held entries, oldest access first.
func (c *Cache) Entries() []Entry {
	out := make([]Entry, 0, len(c.byAccess))
	for _, k := range c.byAccess {
		out = append(out, c.entries[k])
	}
	return out
}

// Add stores e, replacing any different entry under the same key, and then
// evicts the oldest entries while the budget is exceeded. Adding the entry
// that is already stored under its key fails with ErrDuplicateInsert.
//
// A replaced entry is dropped without touching its file; the caller's new
// entry takes over the same backing file.
func (c *Cache) Add(e Entry) error {
	key := e.Key()
	if old, ok := c.entries[key]; ok {
		if old == e {
			return fmt.Errorf("%w: %s", ErrDuplicateInsert, key)
		}
		c.unlink(key)
		log.Debugf("cache: replacing %s (cost %d -> %d)", key, old.Cost(), e.Cost())
	}

	c.link(e)
	return c.evict()
}

// link inserts e into the map, the recency index and the total cost.
func (c *Cache) link(e Entry) {
	key := e.Key()
	at := e.LastAccess()
	i := sort.Search(len(c.byAccess), func(i int) bool {
		return c.entries[c.byAccess[i]].LastAccess().After(at)
	})
	c.byAccess = slices.Insert(c.byAccess, i, key)
	c.entries[key] = e
	c.totalCost += e.Cost()
}

// unlink removes key from the map, the recency index and the total cost and
// returns the entry that was stored under it.
func (c *Cache) unlink(key string) Entry {
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if i := slices.Index(c.byAccess, key); i >= 0 {
		c.byAccess = slices.Delete(c.byAccess, i, i+1)
	}
	delete(c.entries, key)
	c.totalCost -= e.Cost()
	return e
}

// evict removes the oldest entries until the budget holds or one entry is
// left. A single entry larger than the budget is kept.
func (c *Cache) evict() error {
	for c.totalCost > c.maxCost && len(c.byAccess) > 1 {
		key := c.byAccess[0]
		e := c.unlink(key)
		log.Debugf("cache: evicting %s (cost %d, total now %d of %d)", key, e.Cost(), c.totalCost, c.maxCost)
		if err := discard(e); err != nil {
			return err
		}
	}
	return nil
}

// discard deletes the backing file of an entry that has already been
// unlinked. Only a repeated deletion is reported; other filesystem failures
// are logged and tolerated.
func discard(e Entry) error {
	err := e.RemoveFromDisk()
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAlreadyRemoved) {
		return err
	}
	log.WithError(err).Warnf("cache: failed to remove %s from disk", e.Key())
	return nil
}

// Prune removes every entry last accessed before the cutoff, deleting its
// backing file, and returns how many were removed. Unlike budget eviction it
// may empty the cache.
func (c *Cache) Prune(before time.Time) (int, error) {
	n := 0
	for len(c.byAccess) > 0 {
		key := c.byAccess[0]
		if !c.entries[key].LastAccess().Before(before) {
			break
		}
		e := c.unlink(key)
		n++
		log.Debugf("cache: pruning %s (last access %s)", key, e.LastAccess().Format(time.RFC3339))
		if err := discard(e); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Clear forgets every entry without touching the disk.
func (c *Cache) Clear() {
	c.entries = make(map[string]Entry)
	c.byAccess = nil
	c.totalCost = 0
}

// ClearFromDisk removes every entry and its backing file. Each entry is
// unlinked before its file is deleted, so an early return leaves the cache
// holding exactly the entries not yet processed.
func (c *Cache) ClearFromDisk() error {
	for len(c.byAccess) > 0 {
		e := c.unlink(c.byAccess[0])
		if err := discard(e); err != nil {
			return err
		}
	}
	c.Clear()
	return nil
}
