// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEntry records how often its backing file would have been removed.
type countingEntry struct {
	path       string
	key        string
	cost       int64
	lastAccess time.Time
	removals   int
	failWith   error
}

func (e *countingEntry) Path() string          { return e.path }
func (e *countingEntry) Key() string           { return e.key }
func (e *countingEntry) Cost() int64           { return e.cost }
func (e *countingEntry) LastAccess() time.Time { return e.lastAccess }

func (e *countingEntry) RemoveFromDisk() error {
	e.removals++
	return e.failWith
}

func day(d int) time.Time {
	return time.Date(2010, time.January, d, 0, 0, 0, 0, time.UTC)
}

func newEntry(key string, cost int64, at time.Time) *countingEntry {
	return &countingEntry{path: "/foo/" + key, key: key, cost: cost, lastAccess: at}
}

func sumCosts(c *Cache) int64 {
	var total int64
	for _, k := range c.Keys() {
		e, _ := c.Item(k)
		total += e.Cost()
	}
	return total
}

func TestMaxCost(t *testing.T) {
	c := New(0)
	assert.Equal(t, int64(0), c.MaxCost())
	c.SetMaxCost(100)
	assert.Equal(t, int64(100), c.MaxCost())
	assert.Equal(t, int64(200), New(200).MaxCost())
}

func TestAdd_ItemFoundAfterAdd(t *testing.T) {
	c := New(100)
	assert.False(t, c.HasItem("foo"))
	require.NoError(t, c.Add(newEntry("foo", 10, time.Time{})))
	assert.True(t, c.HasItem("foo"))
	assert.Equal(t, int64(10), c.TotalCost())
	assert.Equal(t, 1, c.Size())
}

func TestItem(t *testing.T) {
	c := New(100)
	_, ok := c.Item("foo")
	assert.False(t, ok)

	at := time.Date(2012, time.August, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.Add(newEntry("foo", 10, at)))

	e, ok := c.Item("foo")
	require.True(t, ok)
	assert.Equal(t, "foo", e.Key())
	assert.Equal(t, int64(10), e.Cost())
	assert.Equal(t, at, e.LastAccess())
}

func TestAdd_OlderItemsEvicted(t *testing.T) {
	c := New(100)
	item1 := newEntry("item1", 10, day(1))
	item2 := newEntry("item2", 40, day(2))
	item3 := newEntry("item3", 55, day(3))

	require.NoError(t, c.Add(item1))
	require.NoError(t, c.Add(item2))
	require.NoError(t, c.Add(item3))

	assert.Equal(t, 2, c.Size())
	assert.Equal(t, int64(95), c.TotalCost())
	assert.ElementsMatch(t, []string{"item2", "item3"}, c.Keys())
	assert.Equal(t, 1, item1.removals)
	assert.Zero(t, item2.removals)
	assert.Zero(t, item3.removals)
}

func TestAdd_EvictsInRecencyOrder(t *testing.T) {
	c := New(30)
	// Inserted out of order; eviction must follow LastAccess, not insertion.
	late := newEntry("late", 10, day(9))
	early := newEntry("early", 10, day(1))
	middle := newEntry("middle", 10, day(5))
	require.NoError(t, c.Add(late))
	require.NoError(t, c.Add(early))
	require.NoError(t, c.Add(middle))
	assert.Equal(t, []string{"early", "middle", "late"}, c.Keys())

	require.NoError(t, c.Add(newEntry("newest", 10, day(10))))
	assert.Equal(t, 1, early.removals)
	assert.Equal(t, []string{"middle", "late", "newest"}, c.Keys())

	require.NoError(t, c.Add(newEntry("big", 20, day(11))))
	assert.Equal(t, 1, middle.removals)
	assert.Equal(t, 1, late.removals)
	assert.Equal(t, []string{"newest", "big"}, c.Keys())
	assert.Equal(t, int64(30), c.TotalCost())
}

func TestAdd_SingleOversizedEntryKept(t *testing.T) {
	c := New(10)
	big := newEntry("big", 500, day(1))
	require.NoError(t, c.Add(big))

	assert.Equal(t, 1, c.Size())
	assert.Equal(t, int64(500), c.TotalCost())
	assert.Zero(t, big.removals)

	// A newer entry displaces it; the newcomer alone is then kept.
	require.NoError(t, c.Add(newEntry("bigger", 600, day(2))))
	assert.Equal(t, []string{"bigger"}, c.Keys())
	assert.Equal(t, 1, big.removals)
}

func TestAdd_ZeroBudgetKeepsNewest(t *testing.T) {
	c := New(0)
	first := newEntry("first", 1, day(1))
	require.NoError(t, c.Add(first))
	require.NoError(t, c.Add(newEntry("second", 1, day(2))))
	assert.Equal(t, []string{"second"}, c.Keys())
	assert.Equal(t, 1, first.removals)
}

func TestAdd_SameEntryTwice(t *testing.T) {
	c := New(100)
	e := newEntry("foo", 10, day(1))
	require.NoError(t, c.Add(e))

	err := c.Add(e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateInsert))
	assert.Equal(t, 1, c.Size())
	assert.Equal(t, int64(10), c.TotalCost())
}

func TestAdd_UpdateReplacesCostAndDate(t *testing.T) {
	const maxCost = 35 + 15 + 5
	c := New(maxCost)

	item1 := newEntry("item1", 10, day(1))
	require.NoError(t, c.Add(item1))
	require.NoError(t, c.Add(newEntry("item2", 35, day(2))))
	require.NoError(t, c.Add(newEntry("item1", 15, day(3))))

	assert.Equal(t, int64(50), c.TotalCost())
	assert.ElementsMatch(t, []string{"item1", "item2"}, c.Keys())
	e, _ := c.Item("item1")
	assert.Equal(t, int64(15), e.Cost())
	assert.Equal(t, day(3), e.LastAccess())
	assert.Zero(t, item1.removals, "superseded entry must not delete the shared file")
	assert.Equal(t, []string{"item2", "item1"}, c.Keys())
}

func TestAdd_CorrectFileDeletedAfterUpdate(t *testing.T) {
	const maxCost = 40 + 15 + 5
	c := New(maxCost)

	item1 := newEntry("item1", 10, day(1))
	item2 := newEntry("item2", 35, day(2))
	item3 := newEntry("item1", 15, day(3))
	item4 := newEntry("item4", 40, day(4))

	for _, e := range []*countingEntry{item1, item2, item3, item4} {
		require.NoError(t, c.Add(e))
	}

	assert.Equal(t, int64(55), c.TotalCost())
	assert.ElementsMatch(t, []string{"item1", "item4"}, c.Keys())
	assert.Zero(t, item1.removals)
	assert.Equal(t, 1, item2.removals)
	assert.Zero(t, item3.removals)
	assert.Zero(t, item4.removals)
}

func TestSetMaxCost_IsLazy(t *testing.T) {
	c := New(100)
	a := newEntry("a", 40, day(1))
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(newEntry("b", 40, day(2))))

	c.SetMaxCost(50)
	assert.Equal(t, 2, c.Size(), "lowering the budget alone must not evict")
	assert.Zero(t, a.removals)

	require.NoError(t, c.Add(newEntry("c", 10, day(3))))
	assert.Equal(t, 1, a.removals)
	assert.ElementsMatch(t, []string{"b", "c"}, c.Keys())
	assert.LessOrEqual(t, c.TotalCost(), c.MaxCost())
}

func TestEviction_AlreadyRemovedSurfaces(t *testing.T) {
	c := New(10)
	old := newEntry("old", 10, day(1))
	old.failWith = ErrAlreadyRemoved
	require.NoError(t, c.Add(old))

	err := c.Add(newEntry("new", 10, day(2)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyRemoved))
	// The bookkeeping is still consistent.
	assert.Equal(t, []string{"new"}, c.Keys())
	assert.Equal(t, int64(10), c.TotalCost())
}

func TestEviction_DiskFailureTolerated(t *testing.T) {
	c := New(10)
	old := newEntry("old", 10, day(1))
	old.failWith = errors.New("permission denied")
	require.NoError(t, c.Add(old))

	require.NoError(t, c.Add(newEntry("new", 10, day(2))))
	assert.Equal(t, 1, old.removals)
	assert.False(t, c.HasItem("old"))
	assert.Equal(t, int64(10), c.TotalCost())
}

func TestClear_DoesNotRemoveFiles(t *testing.T) {
	c := New(100)
	e := newEntry("foo", 10, time.Time{})
	require.NoError(t, c.Add(e))

	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, int64(0), c.TotalCost())
	assert.Empty(t, c.Keys())
	assert.Zero(t, e.removals)
}

func TestClearFromDisk_RemovesFiles(t *testing.T) {
	c := New(100)
	foo := newEntry("foo", 10, day(1))
	bar := newEntry("bar", 20, day(2))
	require.NoError(t, c.Add(foo))
	require.NoError(t, c.Add(bar))

	require.NoError(t, c.ClearFromDisk())
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, int64(0), c.TotalCost())
	assert.Equal(t, 1, foo.removals)
	assert.Equal(t, 1, bar.removals)
}

func TestClearFromDisk_StopsConsistently(t *testing.T) {
	c := New(100)
	foo := newEntry("foo", 10, day(1))
	bad := newEntry("bad", 20, day(2))
	bad.failWith = ErrAlreadyRemoved
	baz := newEntry("baz", 30, day(3))
	for _, e := range []*countingEntry{foo, bad, baz} {
		require.NoError(t, c.Add(e))
	}

	err := c.ClearFromDisk()
	require.ErrorIs(t, err, ErrAlreadyRemoved)
	assert.Equal(t, []string{"baz"}, c.Keys())
	assert.Equal(t, int64(30), c.TotalCost())
	assert.Zero(t, baz.removals)
}

func TestPrune(t *testing.T) {
	c := New(1000)
	a := newEntry("a", 10, day(1))
	b := newEntry("b", 10, day(2))
	d := newEntry("d", 10, day(4))
	for _, e := range []*countingEntry{d, a, b} {
		require.NoError(t, c.Add(e))
	}

	n, err := c.Prune(day(3))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"d"}, c.Keys())
	assert.Equal(t, 1, a.removals)
	assert.Equal(t, 1, b.removals)
	assert.Zero(t, d.removals)

	n, err = c.Prune(day(30))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, c.Size())
}

func TestEntries_RecencyOrder(t *testing.T) {
	c := New(100)
	require.NoError(t, c.Add(newEntry("b", 1, day(2))))
	require.NoError(t, c.Add(newEntry("a", 1, day(1))))
	require.NoError(t, c.Add(newEntry("c", 1, day(2))))

	var keys []string
	for _, e := range c.Entries() {
		keys = append(keys, e.Key())
	}
	// Equal timestamps keep insertion order.
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestInvariants_RandomSequence(t *testing.T) {
	c := New(50)
	costs := []int64{5, 30, 12, 1, 44, 7, 60, 3, 18, 25, 9, 2}
	keys := []string{"a", "b", "c", "a", "d", "e", "b", "f", "c", "g", "a", "h"}

	for i := range costs {
		require.NoError(t, c.Add(newEntry(keys[i], costs[i], day(1+(i*7)%11))))

		assert.Equal(t, sumCosts(c), c.TotalCost(), "step %d", i)
		assert.Len(t, c.Keys(), c.Size(), "step %d", i)
		if c.Size() > 1 {
			assert.LessOrEqual(t, c.TotalCost(), c.MaxCost(), "step %d", i)
		}
		entries := c.Entries()
		for j := 1; j < len(entries); j++ {
			assert.False(t, entries[j].LastAccess().Before(entries[j-1].LastAccess()), "step %d", i)
		}
	}

	c.Clear()
	assert.Equal(t, sumCosts(c), c.TotalCost())
}
