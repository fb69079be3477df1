// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/pumlcache/internal/cache"
	"github.com/staranto/pumlcache/internal/fingerprint"
	"github.com/staranto/pumlcache/internal/render"
)

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *fakeRenderer) Render(_ context.Context, doc []byte, f render.Format) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]byte(string(f)+":"), doc...), nil
}

func diskCache(t *testing.T, maxCost int64) (*cache.Cache, string) {
	t.Helper()
	dir := t.TempDir()
	c := cache.New(maxCost)
	require.NoError(t, c.SetPath(dir, cache.FileEntries))
	return c, dir
}

func TestPreview_MissThenHit(t *testing.T) {
	c, dir := diskCache(t, 1<<20)
	r := &fakeRenderer{}
	p := New(c, r)
	doc := []byte("@startuml\nclass Foo\n@enduml")

	res, err := p.Preview(context.Background(), doc, render.SVG)
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Equal(t, fingerprint.Key(doc, "svg"), res.Key)
	assert.Equal(t, "svg:"+string(doc), string(res.Data))

	onDisk, err := os.ReadFile(filepath.Join(dir, res.Key))
	require.NoError(t, err)
	assert.Equal(t, res.Data, onDisk)

	res, err = p.Preview(context.Background(), append(doc, '\n'), render.SVG)
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, 1, r.calls)

	_, err = p.Preview(context.Background(), doc, render.PNG)
	require.NoError(t, err)
	assert.Equal(t, 2, r.calls, "format is part of the key")
}

func TestPreview_HitRefreshesRecency(t *testing.T) {
	c, _ := diskCache(t, 1<<20)
	p := New(c, &fakeRenderer{})

	a, err := p.Preview(context.Background(), []byte("a"), render.SVG)
	require.NoError(t, err)
	b, err := p.Preview(context.Background(), []byte("b"), render.SVG)
	require.NoError(t, err)

	var hitAt time.Time
	p.now = func() time.Time {
		hitAt = time.Now().Add(time.Minute)
		return hitAt
	}
	_, err = p.Preview(context.Background(), []byte("a"), render.SVG)
	require.NoError(t, err)

	assert.Equal(t, []string{b.Key, a.Key}, p.cache.Keys())
	e, _ := p.cache.Item(a.Key)
	assert.True(t, hitAt.Equal(e.LastAccess()))
}

func TestPreview_MissingFileRerenders(t *testing.T) {
	c, dir := diskCache(t, 1<<20)
	r := &fakeRenderer{}
	p := New(c, r)

	res, err := p.Preview(context.Background(), []byte("doc"), render.SVG)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, res.Key)))

	res, err = p.Preview(context.Background(), []byte("doc"), render.SVG)
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Equal(t, 2, r.calls)
	_, err = os.Stat(filepath.Join(dir, res.Key))
	assert.NoError(t, err)
}

func TestPreview_MemoryOnly(t *testing.T) {
	c := cache.New(12)
	r := &fakeRenderer{}
	p := New(c, r)

	first, err := p.Preview(context.Background(), []byte("one"), render.SVG)
	require.NoError(t, err)
	res, err := p.Preview(context.Background(), []byte("one"), render.SVG)
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, first.Data, res.Data)

	// "svg:two" pushes the budget over and evicts "one".
	_, err = p.Preview(context.Background(), []byte("two"), render.SVG)
	require.NoError(t, err)
	assert.NotContains(t, p.memory, first.Key)
	assert.Len(t, p.memory, 1)

	res, err = p.Preview(context.Background(), []byte("one"), render.SVG)
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Equal(t, 3, r.calls)
}

func TestPreview_EmptyDocument(t *testing.T) {
	r := &fakeRenderer{}
	p := New(cache.New(10), r)
	_, err := p.Preview(context.Background(), []byte(" \n\t"), render.SVG)
	assert.ErrorIs(t, err, ErrEmptyDocument)
	assert.Zero(t, r.calls)
}

func TestPreview_RenderError(t *testing.T) {
	c, dir := diskCache(t, 100)
	boom := errors.New("boom")
	p := New(c, &fakeRenderer{err: boom})

	_, err := p.Preview(context.Background(), []byte("doc"), render.SVG)
	assert.ErrorIs(t, err, boom)

	left, _ := os.ReadDir(dir)
	assert.Empty(t, left)
}

func TestPreview_Concurrent(t *testing.T) {
	c, _ := diskCache(t, 1<<20)
	p := New(c, &fakeRenderer{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Preview(context.Background(), []byte("shared"), render.SVG)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, p.cache.Size())
}
