// Copyright (c) 2024 The treereduce developers

package checkcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissesOnUnknownCandidate(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	_, ok := c.Get([]byte("unseen"))
	assert.False(t, ok)
}

func TestPutThenGetHitsInMemory(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	require.NoError(t, c.Put([]byte("candidate"), true))

	result, ok := c.Get([]byte("candidate"))
	assert.True(t, ok)
	assert.True(t, result)

	hits, misses := c.Stats().Counts()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(0), misses)
}

func TestKeyOfIsStableAndContentSensitive(t *testing.T) {
	a := KeyOf([]byte("abc"))
	b := KeyOf([]byte("abc"))
	c := KeyOf([]byte("abd"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestPersistentCacheSurvivesMemoryEviction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checks.db")

	c, err := NewPersistent(16, path)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put([]byte("persisted"), false))

	c.mem.Remove(KeyOf([]byte("persisted")))

	result, ok := c.Get([]byte("persisted"))
	require.True(t, ok)
	assert.False(t, result)
}

func TestPersistentCacheReopensAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checks.db")

	first, err := NewPersistent(16, path)
	require.NoError(t, err)
	require.NoError(t, first.Put([]byte("durable"), true))
	require.NoError(t, first.Close())

	second, err := NewPersistent(16, path)
	require.NoError(t, err)
	defer second.Close()

	result, ok := second.Get([]byte("durable"))
	require.True(t, ok)
	assert.True(t, result)
}
