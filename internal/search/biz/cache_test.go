package biz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranadkar/polaryx/internal/content"
)

func TestResultCache_PutGet(t *testing.T) {
	cache, err := NewResultCache(16)
	require.NoError(t, err)

	item := &content.Item{URL: "https://cnn.com/story", Title: "Story"}
	cache.Put(item)

	got, err := cache.Get("https://cnn.com/story")
	require.NoError(t, err)
	assert.Same(t, item, got)
	assert.Equal(t, 1, cache.Len())
}

func TestResultCache_Miss(t *testing.T) {
	cache, err := NewResultCache(16)
	require.NoError(t, err)

	_, err = cache.Get("https://never-seen.com/story")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResultCache_LastWriteWins(t *testing.T) {
	cache, err := NewResultCache(16)
	require.NoError(t, err)

	cache.Put(&content.Item{URL: "https://cnn.com/story", Title: "First"})
	cache.Put(&content.Item{URL: "https://cnn.com/story", Title: "Second"})

	got, err := cache.Get("https://cnn.com/story")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
	assert.Equal(t, 1, cache.Len())
}

func TestResultCache_Eviction(t *testing.T) {
	cache, err := NewResultCache(2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		cache.Put(&content.Item{URL: fmt.Sprintf("https://cnn.com/story-%d", i)})
	}

	assert.Equal(t, 2, cache.Len())

	_, err = cache.Get("https://cnn.com/story-0")
	assert.ErrorIs(t, err, ErrNotFound, "oldest entry evicted")

	_, err = cache.Get("https://cnn.com/story-2")
	assert.NoError(t, err)
}
