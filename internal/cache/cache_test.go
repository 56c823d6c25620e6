package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))
	now = now.Add(24 * time.Hour)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "forever"))
	_, err = c.Get(ctx, "forever")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPageStore(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryCache()
	pages := &PageStore{Cache: mem}

	_, err := pages.Get(ctx, "https://shop.example/a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, pages.Put(ctx, Page{URL: "https://shop.example/a", Status: "200 OK", Body: "<h1>A</h1>"}))
	p, err := pages.Get(ctx, "https://shop.example/a")
	require.NoError(t, err)
	assert.Equal(t, "<h1>A</h1>", p.Body)

	require.NoError(t, mem.Set(ctx, pageKey("https://shop.example/b"), []byte("not json"), 0))
	_, err = pages.Get(ctx, "https://shop.example/b")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
