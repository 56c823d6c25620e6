//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	container, err := redis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	c, err := NewRedisCache(ctx, url, "test:")
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	pages := &PageStore{Cache: c, TTL: time.Minute}
	require.NoError(t, pages.Put(ctx, Page{URL: "https://shop.example/a", Body: "<h1>A</h1>"}))
	p, err := pages.Get(ctx, "https://shop.example/a")
	require.NoError(t, err)
	assert.Equal(t, "<h1>A</h1>", p.Body)

	require.NoError(t, c.Delete(ctx, pageKey("https://shop.example/a")))
	_, err = pages.Get(ctx, "https://shop.example/a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
