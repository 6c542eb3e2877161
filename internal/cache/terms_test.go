package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plazakit/searchsvc/internal/domain"
)

func setupCache(t *testing.T) (*TermCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTermCache(client, time.Minute, logger), mr
}

func TestTermCache_RoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	scope := domain.Scope{BrandID: "b-1"}

	_, ok := c.Get(ctx, "popular", scope, "sn")
	assert.False(t, ok)

	c.Set(ctx, "popular", scope, "sn", []string{"sneaker", "snow boots"})

	terms, ok := c.Get(ctx, "popular", scope, "sn")
	require.True(t, ok)
	assert.Equal(t, []string{"sneaker", "snow boots"}, terms)
}

func TestTermCache_KindsAndScopesDoNotCollide(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "popular", domain.Scope{}, "sn", []string{"global"})
	c.Set(ctx, "boosted", domain.Scope{}, "sn", []string{"boosted"})
	c.Set(ctx, "popular", domain.Scope{BrandID: "b-1"}, "sn", []string{"branded"})

	terms, ok := c.Get(ctx, "popular", domain.Scope{}, "sn")
	require.True(t, ok)
	assert.Equal(t, []string{"global"}, terms)

	terms, ok = c.Get(ctx, "boosted", domain.Scope{}, "sn")
	require.True(t, ok)
	assert.Equal(t, []string{"boosted"}, terms)

	terms, ok = c.Get(ctx, "popular", domain.Scope{BrandID: "b-1"}, "sn")
	require.True(t, ok)
	assert.Equal(t, []string{"branded"}, terms)
}

func TestTermCache_EntriesExpire(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "popular", domain.Scope{}, "sn", []string{"sneaker"})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "popular", domain.Scope{}, "sn")
	assert.False(t, ok)
}

func TestTermCache_InvalidateDropsOnlyTheScope(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	branded := domain.Scope{BrandID: "b-1"}

	c.Set(ctx, "popular", domain.Scope{}, "sn", []string{"global"})
	c.Set(ctx, "popular", branded, "sn", []string{"branded"})
	c.Set(ctx, "boosted", branded, "", []string{"boosted"})

	c.Invalidate(ctx, branded)

	_, ok := c.Get(ctx, "popular", branded, "sn")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "boosted", branded, "")
	assert.False(t, ok)

	terms, ok := c.Get(ctx, "popular", domain.Scope{}, "sn")
	require.True(t, ok)
	assert.Equal(t, []string{"global"}, terms)
}

func TestTermCache_FailsOpenWhenRedisDown(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()
	mr.Close()

	_, ok := c.Get(ctx, "popular", domain.Scope{}, "sn")
	assert.False(t, ok)

	// Writes and invalidations must not panic or error out.
	c.Set(ctx, "popular", domain.Scope{}, "sn", []string{"sneaker"})
	c.Invalidate(ctx, domain.Scope{})
}
