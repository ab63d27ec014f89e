package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	require.NoError(t, Init(mr.Addr(), "", 0))
	return mr
}

func TestPageCacheRoundTrip(t *testing.T) {
	mr := newTestClient(t)
	ctx := context.Background()
	cache := &PageCache{TTL: 20 * time.Second}

	_, err := cache.Get(ctx, "index")
	assert.ErrorIs(t, err, ErrCacheMiss)

	blob := []byte(`{"posts":[]}`)
	require.NoError(t, cache.Set(ctx, "index", blob))

	got, err := cache.Get(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	// TTL 窗口内不会因为底层数据变化而失效，只会自然过期
	mr.FastForward(19 * time.Second)
	_, err = cache.Get(ctx, "index")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = cache.Get(ctx, "index")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPageCacheFlush(t *testing.T) {
	newTestClient(t)
	ctx := context.Background()
	cache := &PageCache{}

	require.NoError(t, cache.Set(ctx, "index", []byte("a")))
	require.NoError(t, cache.Set(ctx, "groups", []byte("b")))

	require.NoError(t, cache.Flush(ctx))

	_, err := cache.Get(ctx, "index")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, "groups")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPageCacheDefaultTTL(t *testing.T) {
	mr := newTestClient(t)
	ctx := context.Background()
	cache := &PageCache{}

	require.NoError(t, cache.Set(ctx, "index", []byte("x")))
	mr.FastForward(DefaultPageTTL + time.Second)
	_, err := cache.Get(ctx, "index")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
