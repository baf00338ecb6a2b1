package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	Urlname  string `json:"urlname"`
	BlogName string `json:"blog_name"`
}

func setupCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestCacheAside_MissThenHit(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			calls++
			dest.Urlname = "dahlia"
			dest.BlogName = "달리아의 블로그"
			return nil
		}
	}

	var first cachedProfile
	require.NoError(t, CacheAside(ctx, ProfileKey("dahlia"), &first, ProfileTTL, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "달리아의 블로그", first.BlogName)

	var second cachedProfile
	require.NoError(t, CacheAside(ctx, ProfileKey("dahlia"), &second, ProfileTTL, fetch(&second)))
	assert.Equal(t, 1, calls, "second read must come from cache")
	assert.Equal(t, first, second)
}

func TestCacheAside_InvalidateForcesRefetch(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	calls := 0
	var dest cachedProfile
	fetch := func() error {
		calls++
		dest.Urlname = "dahlia"
		return nil
	}

	require.NoError(t, CacheAside(ctx, ProfileKey("dahlia"), &dest, time.Minute, fetch))
	InvalidateProfile(ctx, "dahlia")
	require.NoError(t, CacheAside(ctx, ProfileKey("dahlia"), &dest, time.Minute, fetch))
	assert.Equal(t, 2, calls)
}

func TestGetJSON_NilClient(t *testing.T) {
	SetClient(nil)
	var dest cachedProfile
	found, err := GetJSON(context.Background(), ProfileKey("nobody"), &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(context.Background(), ProfileKey("nobody"), dest, time.Minute))
}
