package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	cache := NewCacheStore()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "projects:v2:alice:own", []byte("listing")))

	value, ok, err := cache.Get(ctx, "projects:v2:alice:own")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("listing"), value)
}

func TestCacheGetMissing(t *testing.T) {
	cache := NewCacheStore()

	value, ok, err := cache.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestCacheDeleteMultiple(t *testing.T) {
	cache := NewCacheStore()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "projects:v2:alice:own", []byte("a")))
	require.NoError(t, cache.Set(ctx, "projects:v2:alice:public", []byte("b")))
	require.NoError(t, cache.Set(ctx, "projects:v2:bob:own", []byte("c")))

	require.NoError(t, cache.Delete(ctx, "projects:v2:alice:own", "projects:v2:alice:public"))

	_, ok, _ := cache.Get(ctx, "projects:v2:alice:own")
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, "projects:v2:alice:public")
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, "projects:v2:bob:own")
	assert.True(t, ok)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheDeleteAbsentKey(t *testing.T) {
	cache := NewCacheStore()
	assert.NoError(t, cache.Delete(context.Background(), "never-set"))
}

func TestCacheValueIsolation(t *testing.T) {
	cache := NewCacheStore()
	ctx := context.Background()

	original := []byte("listing")
	require.NoError(t, cache.Set(ctx, "key", original))
	original[0] = 'X'

	value, ok, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("listing"), value)
}
