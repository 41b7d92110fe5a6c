package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_NilIsNoop(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, "platforms", []string{"INSTAGRAM"}))

	var out []string
	hit, err := cache.GetJSON(ctx, "platforms", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, out)

	assert.NoError(t, cache.Delete(ctx, "platforms"))
}

func TestCache_WithoutClientIsNoop(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, "categories", map[string]int{"a": 1}))

	var out map[string]int
	hit, err := cache.GetJSON(ctx, "categories", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
