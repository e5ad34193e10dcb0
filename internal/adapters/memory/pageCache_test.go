package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCacheMemory_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewPageCacheMemory()
	c.Now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "page:index:1", []byte("fragment"), 20*time.Second))

	now = now.Add(19 * time.Second)
	got, ok, err := c.Get(ctx, "page:index:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fragment", string(got))

	now = now.Add(time.Second)
	_, ok, err = c.Get(ctx, "page:index:1")
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire once the TTL has elapsed")
}

func TestPageCacheMemory_DeletePrefix(t *testing.T) {
	c := NewPageCacheMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "page:index:1", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "page:index:2", []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, "other", []byte("c"), time.Minute))

	require.NoError(t, c.DeletePrefix(ctx, "page:"))

	_, ok, _ := c.Get(ctx, "page:index:1")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "page:index:2")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "other")
	assert.True(t, ok)
}

func TestPageCacheMemory_ReturnsCopies(t *testing.T) {
	c := NewPageCacheMemory()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, time.Minute))
	value[0] = 'z'

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}
