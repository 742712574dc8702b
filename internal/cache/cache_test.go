package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "analytics:mavericks:119:10", Key("analytics", "mavericks", "119", "10"))
	assert.Equal(t, "health", Key("health"))
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	ctx := context.Background()
	type payload struct {
		Congress int    `json:"congress"`
		Label    string `json:"label"`
	}

	require.NoError(t, c.Set(ctx, "k", payload{Congress: 119, Label: "unity"}))

	var got payload
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Congress: 119, Label: "unity"}, got)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	var got map[string]any
	hit, err := c.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	base := time.Date(2026, time.January, 2, 3, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "value"))

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
