package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	Category string `json:"category"`
	Cause    string `json:"cause"`
}

func TestLocalCacheSetGet(t *testing.T) {
	c := NewLocalCache()
	ctx := context.Background()

	want := entry{Category: "auth", Cause: "expired token"}
	assert.NoError(t, c.Set(ctx, "classify:gusto:auth_expired", want, time.Minute))

	var got entry
	hit, err := c.Get(ctx, "classify:gusto:auth_expired", &got)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestLocalCacheMissIsNotAnError(t *testing.T) {
	c := NewLocalCache()

	var got entry
	hit, err := c.Get(context.Background(), "classify:missing", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestLocalCacheDelete(t *testing.T) {
	c := NewLocalCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "key", entry{Category: "network"}, time.Minute))
	assert.NoError(t, c.Delete(ctx, "key"))

	var got entry
	hit, err := c.Get(ctx, "key", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
}
