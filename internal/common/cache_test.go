package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(5*time.Minute, 10*time.Minute)

	c.Set(CacheKeyProfile(1), "cached profile")

	got, ok := c.Get(CacheKeyProfile(1))
	assert.True(t, ok)
	assert.Equal(t, "cached profile", got)

	_, ok = c.Get(CacheKeyProfile(2))
	assert.False(t, ok)
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache(5*time.Minute, 10*time.Minute)

	c.Set(CacheKeyUserByID(7), "soon gone", 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get(CacheKeyUserByID(7))
	assert.False(t, ok)
}

func TestCacheFlush(t *testing.T) {
	c := NewCache(5*time.Minute, 10*time.Minute)

	c.Set(CacheKeyProfile(1), "a")
	c.Set(CacheKeyProfile(2), "b")
	c.Flush()

	_, ok := c.Get(CacheKeyProfile(1))
	assert.False(t, ok)
}
