package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(50*time.Millisecond, time.Minute)

	c.Set(CacheKeySettings(), "value")

	got, ok := c.Get(CacheKeySettings())
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	time.Sleep(80 * time.Millisecond)

	_, ok = c.Get(CacheKeySettings())
	assert.False(t, ok)
}

func TestCacheFlush(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)

	c.Set(CacheKeyPublishedPosts(10, 0), []int{1, 2, 3})
	c.Set(CacheKeyPostBySlug("beach-trips"), 1)
	c.Flush()

	_, ok := c.Get(CacheKeyPublishedPosts(10, 0))
	assert.False(t, ok)

	_, ok = c.Get(CacheKeyPostBySlug("beach-trips"))
	assert.False(t, ok)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "published_posts:10:20", CacheKeyPublishedPosts(10, 20))
	assert.Equal(t, "post_by_slug:beach-trips", CacheKeyPostBySlug("beach-trips"))
}
