// Package gocache caches extracted content in memory with go-cache.
package gocache

import (
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/patrickmn/go-cache"
)

// Ensure ContentCache implements postpdf.ContentCache at compile time.
var _ postpdf.ContentCache = (*ContentCache)(nil)

const keyPrefix = "content:"

// ContentCache holds extracted content keyed by normalized URL for a fixed
// time. Content is never mutated after extraction, so entries are shared
// between readers without copying.
type ContentCache struct {
	cache *cache.Cache
}

// NewContentCache creates a ContentCache whose entries expire after ttl.
// Expired entries are purged every cleanupInterval.
func NewContentCache(ttl, cleanupInterval time.Duration) *ContentCache {
	return &ContentCache{cache: cache.New(ttl, cleanupInterval)}
}

// Get returns cached content for key.
func (c *ContentCache) Get(key string) (postpdf.Content, bool) {
	v, found := c.cache.Get(keyPrefix + key)
	if !found {
		return nil, false
	}
	content, ok := v.(postpdf.Content)
	return content, ok
}

// Set stores content under key with the default expiration.
func (c *ContentCache) Set(key string, content postpdf.Content) {
	if content == nil {
		return
	}
	c.cache.SetDefault(keyPrefix+key, content)
}

// Len returns the number of cached entries, including expired entries not
// yet purged.
func (c *ContentCache) Len() int {
	return c.cache.ItemCount()
}
