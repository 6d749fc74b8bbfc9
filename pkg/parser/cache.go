package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// cacheCapacity bounds the number of cached parse trees. The realistic
	// access pattern is one document at a time plus speculative fragment
	// probes, so a small cache is enough.
	cacheCapacity = 10

	// cacheTTL is how long a cached tree stays valid. Editors re-request
	// the same document tree many times within an interaction; seconds is
	// the right order of magnitude.
	cacheTTL = 5 * time.Second
)

// treeCache caches parse trees keyed by a SHA-256 fingerprint of the full
// source text. Eviction, whether by capacity, TTL or Purge, only drops the
// cache's reference: callers may still hold the tree, so the native memory
// is released by the SourceTree cleanup once the last holder lets go.
//
// A prefix of the text would be a cheaper key but risks false hits on large
// documents sharing a common head; hashing the whole text is safe and still
// far cheaper than a parse.
type treeCache struct {
	lru *expirable.LRU[string, *SourceTree]
}

// newTreeCache creates a bounded, TTL'd tree cache.
func newTreeCache() *treeCache {
	return &treeCache{
		lru: expirable.NewLRU[string, *SourceTree](cacheCapacity, nil, cacheTTL),
	}
}

// fingerprint returns the cache key for a source text.
func fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// get returns the cached tree for key, if present and unexpired.
func (c *treeCache) get(key string) (*SourceTree, bool) {
	return c.lru.Get(key)
}

// add stores a tree under key, evicting the oldest entry if at capacity.
func (c *treeCache) add(key string, tree *SourceTree) {
	c.lru.Add(key, tree)
}

// purge drops every cached tree.
func (c *treeCache) purge() {
	c.lru.Purge()
}

// len returns the number of live cache entries.
func (c *treeCache) len() int {
	return c.lru.Len()
}
