package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/netrika/netrika/internal/models"
)

const (
	identityCacheTTL   = 5 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("identity not found (cached)")

type cachedIdentity struct {
	identity  models.Identity
	negative  bool
	fetchedAt time.Time
}

// ttl returns the appropriate TTL for this entry.
func (ci cachedIdentity) ttl() time.Duration {
	if ci.negative {
		return negativeCacheTTL
	}
	return identityCacheTTL
}

// hashKey returns a hex-encoded SHA-256 hash of the API key so raw keys
// are never stored in memory.
func hashKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
}

// CachedIdentityLookup wraps an IdentityLookup with a bounded in-memory cache.
type CachedIdentityLookup struct {
	inner IdentityLookup
	mu    sync.RWMutex
	cache map[string]cachedIdentity
}

// NewCachedIdentityLookup creates a caching wrapper around the given IdentityLookup.
// The provided context controls the lifetime of the background eviction goroutine.
func NewCachedIdentityLookup(ctx context.Context, inner IdentityLookup) *CachedIdentityLookup {
	c := &CachedIdentityLookup{
		inner: inner,
		cache: make(map[string]cachedIdentity),
	}
	go c.evictLoop(ctx)
	return c
}

// evictLoop periodically removes expired entries from the cache.
func (c *CachedIdentityLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.cache {
				if now.Sub(v.fetchedAt) >= v.ttl() {
					delete(c.cache, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// GetIdentityByAPIKey returns a cached identity or delegates to the inner lookup.
// Failed lookups are negatively cached for 30s to prevent brute-force DB hammering.
func (c *CachedIdentityLookup) GetIdentityByAPIKey(ctx context.Context, apiKey string) (models.Identity, error) {
	hk := hashKey(apiKey)

	// Read path: RLock for concurrent cache hits.
	c.mu.RLock()
	entry, ok := c.cache[hk]
	if ok && time.Since(entry.fetchedAt) < entry.ttl() {
		c.mu.RUnlock()
		if entry.negative {
			return models.Identity{}, errCachedNotFound
		}
		return entry.identity, nil
	}
	c.mu.RUnlock()

	// Cache miss or expired, fetch from inner.
	ident, err := c.inner.GetIdentityByAPIKey(ctx, apiKey)
	if err != nil {
		// Negative cache: store failed lookup with short TTL.
		c.mu.Lock()
		c.cache[hk] = cachedIdentity{negative: true, fetchedAt: time.Now()}
		c.mu.Unlock()
		return models.Identity{}, err
	}

	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		// Evict expired entries, then trim if still over limit.
		now := time.Now()
		for k, v := range c.cache {
			if now.Sub(v.fetchedAt) >= v.ttl() {
				delete(c.cache, k)
			}
		}
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}
	c.cache[hk] = cachedIdentity{identity: ident, fetchedAt: time.Now()}
	c.mu.Unlock()

	return ident, nil
}
