package auth

import (
	"context"
	"sync"
	"time"
)

// CachedVerifier wraps a UserVerifier with TTL-based caching so that
// RequireAuth does not hit the database on every request.
type CachedVerifier struct {
	inner UserVerifier
	cache map[uint]cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	ok        bool
	expiresAt time.Time
}

// NewCachedVerifier wraps inner. ttl is how long an answer is reused.
func NewCachedVerifier(inner UserVerifier, ttl time.Duration) *CachedVerifier {
	return &CachedVerifier{
		inner: inner,
		cache: make(map[uint]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Verify returns the cached answer for uid, asking inner on a miss.
func (c *CachedVerifier) Verify(ctx context.Context, uid uint) bool {
	c.mu.RLock()
	entry, ok := c.cache[uid]
	c.mu.RUnlock()

	if ok && c.now().Before(entry.expiresAt) {
		return entry.ok
	}

	res := c.inner(ctx, uid)
	// Negative answers are not cached so a freshly created user can sign in.
	if !res {
		return false
	}
	c.mu.Lock()
	c.cache[uid] = cacheEntry{ok: res, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return true
}
