package plex

import (
	"strings"
	"sync"
	"time"

	"github.com/kometawizard/kometawizard/internal/profile"
)

const defaultCacheTTL = 5 * time.Minute

// LibraryCache memoizes library listings per server and token so repeated
// wizard page loads do not hammer the Plex server. Entries expire after a
// TTL; changing the token or URL naturally keys a fresh entry.
type LibraryCache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	libraries []profile.LibraryInfo
	expiresAt time.Time
}

// NewLibraryCache creates a cache with the given TTL; zero means the default.
func NewLibraryCache(ttl time.Duration) *LibraryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &LibraryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached listing for the server/token pair, if fresh.
func (c *LibraryCache) Get(serverURL, token string) ([]profile.LibraryInfo, bool) {
	key := cacheKey(serverURL, token)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.libraries, true
}

// Put stores a listing for the server/token pair.
func (c *LibraryCache) Put(serverURL, token string, libraries []profile.LibraryInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(serverURL, token)] = cacheEntry{
		libraries: libraries,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops the entry for the server/token pair.
func (c *LibraryCache) Invalidate(serverURL, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(serverURL, token))
}

// Clear drops everything.
func (c *LibraryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func cacheKey(serverURL, token string) string {
	return strings.TrimRight(serverURL, "/") + "|" + token
}
