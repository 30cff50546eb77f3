package plex

import (
	"testing"
	"time"

	"github.com/kometawizard/kometawizard/internal/profile"
)

func TestLibraryCachePutGet(t *testing.T) {
	cache := NewLibraryCache(time.Minute)
	libs := []profile.LibraryInfo{
		{Name: "Movies", Type: "movie"},
		{Name: "TV Shows", Type: "show"},
	}

	if _, ok := cache.Get("http://localhost:32400", "token"); ok {
		t.Fatal("empty cache should miss")
	}

	cache.Put("http://localhost:32400", "token", libs)

	got, ok := cache.Get("http://localhost:32400", "token")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 2 || got[0].Name != "Movies" {
		t.Errorf("cached libraries = %v", got)
	}

	// Trailing slashes key the same entry.
	if _, ok := cache.Get("http://localhost:32400/", "token"); !ok {
		t.Error("trailing slash should hit the same entry")
	}
}

func TestLibraryCacheKeysByServerAndToken(t *testing.T) {
	cache := NewLibraryCache(time.Minute)
	cache.Put("http://a:32400", "token1", []profile.LibraryInfo{{Name: "A"}})

	if _, ok := cache.Get("http://b:32400", "token1"); ok {
		t.Error("different server should miss")
	}
	if _, ok := cache.Get("http://a:32400", "token2"); ok {
		t.Error("different token should miss")
	}
}

func TestLibraryCacheExpiry(t *testing.T) {
	cache := NewLibraryCache(time.Minute)
	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("http://localhost:32400", "token", []profile.LibraryInfo{{Name: "Movies"}})

	current = current.Add(59 * time.Second)
	if _, ok := cache.Get("http://localhost:32400", "token"); !ok {
		t.Error("entry should still be fresh before the TTL")
	}

	current = current.Add(2 * time.Second)
	if _, ok := cache.Get("http://localhost:32400", "token"); ok {
		t.Error("entry should expire after the TTL")
	}

	// Expired entries are dropped, so a re-put starts a fresh window.
	cache.Put("http://localhost:32400", "token", []profile.LibraryInfo{{Name: "Movies"}})
	if _, ok := cache.Get("http://localhost:32400", "token"); !ok {
		t.Error("re-put entry should hit")
	}
}

func TestLibraryCacheInvalidate(t *testing.T) {
	cache := NewLibraryCache(0)
	cache.Put("http://localhost:32400", "token", []profile.LibraryInfo{{Name: "Movies"}})

	cache.Invalidate("http://localhost:32400", "token")
	if _, ok := cache.Get("http://localhost:32400", "token"); ok {
		t.Error("invalidated entry should miss")
	}

	cache.Put("http://a", "t1", nil)
	cache.Put("http://b", "t2", nil)
	cache.Clear()
	if _, ok := cache.Get("http://a", "t1"); ok {
		t.Error("cleared cache should miss")
	}
}
