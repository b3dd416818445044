// Package media resolves product image references into absolute URLs.
//
// The backend stores image fields in mixed shapes: fully-qualified URLs,
// media-root-relative paths, and bare filenames. Resolve normalizes all
// of them against the configured media base and falls back to a
// placeholder for empty references. Resolved URLs are cached briefly so
// that list renders hitting the same reference repeatedly do not redo
// the string work; the cache is keyed by a 64-bit hash of the reference.
package media

import (
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Placeholder is returned for empty or unresolvable references.
const Placeholder = "/placeholder.svg"

// cacheTTL bounds how long a resolved URL is served from cache.
const cacheTTL = 5 * time.Second

type cacheEntry struct {
	url     string
	expires time.Time
}

// Resolver normalizes image references against a media base URL.
type Resolver struct {
	base string

	mu    sync.Mutex
	cache map[uint64]cacheEntry
	now   func() time.Time
}

// NewResolver returns a Resolver serving URLs under base, e.g.
// "https://shop.example.com". A trailing slash on base is ignored.
func NewResolver(base string) *Resolver {
	return &Resolver{
		base:  strings.TrimRight(base, "/"),
		cache: make(map[uint64]cacheEntry),
		now:   time.Now,
	}
}

// Resolve returns the absolute URL for ref.
func (r *Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Placeholder
	}
	key := xxhash.Sum64String(ref)

	r.mu.Lock()
	if e, ok := r.cache[key]; ok && r.now().Before(e.expires) {
		r.mu.Unlock()
		return e.url
	}
	r.mu.Unlock()

	resolved := r.resolve(ref)

	r.mu.Lock()
	r.cache[key] = cacheEntry{url: resolved, expires: r.now().Add(cacheTTL)}
	r.mu.Unlock()
	return resolved
}

func (r *Resolver) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "/media/") {
		return r.base + ref
	}
	if strings.HasPrefix(ref, "/") {
		return r.base + ref
	}
	return r.base + "/media/" + ref
}

// Invalidate drops the cached resolution for ref, forcing the next
// Resolve to recompute it.
func (r *Resolver) Invalidate(ref string) {
	key := xxhash.Sum64String(ref)
	r.mu.Lock()
	delete(r.cache, key)
	r.mu.Unlock()
}

// InvalidateAll clears the whole cache.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[uint64]cacheEntry)
	r.mu.Unlock()
}
