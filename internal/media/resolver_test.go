package media

import (
	"testing"
	"time"
)

func TestResolveShapes(t *testing.T) {
	r := NewResolver("https://shop.example.com/")

	tests := []struct {
		ref  string
		want string
	}{
		{"https://cdn.example.com/p/1.jpg", "https://cdn.example.com/p/1.jpg"},
		{"http://cdn.example.com/p/1.jpg", "http://cdn.example.com/p/1.jpg"},
		{"/media/products/1.jpg", "https://shop.example.com/media/products/1.jpg"},
		{"/static/fallback.png", "https://shop.example.com/static/fallback.png"},
		{"products/1.jpg", "https://shop.example.com/media/products/1.jpg"},
		{"", Placeholder},
		{"   ", Placeholder},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.ref); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestResolveCacheExpires(t *testing.T) {
	r := NewResolver("https://shop.example.com")
	now := time.Now()
	r.now = func() time.Time { return now }

	first := r.Resolve("products/1.jpg")

	// Within the TTL the cached entry is served.
	now = now.Add(cacheTTL - time.Millisecond)
	if got := r.Resolve("products/1.jpg"); got != first {
		t.Errorf("cached resolve changed: %q vs %q", got, first)
	}

	// After the TTL the entry is recomputed (and still equal, since the
	// base did not change).
	now = now.Add(2 * cacheTTL)
	if got := r.Resolve("products/1.jpg"); got != first {
		t.Errorf("recomputed resolve changed: %q vs %q", got, first)
	}
}

func TestInvalidateDropsEntry(t *testing.T) {
	r := NewResolver("https://shop.example.com")
	_ = r.Resolve("products/1.jpg")

	r.Invalidate("products/1.jpg")
	if len(r.cache) != 0 {
		t.Errorf("cache should be empty after invalidate, has %d entries", len(r.cache))
	}

	_ = r.Resolve("a.jpg")
	_ = r.Resolve("b.jpg")
	r.InvalidateAll()
	if len(r.cache) != 0 {
		t.Error("cache should be empty after InvalidateAll")
	}
}
