package assembly

import "testing"

func TestQueryHashDeterministic(t *testing.T) {
	req := QueryRequest{
		TenantID:     "acme",
		Query:        "open opportunities",
		ShardTypeIDs: []string{"opportunity"},
		TopK:         10,
	}
	h1, err := QueryHash(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := QueryHash(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h1 != h2 {
		t.Errorf("same request hashed differently: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("expected sha256 hex digest, got %d chars", len(h1))
	}
}

func TestQueryHashDistinguishesRequests(t *testing.T) {
	base := QueryRequest{TenantID: "acme", Query: "q", TopK: 10}
	h1, _ := QueryHash(base)

	other := base
	other.TopK = 20
	h2, _ := QueryHash(other)
	if h1 == h2 {
		t.Error("changing topK should change the hash")
	}

	other = base
	other.TenantID = "globex"
	h3, _ := QueryHash(other)
	if h1 == h3 {
		t.Error("changing tenant should change the hash")
	}
}

func TestSearchCacheKeyFormat(t *testing.T) {
	key := SearchCacheKey("acme", "abc123")
	if key != "vector-search:acme:abc123" {
		t.Errorf("key = %q", key)
	}
	if InvalidationPattern("acme") != "vector-search:acme:*" {
		t.Errorf("pattern = %q", InvalidationPattern("acme"))
	}
}

func TestSearchCacheInvalidateTenant(t *testing.T) {
	cache, err := NewSearchCache(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.Put(SearchCacheKey("acme", "h1"), &AssembledContext{TenantID: "acme"})
	cache.Put(SearchCacheKey("acme", "h2"), &AssembledContext{TenantID: "acme"})
	cache.Put(SearchCacheKey("globex", "h3"), &AssembledContext{TenantID: "globex"})

	removed := cache.InvalidateTenant("acme")
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, ok := cache.Get(SearchCacheKey("acme", "h1")); ok {
		t.Error("acme entry survived invalidation")
	}
	if _, ok := cache.Get(SearchCacheKey("globex", "h3")); !ok {
		t.Error("globex entry was wrongly invalidated")
	}
}

func TestSearchCacheEvicts(t *testing.T) {
	cache, err := NewSearchCache(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache.Put("a", &AssembledContext{})
	cache.Put("b", &AssembledContext{})
	cache.Put("c", &AssembledContext{})
	if cache.Len() != 2 {
		t.Errorf("len = %d, want 2", cache.Len())
	}
}
