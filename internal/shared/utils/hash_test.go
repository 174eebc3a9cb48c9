package utils

import "testing"

func TestHashCanonicalDeterministic(t *testing.T) {
	h := DefaultHasher()

	a := map[string]interface{}{"query": "deals closing", "topK": 5, "tenant": "acme"}
	b := map[string]interface{}{"tenant": "acme", "topK": 5, "query": "deals closing"}

	ha, err := h.HashCanonical(a)
	if err != nil {
		t.Fatalf("HashCanonical failed: %v", err)
	}
	hb, err := h.HashCanonical(b)
	if err != nil {
		t.Fatalf("HashCanonical failed: %v", err)
	}

	if ha != hb {
		t.Errorf("expected equal hashes for logically equal maps, got %s vs %s", ha, hb)
	}
}

func TestHashCanonicalDiffers(t *testing.T) {
	h := DefaultHasher()

	ha, _ := h.HashCanonical(map[string]interface{}{"query": "a"})
	hb, _ := h.HashCanonical(map[string]interface{}{"query": "b"})

	if ha == hb {
		t.Error("expected different hashes for different values")
	}
}

func TestHashFieldsOrderIndependent(t *testing.T) {
	h := DefaultHasher()

	if h.HashFields("a", "b", "c") != h.HashFields("c", "a", "b") {
		t.Error("expected field order not to affect hash")
	}
}

func TestShortHash(t *testing.T) {
	if got := ShortHash("abcdef0123456789"); got != "abcdef01" {
		t.Errorf("expected abcdef01, got %s", got)
	}
	if got := ShortHash("abc"); got != "abc" {
		t.Errorf("expected abc, got %s", got)
	}
}
