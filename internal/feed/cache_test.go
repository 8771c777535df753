package feed

import (
	"testing"
	"time"
)

func TestCache_PutThenGet(t *testing.T) {
	c := NewCache(5 * time.Minute)

	entry := c.Put("42", []byte("<rss/>"))
	if entry.Fingerprint == "" {
		t.Fatal("expected a fingerprint")
	}

	got := c.Get("42")
	if got == nil {
		t.Fatal("expected a cache hit")
	}
	if string(got.Body) != "<rss/>" {
		t.Fatalf("body: %q", got.Body)
	}
	if got.Fingerprint != entry.Fingerprint {
		t.Fatalf("fingerprint mismatch: %q vs %q", got.Fingerprint, entry.Fingerprint)
	}
}

func TestCache_MissForUnknownStore(t *testing.T) {
	c := NewCache(5 * time.Minute)
	if got := c.Get("nope"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestCache_ExpiresLazilyOnRead(t *testing.T) {
	c := NewCache(5 * time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put("42", []byte("<rss/>"))

	now = now.Add(4 * time.Minute)
	if c.Get("42") == nil {
		t.Fatal("entry should still be live")
	}

	now = now.Add(2 * time.Minute)
	if got := c.Get("42"); got != nil {
		t.Fatalf("entry should have expired, got %+v", got)
	}

	// The expired entry must be gone, not just hidden.
	c.mu.RLock()
	_, ok := c.entries["42"]
	c.mu.RUnlock()
	if ok {
		t.Fatal("expired entry was not evicted")
	}
}

func TestCache_PutReplacesEntry(t *testing.T) {
	c := NewCache(5 * time.Minute)

	first := c.Put("42", []byte("one"))
	second := c.Put("42", []byte("two"))

	got := c.Get("42")
	if got == nil || string(got.Body) != "two" {
		t.Fatalf("expected replacement, got %+v", got)
	}
	if first.Fingerprint == second.Fingerprint {
		t.Fatal("different bodies must produce different fingerprints")
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint([]byte("identical bytes"))
	b := Fingerprint([]byte("identical bytes"))
	if a != b {
		t.Fatalf("fingerprints differ: %q vs %q", a, b)
	}

	changed := Fingerprint([]byte("identical bytes!"))
	if changed == a {
		t.Fatal("a differing byte must change the fingerprint")
	}
}
