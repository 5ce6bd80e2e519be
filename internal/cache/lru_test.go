package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok { // a becomes most recent
		t.Fatalf("expected a")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("a should survive, got %q %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("x", 1)
	c.Set("y", 2)
	now = now.Add(30 * time.Second)
	c.Set("y", 3) // refreshes y's TTL

	now = now.Add(45 * time.Second)
	if _, ok := c.Get("x"); ok {
		t.Fatalf("x should have expired")
	}
	if removed := c.CleanExpired(); removed != 0 {
		t.Fatalf("expected nothing left to clean, removed %d", removed)
	}
	if v, ok := c.Get("y"); !ok || v != 3 {
		t.Fatalf("y should be live, got %d %v", v, ok)
	}

	now = now.Add(time.Hour)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
}

func TestLRUStats(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	c.Set("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("nope")
	c.Delete("k")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Size != 0 {
		t.Fatalf("unexpected stats %+v", s)
	}
}
