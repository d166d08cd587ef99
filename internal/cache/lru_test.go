package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[[]byte](2, 0)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", []byte("3"))

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a was used recently and should remain")
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry returned")
	}

	c.Set("x", "1")
	c.Set("y", "2")
	now = now.Add(2 * time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d, want 2", n)
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d after clean", c.Size())
	}
}

func TestLRUCache_DeleteAndClear(t *testing.T) {
	c := NewLRUCache[int](5, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)
	if v, _ := c.Get("a"); v != 3 {
		t.Fatalf("overwrite lost: %d", v)
	}

	c.Delete("a")
	c.Delete("missing")
	if _, ok := c.Get("a"); ok {
		t.Fatal("a should be deleted")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("size = %d after Clear", c.Size())
	}
	c.Set("z", 9)
	if v, ok := c.Get("z"); !ok || v != 9 {
		t.Fatal("cache unusable after Clear")
	}
}

func TestJanitor(t *testing.T) {
	now := time.Now()
	c := NewLRUCache[int](5, time.Second)
	c.now = func() time.Time { return now }
	c.Set("a", 1)

	var reported int
	j := NewJanitor(func(n int) { reported = n })
	j.Register(c)

	if n := j.Sweep(); n != 0 || reported != 0 {
		t.Fatalf("nothing should expire yet: %d %d", n, reported)
	}
	now = now.Add(time.Hour)
	if n := j.Sweep(); n != 1 || reported != 1 {
		t.Fatalf("Sweep = %d reported = %d", n, reported)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
