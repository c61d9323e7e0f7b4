package cache

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCache_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string, int](time.Hour, 0, clock.Now)

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get() = %v %v, want 1 true", v, ok)
	}

	clock.Advance(59 * time.Minute)
	if _, ok := c.Get("a"); !ok {
		t.Error("Get() before the TTL should hit")
	}

	clock.Advance(time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("Get() at the TTL should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, expired entry should have been removed", c.Len())
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c := New[string, int](time.Hour, 2, nil)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // update in place does not evict
	c.Set("c", 3)

	if _, ok := c.Get("a"); !ok {
		t.Error("a was refreshed and should have been kept")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b is the oldest entry and should have been evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %v %v", v, ok)
	}
}

func TestCache_Purge(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[int, string](time.Minute, 0, clock.Now)
	c.Set(1, "one")
	clock.Advance(2 * time.Minute)
	c.Set(2, "two")
	c.Purge()
	if c.Len() != 1 {
		t.Errorf("Len() after Purge() = %d, want 1", c.Len())
	}
	c.Delete(2)
	if c.Len() != 0 {
		t.Errorf("Len() after Delete() = %d, want 0", c.Len())
	}
}
