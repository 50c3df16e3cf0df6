package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_SetGetExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c := New[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("got %q,%v want v,true", got, ok)
	}

	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}

	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, len=%d", c.Len())
	}
}

func TestCache_DefaultTTLAndDelete(t *testing.T) {
	c := New[int](0)

	if c.ttl != 5*time.Second {
		t.Fatalf("got ttl %v, want 5s", c.ttl)
	}

	c.Set("a", 1)
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected deleted key to be missing")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			c.Set(key, i)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Len() != 5 {
		t.Fatalf("got len %d, want 5", c.Len())
	}
}

func TestCache_SweepDropsUnreadExpiredEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c := New[int](time.Minute)
	c.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		c.Set(fmt.Sprintf("sid:%d", i), i)
	}

	now = now.Add(30 * time.Second)
	c.Set("fresh", 1)

	if removed := c.Sweep(); removed != 0 {
		t.Fatalf("swept %d entries before ttl, want 0", removed)
	}

	now = now.Add(45 * time.Second)

	if removed := c.Sweep(); removed != 1000 {
		t.Fatalf("swept %d entries, want 1000", removed)
	}

	if c.Len() != 1 {
		t.Fatalf("got len %d, want only the fresh entry", c.Len())
	}
}

func TestCache_StartSweeper(t *testing.T) {
	c := New[int](time.Millisecond)
	stop := c.StartSweeper(2 * time.Millisecond)
	defer stop()

	for i := 0; i < 500; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper left %d expired entries", c.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}

	stop()
	stop()
}
