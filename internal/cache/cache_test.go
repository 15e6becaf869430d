package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/musks-suburbs/zk-fee-profiler/internal/cache"
)

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := cache.New[string, int](time.Minute)
	defer c.Close()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get on empty cache returned ok")
	}

	c.Set(ctx, "a", 1, time.Minute)
	c.Set(ctx, "b", 2, 0) // no TTL, stored forever

	if v, ok := c.Get(ctx, "a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if v, ok := c.Get(ctx, "b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v; want 2, true", v, ok)
	}
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := cache.New[string, int](time.Minute)
	defer c.Close()

	c.Set(ctx, "a", 1, time.Minute)
	c.Set(ctx, "a", 2, time.Minute)

	if v, _ := c.Get(ctx, "a"); v != 2 {
		t.Errorf("Get(a) = %d, want 2", v)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestCache_ExpiryOnRead(t *testing.T) {
	ctx := context.Background()
	// Long janitor interval so expiry is exercised on the read path only.
	c := cache.New[string, int](time.Hour)
	defer c.Close()

	c.Set(ctx, "a", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("Get returned expired entry")
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d after expired read, want 0", got)
	}
}

func TestCache_JanitorSweep(t *testing.T) {
	ctx := context.Background()
	c := cache.New[string, int](5 * time.Millisecond)
	defer c.Close()

	c.Set(ctx, "short", 1, time.Millisecond)
	c.Set(ctx, "long", 2, time.Hour)

	deadline := time.Now().Add(time.Second)
	for c.Len() > 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d after sweep, want 1", got)
	}
	if _, ok := c.Get(ctx, "long"); !ok {
		t.Error("janitor removed unexpired entry")
	}
}

func TestCache_CloseIdempotent(t *testing.T) {
	c := cache.New[string, int](time.Minute)
	c.Close()
	c.Close()

	// Still usable after Close.
	ctx := context.Background()
	c.Set(ctx, "a", 1, time.Minute)
	if v, ok := c.Get(ctx, "a"); !ok || v != 1 {
		t.Errorf("Get(a) after Close = %d, %v; want 1, true", v, ok)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := cache.New[int, int](time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := base*100 + j
				c.Set(ctx, key, j, time.Minute)
				c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if got := c.Len(); got != 800 {
		t.Errorf("Len() = %d, want 800", got)
	}
}
