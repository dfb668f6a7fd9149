package cache

import (
	"fmt"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)

	if _, ok := c.Get("missing"); ok {
		t.Errorf("Get on empty cache reported a hit")
	}

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = (%d, %v), want (1, true)", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Set did not overwrite: got %d, want 2", v)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() int {
		calls++
		return 7
	}

	if v := c.GetOrCreate("k", create); v != 7 {
		t.Errorf("GetOrCreate = %d, want 7", v)
	}
	if v := c.GetOrCreate("k", create); v != 7 {
		t.Errorf("GetOrCreate = %d, want 7", v)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestCacheSoftLimitEviction(t *testing.T) {
	c := New[int, int](8)
	for i := range 9 {
		c.Set(i, i)
	}
	// Exceeding the soft limit trims back to 75% of the limit.
	if got, want := c.Len(), 6; got != want {
		t.Errorf("Len after eviction = %d, want %d", got, want)
	}
	// The most recently written entry survives.
	if _, ok := c.Get(8); !ok {
		t.Errorf("newest entry evicted")
	}
}

func TestCacheEvictsOldestFirst(t *testing.T) {
	c := New[int, int](4)
	for i := range 4 {
		c.Set(i, i)
	}
	// Touch 0 so 1 becomes the oldest.
	c.Get(0)
	c.Set(4, 4)

	if _, ok := c.Get(1); ok {
		t.Errorf("least recently used entry survived eviction")
	}
	if _, ok := c.Get(0); !ok {
		t.Errorf("recently read entry evicted")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Errorf("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Errorf("Delete(a) twice = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](100)
	for i := range 100 {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("key%d", i%100))
	}
}

func BenchmarkCacheSet(b *testing.B) {
	c := New[string, int](100)
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key%d", i%200), i)
	}
}
