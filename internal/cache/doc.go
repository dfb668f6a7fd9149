// Package cache provides a generic thread-safe LRU cache with a soft
// limit. The transform package uses it to memoize per-tile matrix products
// across frames.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// The cache must not be copied after creation (it contains a mutex).
package cache
