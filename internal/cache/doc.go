// Package cache provides a generic LRU cache.
//
// The billboard shader compiler keeps recently compiled program
// permutations in a Cache so that toggling an option back to an earlier
// value reuses the earlier module:
//
//	c := cache.New[key, *shader.Module](32)
//	m, ok := c.Get(k)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
