// Package cache provides a small generic LRU cache with a soft limit.
//
// The style cascade keeps converged snapshots here, keyed by style
// generation and zoom, so that re-resolving an unchanged layer at a zoom it
// has already seen returns the identical snapshot.
//
//	c := cache.New[key, *Snapshot](64)
//	snap := c.GetOrCreate(k, func() *Snapshot { return build(k) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
