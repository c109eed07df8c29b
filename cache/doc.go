// Package cache provides an optional response cache for AI generations,
// keyed by a digest of the request. Redis backs the cache when configured;
// otherwise a bounded in-memory store is used. Cache failures are soft:
// they are logged and the caller proceeds as if the lookup missed.
package cache
