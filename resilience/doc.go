// Package resilience provides fault-tolerance primitives for provider
// calls: context-aware retry with exponential backoff and a per-provider
// circuit breaker.
//
// Retry classification is delegated to the errors package: only failures
// whose error code is marked retryable (connection, timeout, rate limit,
// server-side provider errors) are attempted again.
package resilience
