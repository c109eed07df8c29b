// Package orchestrator routes AI generation requests across a primary
// provider and an ordered fallback chain. Each provider attempt is retried
// with exponential backoff for transient failures, and every attempt is
// recorded to the metrics monitor. Total outage is returned as a degraded
// response value, never an error, so callers handle it on the normal control
// path.
package orchestrator
