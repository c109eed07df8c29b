// Package metrics collects per-attempt AI call outcomes in a fixed-capacity
// ring buffer and derives windowed aggregates from them: per-provider success
// rates, rolling latency, hourly buckets, and top error causes. Reads
// snapshot the buffer before aggregating, so writers are never blocked for
// longer than the copy.
package metrics
