// Package registry implements the service container: registration of typed
// service descriptors, lazy construction with declared dependencies,
// concurrent-safe singleton resolution, aggregated health reporting, and
// ordered graceful shutdown.
//
// Dependencies are declared explicitly at registration time and resolved
// recursively before a factory runs, so wiring order never leaks into
// callers. Registration is pure metadata; nothing is constructed until the
// first Resolve.
package registry
