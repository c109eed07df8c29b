// Package bootstrap assembles the application: it registers every service
// into the registry with its declared dependencies, initializes logging and
// telemetry, starts the HTTP surface, and exposes one composite health
// check. The registry is created here and passed down explicitly; nothing in
// the tree reaches for a global container.
package bootstrap
