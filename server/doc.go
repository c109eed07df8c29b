// Package server exposes the HTTP surface of the service: health reporting,
// AI metrics export, and the generation/analysis endpoints. It is a Gin
// application wrapped with h2c so HTTP/2 cleartext clients share the port.
package server
