// Package observability wires OpenTelemetry metrics and tracing for the
// service. Metrics export over OTLP HTTP when an endpoint is configured;
// tracing uses the global tracer provider, which stays no-op unless the
// embedding process installs one.
package observability
