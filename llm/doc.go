// Package llm defines the uniform provider-client boundary for remote
// inference backends: universal request/response types, the Provider
// interface, a named factory registry, and configuration shared by every
// adapter.
//
// Adapters live in subpackages (openai, ollama, mock). The orchestrator
// only ever sees these universal types; vendor-specific wire formats stay
// inside the adapter that owns them.
package llm
