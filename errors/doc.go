// Package errors provides unified error handling for the insurance AI
// orchestration core. It implements structured error types with machine
// readable codes, HTTP status mapping, and retryable detection.
//
// The Retryable flag is the single classification point the provider
// orchestrator uses to decide whether a failed call attempt may be retried.
package errors
