package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registry errors (programmer/configuration defects, never retried)
const (
	// ErrCodeServiceNotRegistered indicates a resolve for a name that was never registered.
	ErrCodeServiceNotRegistered ErrorCode = "SERVICE_NOT_REGISTERED"
	// ErrCodeCircularDependency indicates a cycle in the declared dependency graph.
	ErrCodeCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
	// ErrCodeConstructionFailed wraps a failing service factory or dependency.
	ErrCodeConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
	// ErrCodeShuttingDown indicates the registry rejected a resolve during teardown.
	ErrCodeShuttingDown ErrorCode = "SHUTTING_DOWN"
)

// Provider call errors
const (
	// ErrCodeConnectionFailed indicates a failed connection to a provider.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the provider call timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the provider rate limited the caller.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeUnauthorized indicates rejected credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidInput indicates the provider rejected the request as malformed.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidResponse indicates the provider returned an unparseable payload.
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
	// ErrCodeExternalService indicates a server-side provider failure (5xx-class).
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	// ErrCodeCanceled indicates the caller canceled the call or its backoff wait.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeAllProvidersFailed indicates every provider in the chain exhausted its retries.
	ErrCodeAllProvidersFailed ErrorCode = "ALL_PROVIDERS_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeRateLimited:      true,
	ErrCodeExternalService:  true,
	ErrCodeInvalidResponse:  true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
