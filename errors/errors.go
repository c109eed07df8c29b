package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail entry and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRetryable reports whether err may be retried. Unknown error types are
// treated as non-retryable so a misclassified failure never loops.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}

// CodeOf returns the error code for err, or ErrCodeInternal when err is not
// an AppError. A nil err returns the empty code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// --- Registry error constructors ---

// ServiceNotRegistered creates an AppError for a resolve of an unknown service name.
func ServiceNotRegistered(name string) *AppError {
	return &AppError{
		Code: ErrCodeServiceNotRegistered, Message: fmt.Sprintf("service %q is not registered", name),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"service": name},
	}
}

// CircularDependency creates an AppError naming the detected resolution cycle.
func CircularDependency(chain []string) *AppError {
	return &AppError{
		Code: ErrCodeCircularDependency, Message: fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"chain": chain},
	}
}

// ConstructionFailed creates an AppError wrapping a failing factory or dependency.
func ConstructionFailed(name string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConstructionFailed, Message: fmt.Sprintf("failed to construct service %q", name),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"service": name}, Cause: cause,
	}
}

// ShuttingDown creates an AppError for a resolve rejected during registry teardown.
func ShuttingDown() *AppError {
	return &AppError{
		Code: ErrCodeShuttingDown, Message: "registry is shutting down",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: false,
	}
}

// --- Provider error constructors ---

// ConnectionFailed creates an AppError for a failed connection to a provider.
func ConnectionFailed(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("unable to connect to provider %s", provider),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// Timeout creates an AppError for a provider call that timed out.
func Timeout(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("provider %s call timed out", provider),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// RateLimited creates an AppError for a rate-limited provider call.
func RateLimited(provider string) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: fmt.Sprintf("provider %s rate limited the request", provider),
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"provider": provider},
	}
}

// Unauthorized creates an AppError for rejected provider credentials.
func Unauthorized(provider string) *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: fmt.Sprintf("provider %s rejected the credentials", provider),
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Details: map[string]any{"provider": provider},
	}
}

// InvalidInput creates an AppError for a request the provider rejected as malformed.
func InvalidInput(provider, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("provider %s rejected the request: %s", provider, reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"provider": provider},
	}
}

// InvalidResponse creates an AppError for an unparseable provider payload.
// It is retryable: a malformed structured response on one attempt may parse on the next.
func InvalidResponse(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidResponse, Message: fmt.Sprintf("provider %s returned an unparseable response", provider),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// ExternalService creates an AppError for a server-side provider failure.
func ExternalService(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("provider %s encountered a server error", provider),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// Canceled creates an AppError for a canceled call or backoff wait.
func Canceled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "request canceled",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: false, Cause: cause,
	}
}

// AllProvidersFailed creates the terminal AppError carried by a degraded response.
func AllProvidersFailed(attempted []string) *AppError {
	return &AppError{
		Code: ErrCodeAllProvidersFailed, Message: "all providers failed",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: false,
		Details: map[string]any{"providers": attempted},
	}
}

// Internal creates an AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
