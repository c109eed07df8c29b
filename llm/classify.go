package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
)

// ClassifyHTTPStatus maps a provider HTTP status code onto the shared error
// taxonomy. Auth and bad-request failures are non-retryable; rate limits,
// timeouts, and 5xx-class failures are retryable.
func ClassifyHTTPStatus(providerName string, status int, body string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.Unauthorized(providerName)
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimited(providerName)
	case status == http.StatusRequestTimeout:
		return apperrors.Timeout(providerName, nil)
	case status >= 500:
		return apperrors.ExternalService(providerName, errors.New(body)).
			WithDetail("status", status)
	case status >= 400:
		return apperrors.InvalidInput(providerName, body).
			WithDetail("status", status)
	default:
		return nil
	}
}

// ClassifyTransportError maps a transport-level failure (dial, TLS, timeout,
// cancellation) onto the shared error taxonomy.
func ClassifyTransportError(providerName string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.Canceled(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(providerName, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Timeout(providerName, err)
	}
	return apperrors.ConnectionFailed(providerName, err)
}
