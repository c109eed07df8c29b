package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
)

func TestClassifyHTTPStatus(t *testing.T) {
	cases := []struct {
		status    int
		wantCode  apperrors.ErrorCode
		retryable bool
	}{
		{http.StatusUnauthorized, apperrors.ErrCodeUnauthorized, false},
		{http.StatusForbidden, apperrors.ErrCodeUnauthorized, false},
		{http.StatusTooManyRequests, apperrors.ErrCodeRateLimited, true},
		{http.StatusRequestTimeout, apperrors.ErrCodeTimeout, true},
		{http.StatusInternalServerError, apperrors.ErrCodeExternalService, true},
		{http.StatusBadGateway, apperrors.ErrCodeExternalService, true},
		{http.StatusBadRequest, apperrors.ErrCodeInvalidInput, false},
	}
	for _, c := range cases {
		err := ClassifyHTTPStatus("test", c.status, "body")
		if apperrors.CodeOf(err) != c.wantCode {
			t.Errorf("status %d: expected %s, got %s", c.status, c.wantCode, apperrors.CodeOf(err))
		}
		if apperrors.IsRetryable(err) != c.retryable {
			t.Errorf("status %d: expected retryable=%v", c.status, c.retryable)
		}
	}

	if err := ClassifyHTTPStatus("test", http.StatusOK, ""); err != nil {
		t.Errorf("expected nil for 2xx, got %v", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	if err := ClassifyTransportError("test", nil); err != nil {
		t.Errorf("expected nil for nil, got %v", err)
	}

	if got := apperrors.CodeOf(ClassifyTransportError("test", context.Canceled)); got != apperrors.ErrCodeCanceled {
		t.Errorf("expected CANCELED, got %s", got)
	}
	if got := apperrors.CodeOf(ClassifyTransportError("test", context.DeadlineExceeded)); got != apperrors.ErrCodeTimeout {
		t.Errorf("expected TIMEOUT for deadline, got %s", got)
	}
	if got := apperrors.CodeOf(ClassifyTransportError("test", timeoutErr{})); got != apperrors.ErrCodeTimeout {
		t.Errorf("expected TIMEOUT for net timeout, got %s", got)
	}
	if got := apperrors.CodeOf(ClassifyTransportError("test", errors.New("connection refused"))); got != apperrors.ErrCodeConnectionFailed {
		t.Errorf("expected CONNECTION_FAILED, got %s", got)
	}
}

func TestRegisterFactoryAndNewProvider(t *testing.T) {
	created := 0
	RegisterFactory("classify-test", func(cfg Config) (Provider, error) {
		created++
		if cfg.Timeout != DefaultTimeout {
			t.Errorf("expected defaults applied before the factory runs, timeout %v", cfg.Timeout)
		}
		return nil, nil
	})

	if _, err := NewProvider(Config{Type: "classify-test", Model: "m"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created != 1 {
		t.Errorf("expected 1 factory call, got %d", created)
	}

	if _, err := NewProvider(Config{Type: "never-registered"}); err == nil {
		t.Error("expected an error for an unregistered adapter type")
	}
}
