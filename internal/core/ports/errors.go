package ports

import (
	"errors"
	"fmt"
	"time"
)

// Error classes shared by every provider adapter.
var (
	// ErrConfigurationMissing means credentials are absent; callers fall back.
	ErrConfigurationMissing = errors.New("provider configuration missing")
	// ErrProviderUnauthorized covers 401/403 answers.
	ErrProviderUnauthorized = errors.New("provider unauthorized")
	// ErrProviderRateLimited covers quota and backoff signals.
	ErrProviderRateLimited = errors.New("provider rate limited")
	// ErrProviderUnreachable covers network-level failures and 5xx answers.
	ErrProviderUnreachable = errors.New("provider unreachable")
	// ErrInvalidRequest is the only class surfaced to API callers.
	ErrInvalidRequest = errors.New("invalid request")
)

// ProviderError gives context for a failed provider call.
type ProviderError struct {
	Provider   string
	Kind       error
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Is(target error) bool {
	return target == e.Kind
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// InvalidRequestError names the offending parameter.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}
