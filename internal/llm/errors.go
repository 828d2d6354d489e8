package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a completion failure.
type Kind string

// Completion failure kinds.
const (
	KindTimeout      Kind = "timeout"
	KindRateLimited  Kind = "rate_limited"
	KindUnauthorized Kind = "unauthorized"
	KindServerError  Kind = "server_error"
	KindUnknown      Kind = "unknown"
)

// Retryable reports whether another attempt may succeed.
func (k Kind) Retryable() bool {
	return k == KindTimeout || k == KindRateLimited
}

// CompletionError is returned when a completion call fails.
type CompletionError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Cause      error
}

func (e *CompletionError) Error() string {
	msg := fmt.Sprintf("completion %s: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("completion %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *CompletionError) Unwrap() error {
	return e.Cause
}

// ConfigError is returned before any call when the completion service is misconfigured.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("completion config %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// KindOf returns the failure kind of err, or KindUnknown when err is not a *CompletionError.
func KindOf(err error) Kind {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// kindForStatus maps an HTTP status from a completion service to a failure kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= http.StatusInternalServerError:
		return KindServerError
	default:
		return KindUnknown
	}
}
