package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSessionExpired    = errors.New("session expired")
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrForbidden         = errors.New("access forbidden")
)

// User-facing connectivity messages.
const (
	MsgTimeout     = "Connection timeout. The server is taking too long to respond. Please check your internet connection and try again."
	MsgUnreachable = "Network error. Unable to connect to the server. Please check your internet connection."
)

// AuthError is a login, logout or signup failure with a message fit for display.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// NetworkError is a transport failure: the backend was not reached or did not
// answer in time. It never carries a backend message.
type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: timeout: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Message returns the connectivity hint shown to the operator.
func (e *NetworkError) Message() string {
	if e.Timeout {
		return MsgTimeout
	}
	return MsgUnreachable
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status     int
	Message    string
	ErrorField string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ErrorField != "":
		return e.ErrorField
	default:
		return fmt.Sprintf("backend responded %d %s", e.Status, http.StatusText(e.Status))
	}
}

// Is makes a 401 answer match ErrSessionExpired and a 404 match ErrNotFound.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrSessionExpired:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// NotFoundError is a lookup that matched nothing.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError is a client-side check that failed before any network call.
// Err optionally names the rule that was broken.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MessageFor picks the best message to show for err. Typed console errors use
// their own message, even when they wrap a backend answer; a bare backend
// answer gives its message, then its error field, then fallback.
func MessageFor(err error, fallback string) string {
	var (
		apiErr  *APIError
		netErr  *NetworkError
		authErr *AuthError
		valErr  *ValidationError
		nfErr   *NotFoundError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &valErr):
		return valErr.Message
	case errors.As(err, &nfErr):
		return nfErr.Error()
	case errors.As(err, &netErr):
		return netErr.Message()
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.ErrorField != "" {
			return apiErr.ErrorField
		}
	}
	return fallback
}

// IsNotFound reports whether err is a missing-entity failure, local or from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
