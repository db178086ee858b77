package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired indicates the refresh token was rejected and the
	// stored credentials have been purged. It is terminal.
	ErrSessionExpired = errors.New("session expired")

	// ErrConnectivity indicates no HTTP response was received at all.
	ErrConnectivity = errors.New("backend unreachable")
)

// Error is a failed exchange with the backend. Status is 0 for
// connectivity failures on writes.
type Error struct {
	Status   int
	Message  string
	Endpoint string
	Method   string
	// Payload is the decoded error body, when it was JSON.
	Payload map[string]any
	// Err is the underlying network error for Status 0.
	Err error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Endpoint, e.Message, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrConnectivity for status-0 errors.
func (e *Error) Is(target error) bool {
	return target == ErrConnectivity && e.Status == 0
}

// StatusOf returns the HTTP status carried by err, or -1 when err is not a
// transport error.
func StatusOf(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.Status
	}
	return -1
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusOf(err) == 404
}

func errorCode(err error) string {
	var te *Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired):
		return "SESSION_EXPIRED"
	case errors.Is(err, ErrConnectivity):
		return "UNAVAILABLE"
	case errors.As(err, &te):
		return fmt.Sprintf("HTTP_%d", te.Status)
	default:
		return "UNKNOWN"
	}
}
