package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// TimeoutError indicates the backend did not answer within the operation's
// deadline.
type TimeoutError struct {
	Op    string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("backend %s timed out: %v", e.Op, e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// UnreachableError indicates no response was received at all
type UnreachableError struct {
	Op    string
	Cause error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("backend unreachable during %s: %v", e.Op, e.Cause)
}

func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// ServerError is a non-2xx response from the backend. Detail carries the
// backend's own message when its body included one.
type ServerError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend %s rejected (status %d): %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend %s rejected (status %d)", e.Op, e.StatusCode)
}

// ServiceUnavailableError maps HTTP 503 specifically: the feature is down,
// which the user is told about distinctly from a generic failure.
type ServiceUnavailableError struct {
	Op     string
	Detail string
}

func (e *ServiceUnavailableError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend %s unavailable: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("backend %s unavailable", e.Op)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsUnreachable checks if an error is an unreachable error
func IsUnreachable(err error) bool {
	var unreachableErr *UnreachableError
	return errors.As(err, &unreachableErr)
}

// IsServiceUnavailable checks if an error is a 503 mapping
func IsServiceUnavailable(err error) bool {
	var unavailableErr *ServiceUnavailableError
	return errors.As(err, &unavailableErr)
}

// classifyTransportError maps an http.Client error to the domain taxonomy
func classifyTransportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Cause: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &TimeoutError{Op: op, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Op: op, Cause: err}
	}

	return &UnreachableError{Op: op, Cause: err}
}

// classifyStatus maps a non-2xx response to the domain taxonomy
func classifyStatus(op string, statusCode int, detail string) error {
	if statusCode == http.StatusServiceUnavailable {
		return &ServiceUnavailableError{Op: op, Detail: detail}
	}
	return &ServerError{Op: op, StatusCode: statusCode, Detail: detail}
}
