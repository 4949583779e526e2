package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned before any request is sent when a
// parameter fails validation.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

// wrapInvalid tags a validation error from pkg/util as an invalid argument.
func wrapInvalid(err error) error {
	if err == nil || errors.Is(err, ErrInvalidArgument) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
}

// ConnectionError reports a request that never produced an HTTP response.
type ConnectionError struct {
	Host     string
	Port     int
	Protocol string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to %s on port %d via %s: %v", e.Host, e.Port, e.Protocol, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatusError reports an HTTP status other than 200, 201 or 302.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API server did not return an HTTP 200, 201 or 302 response. Status %q was returned instead.", e.Status)
}

// DecodeError reports a response body that is not a JSON object.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("API server returned an invalid JSON response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is an error reported inside a successful HTTP response.
type APIError struct {
	Message string
	// General is set for top level errors (status-msg or a failed message
	// envelope) as opposed to a non-zero response.status.
	General bool
}

func (e *APIError) Error() string {
	if e.General {
		return fmt.Sprintf("a general API error was returned: %q", e.Message)
	}
	return fmt.Sprintf("the API server returned an error: %q", e.Message)
}

// checkEnvelope inspects the decoded body for the error shapes the VPSA uses.
func checkEnvelope(body map[string]any) error {
	if msg, ok := body["status-msg"]; ok {
		return &APIError{Message: stringify(msg), General: true}
	}
	if msg, ok := body["message"]; ok {
		if status, ok := body["status"]; ok && stringify(status) != "success" {
			return &APIError{Message: stringify(msg), General: true}
		}
	}

	inner, ok := body["response"].(map[string]any)
	if !ok {
		return nil
	}
	status, ok := inner["status"]
	if !ok || isZero(status) {
		return nil
	}
	msg, ok := inner["message"]
	if !ok {
		msg = inner["status_msg"]
	}
	return &APIError{Message: stringify(msg)}
}

// isZero reports whether a response status is the numeric or string 0.
// A null status is an error.
func isZero(v any) bool {
	switch s := v.(type) {
	case float64:
		return s == 0
	case string:
		return strings.TrimSpace(s) == "0"
	case fmt.Stringer:
		return s.String() == "0"
	}
	return false
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}
