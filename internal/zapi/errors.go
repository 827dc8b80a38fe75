package zapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnavailable indicates the Zephyr API host is unreachable.
	ErrUnavailable = errors.New("zephyr api unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("zephyr request timed out")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("zephyr resource not found")

	// ErrUnauthorized indicates the credentials were rejected.
	ErrUnauthorized = errors.New("zephyr request not authorized")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("zephyr retry attempts exhausted")

	// ErrInvalidResponse indicates a response body could not be decoded.
	ErrInvalidResponse = errors.New("invalid zephyr response")

	// ErrMissingCredentials indicates the configuration lacks credentials.
	ErrMissingCredentials = errors.New("missing zephyr credentials")

	// ErrReadOnly indicates a write was attempted while READ_ONLY_MODE is on.
	ErrReadOnly = errors.New("zephyr client is in read-only mode")
)

// APIError is a non-2xx response from the Zephyr API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Messages   []string
}

func (e *APIError) Error() string {
	msg := http.StatusText(e.StatusCode)
	if len(e.Messages) > 0 {
		msg = strings.Join(e.Messages, "; ")
	}
	return fmt.Sprintf("zephyr %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is maps status codes onto the package sentinels so callers can use
// errors.Is(err, ErrNotFound).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// apiErrorBody covers both error shapes seen in practice: Zephyr's
// {"errorCode": 404, "message": "..."} and Jira's
// {"errorMessages": [...], "errors": {"field": "..."}}.
type apiErrorBody struct {
	Message       string            `json:"message"`
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Method: method, Path: path}

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			e.Messages = append(e.Messages, parsed.Message)
		}
		e.Messages = append(e.Messages, parsed.ErrorMessages...)
		fields := make([]string, 0, len(parsed.Errors))
		for field := range parsed.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			e.Messages = append(e.Messages, field+": "+parsed.Errors[field])
		}
	}
	if len(e.Messages) == 0 {
		if text := strings.TrimSpace(string(body)); text != "" {
			if len(text) > 200 {
				text = text[:200] + "..."
			}
			e.Messages = []string{text}
		}
	}
	return e
}
