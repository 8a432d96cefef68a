package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnavailable is returned without contacting the backend while the
// circuit breaker is open.
var ErrUnavailable = errors.New("museum backend unavailable, try again shortly")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Detail returns the backend's message, suitable for showing to the user.
func (e *HTTPError) Detail() string {
	return e.Message
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Message returns the human-readable message carried by err: the backend's
// for an HTTPError, the validation problems for a payload rejected before it
// was sent. It returns "" for any other error.
func Message(err error) string {
	var d interface{ Detail() string }
	if errors.As(err, &d) {
		return d.Detail()
	}
	return ""
}

// errorMessage extracts the message from an error body. The backend reports
// {"detail": "..."} or, for validation failures, {"detail": [{"msg": ...}]}.
func errorMessage(body []byte) string {
	var apiErr struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) != nil {
		return strings.TrimSpace(string(body))
	}
	if len(apiErr.Detail) > 0 {
		var s string
		if json.Unmarshal(apiErr.Detail, &s) == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(apiErr.Detail, &items) == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if apiErr.Error != "" {
		return apiErr.Error
	}
	return strings.TrimSpace(string(body))
}
