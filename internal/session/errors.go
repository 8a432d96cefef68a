package session

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is the cause attached to a state change when the session
// ended through inactivity or because the backend rejected the token.
var ErrSessionExpired = errors.New("session expired")

const (
	fallbackLoginReason        = "login failed"
	fallbackRegistrationReason = "registration failed"
)

// AuthenticationError reports a failed login. Session state is unchanged.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err == nil {
		return "authentication failed: " + e.Reason
	}
	return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RegistrationError reports a failed registration. Reason carries the
// backend's message verbatim when one was given.
type RegistrationError struct {
	Reason string
	Err    error
}

func (e *RegistrationError) Error() string {
	return e.Reason
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// detailer is implemented by collaborator errors that carry a message meant
// for the user.
type detailer interface {
	Detail() string
}

func reasonOf(err error, fallback string) string {
	var d detailer
	if errors.As(err, &d) {
		if msg := d.Detail(); msg != "" {
			return msg
		}
	}
	return fallback
}
