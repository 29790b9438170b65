// FILE: internal/pkg/apperror/errors.go
package apperror

import (
	"errors"
	"fmt"
)

// Kinds. Every error returned by the subscription service wraps exactly one of these.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidState     = errors.New("invalid state")
	ErrPolicyViolation  = errors.New("policy violation")
	ErrUpstreamFailure  = errors.New("upstream failure")
)

var kinds = []error{
	ErrNotFound,
	ErrInvalidSignature,
	ErrInvalidState,
	ErrPolicyViolation,
	ErrUpstreamFailure,
}

// Error carries a user-facing message on top of its kind.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func InvalidSignature(message string) error {
	return &Error{Kind: ErrInvalidSignature, Message: message}
}

func InvalidState(message string) error {
	return &Error{Kind: ErrInvalidState, Message: message}
}

func PolicyViolation(message string) error {
	return &Error{Kind: ErrPolicyViolation, Message: message}
}

func Upstream(message string, cause error) error {
	return &Error{Kind: ErrUpstreamFailure, Message: message, Cause: cause}
}

// KindOf returns the kind wrapped by err, or nil for unclassified errors.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the user-facing message of err. Unclassified errors are not exposed.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Server Error"
}
